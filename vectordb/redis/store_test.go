package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/viant/voucher/vectordb"
)

func TestStore(t *testing.T) {
	addr := os.Getenv("VOUCHER_REDIS_ADDR")
	if addr == "" {
		t.Skip("VOUCHER_REDIS_ADDR not set")
	}
	ctx := context.Background()
	store, err := Open(ctx, Config{Addr: addr, Prefix: "voucher:test:", TTL: time.Minute})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	key, err := vectordb.Key("test", "Pyramids Tour")
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if err := store.Put(ctx, key, &vectordb.Record{Model: "test", Text: "Pyramids Tour", Vector: []float32{1, 2}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	record, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(record.Vector) != 2 || record.Vector[1] != 2 {
		t.Fatalf("unexpected vector %v", record.Vector)
	}
	if _, ok, _ := store.Get(ctx, "missing-key"); ok {
		t.Fatalf("expected miss")
	}
}
