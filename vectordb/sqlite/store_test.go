package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/viant/voucher/embeddings/stub"
	"github.com/viant/voucher/vectordb"
)

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	key, _ := vectordb.Key("m", "Pyramids Tour")
	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	record := &vectordb.Record{Model: "m", Text: "Pyramids Tour", Vector: []float32{0.5, -1}, CreatedAt: time.Now().UTC()}
	if err := store.Put(ctx, key, record); err != nil {
		t.Fatalf("put: %v", err)
	}
	record.Vector = []float32{1, 1}
	if err := store.Put(ctx, key, record); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Text != "Pyramids Tour" || got.Vector[0] != 1 || got.Vector[1] != 1 {
		t.Fatalf("unexpected record %+v", got)
	}
	if n, err := store.Count(ctx); err != nil || n != 1 {
		t.Fatalf("count: %d %v", n, err)
	}
	_ = store.Close()
	if _, _, err := store.Get(ctx, key); err != vectordb.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestEmbedder_SkipsCachedLabels(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	inner := stub.New(map[string][]float32{
		"pyramids tour":      {1, 0},
		"nile dinner cruise": {0, 1},
	})

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	embedder := vectordb.NewEmbedder(inner, store, "stub", nil)
	if _, err := embedder.EmbedDocuments(ctx, []string{"Pyramids Tour", "Nile Dinner Cruise"}); err != nil {
		t.Fatalf("embed: %v", err)
	}
	if inner.DocumentTexts() != 2 {
		t.Fatalf("expected 2 encoded texts, got %d", inner.DocumentTexts())
	}
	_ = store.Close()

	store, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	embedder = vectordb.NewEmbedder(inner, store, "stub", nil)
	vecs, err := embedder.EmbedDocuments(ctx, []string{"Nile Dinner Cruise", "Pyramids Tour"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if inner.DocumentTexts() != 2 {
		t.Fatalf("expected cache hits, encoder saw %d texts", inner.DocumentTexts())
	}
	if vecs[0][1] != 1 || vecs[1][0] != 1 {
		t.Fatalf("unexpected vectors %v", vecs)
	}
}
