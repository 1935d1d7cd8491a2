package embeddings

import (
	"context"
	"strings"
	"testing"
)

type countingEmbedder struct {
	docCalls   int
	queryCalls int
	short      bool
}

func (c *countingEmbedder) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	c.docCalls++
	n := len(docs)
	if c.short {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(len(docs[i]))}
	}
	return out, nil
}

func (c *countingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	c.queryCalls++
	return []float32{float32(len(text))}, nil
}

func TestEmbedBatched(t *testing.T) {
	inner := &countingEmbedder{}
	vecs, err := EmbedBatched(context.Background(), inner, []string{"a", "bb", "ccc", "dddd", "eeeee"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.docCalls != 3 {
		t.Fatalf("expected 3 batches, got %d", inner.docCalls)
	}
	for i, v := range vecs {
		if int(v[0]) != i+1 {
			t.Fatalf("vector %d out of order: %v", i, v)
		}
	}
}

func TestEmbedBatched_CountMismatch(t *testing.T) {
	_, err := EmbedBatched(context.Background(), &countingEmbedder{short: true}, []string{"a", "b"}, 10)
	if err == nil || !strings.Contains(err.Error(), "returned 1 vectors for 2 texts") {
		t.Fatalf("expected count mismatch error, got %v", err)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingEmbedder{}
	c := NewCache(inner, "m", 2).(*Cache)
	ctx := context.Background()
	for _, q := range []string{"a", "b", "a", "c", "b"} {
		if _, err := c.EmbedQuery(ctx, q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// a,b miss; a hit; c miss evicts b; b miss again
	if inner.queryCalls != 4 {
		t.Fatalf("expected 4 inner calls, got %d", inner.queryCalls)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 4 {
		t.Fatalf("unexpected stats hits=%d misses=%d", hits, misses)
	}
}

func TestCache_ReturnsCopies(t *testing.T) {
	c := NewCache(&countingEmbedder{}, "", 4)
	ctx := context.Background()
	v, _ := c.EmbedQuery(ctx, "abc")
	v[0] = 99
	again, _ := c.EmbedQuery(ctx, "abc")
	if again[0] != 3 {
		t.Fatalf("cached vector was mutated: %v", again)
	}
}

func TestNewCache_Disabled(t *testing.T) {
	inner := &countingEmbedder{}
	if NewCache(inner, "", 0) != Embedder(inner) {
		t.Fatalf("expected passthrough when capacity is zero")
	}
}

func TestLimited_Passthrough(t *testing.T) {
	inner := &countingEmbedder{}
	l := NewLimited(inner, 1000, 10)
	if _, err := l.EmbedQuery(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.EmbedDocuments(context.Background(), []string{"x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.queryCalls != 1 || inner.docCalls != 1 {
		t.Fatalf("expected calls to reach inner embedder")
	}
	if NewLimited(inner, 0, 0) != Embedder(inner) {
		t.Fatalf("expected passthrough when rate is zero")
	}
}

func TestLimited_CanceledContext(t *testing.T) {
	l := NewLimited(&countingEmbedder{}, 0.001, 1)
	ctx := context.Background()
	_, _ = l.EmbedQuery(ctx, "first")
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := l.EmbedQuery(canceled, "second"); err == nil {
		t.Fatalf("expected wait error on canceled context")
	}
}
