package vectordb

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/voucher/embeddings"
)

// Embedder serves document embeddings from a Store and only sends cache misses
// to the wrapped embedder. Queries are passed through.
type Embedder struct {
	embedder embeddings.Embedder
	store    Store
	model    string
	logf     func(format string, args ...any)
}

// NewEmbedder wraps embedder with store; model scopes the cache keys.
func NewEmbedder(embedder embeddings.Embedder, store Store, model string, logf func(format string, args ...any)) *Embedder {
	return &Embedder{embedder: embedder, store: store, model: model, logf: logf}
}

func (e *Embedder) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	out := make([][]float32, len(docs))
	keys := make([]string, len(docs))
	var missing []int
	for i, doc := range docs {
		key, err := Key(e.model, doc)
		if err != nil {
			return nil, err
		}
		keys[i] = key
		record, ok, err := e.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("vectordb: get %q: %w", doc, err)
		}
		if ok && len(record.Vector) > 0 {
			out[i] = record.Vector
			continue
		}
		missing = append(missing, i)
	}
	if e.logf != nil {
		e.logf("vectordb: model=%s texts=%d cached=%d", e.model, len(docs), len(docs)-len(missing))
	}
	if len(missing) == 0 {
		return out, nil
	}
	texts := make([]string, len(missing))
	for j, i := range missing {
		texts[j] = docs[i]
	}
	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}
	now := time.Now().UTC()
	for j, i := range missing {
		out[i] = vecs[j]
		record := &Record{Model: e.model, Text: docs[i], Vector: vecs[j], CreatedAt: now}
		if err := e.store.Put(ctx, keys[i], record); err != nil {
			return nil, fmt.Errorf("vectordb: put %q: %w", docs[i], err)
		}
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embedder.EmbedQuery(ctx, text)
}
