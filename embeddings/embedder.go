package embeddings

import (
	"context"
	"fmt"
)

// Embedder is a minimal interface for computing vector embeddings
// for catalog labels (documents) and itinerary activities (queries).
type Embedder interface {
	EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// EmbedBatched embeds docs in slices of at most batch texts and verifies that
// the embedder returned one vector per text.
func EmbedBatched(ctx context.Context, embedder Embedder, docs []string, batch int) ([][]float32, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if batch <= 0 {
		batch = 64
	}
	out := make([][]float32, 0, len(docs))
	for start := 0; start < len(docs); start += batch {
		end := start + batch
		if end > len(docs) {
			end = len(docs)
		}
		vecs, err := embedder.EmbedDocuments(ctx, docs[start:end])
		if err != nil {
			return nil, err
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), end-start)
		}
		out = append(out, vecs...)
	}
	return out, nil
}
