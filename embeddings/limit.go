package embeddings

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles calls to a remote embedder.
type Limited struct {
	embedder Embedder
	limiter  *rate.Limiter
}

// NewLimited wraps embedder with a limiter allowing perSecond calls with the given burst.
// A non-positive rate returns the embedder unchanged.
func NewLimited(embedder Embedder, perSecond float64, burst int) Embedder {
	if perSecond <= 0 {
		return embedder
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limited{embedder: embedder, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (l *Limited) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.embedder.EmbedDocuments(ctx, docs)
}

func (l *Limited) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.embedder.EmbedQuery(ctx, text)
}
