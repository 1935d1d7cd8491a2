package matching

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/viant/voucher/catalog"
	"github.com/viant/voucher/embeddings"
	"github.com/viant/voucher/matching/option"
)

// Matcher resolves a free-text query to a single catalog entry: a
// case-insensitive substring pass over labels first, then the nearest label
// embedding when nothing contains the query.
type Matcher struct {
	options  *option.Options
	embedder embeddings.Embedder
}

// New creates a matcher; embedder must be the one the catalog was built with.
func New(embedder embeddings.Embedder, opts ...option.Option) *Matcher {
	return &Matcher{
		options:  option.NewOptions(opts...),
		embedder: embedder,
	}
}

// Threshold returns the semantic acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.options.Threshold
}

// Match resolves query against idx. An unmatched query yields a *NoMatchError
// together with a Result carrying the best score seen.
func (m *Matcher) Match(ctx context.Context, idx *catalog.Index, query string) (*Result, error) {
	if idx.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	query = strings.TrimSpace(query)
	key := catalog.MatchKey(query)
	if key == "" {
		return m.noMatch(query, 0)
	}
	if i := substringMatch(idx, key); i >= 0 {
		entry := idx.Entry(i)
		return &Result{Query: query, Matched: true, Label: entry.Label, Output: entry.Output, City: entry.City(), Score: 1, Pass: PassSubstring, Index: i}, nil
	}
	if m.options.SubstringOnly {
		return m.noMatch(query, 0)
	}
	if m.embedder == nil {
		return nil, fmt.Errorf("matching: embedder is required for semantic fallback")
	}
	qvec, err := m.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("matching: embed query %q: %w", query, err)
	}
	best, score, err := nearest(idx, qvec)
	if err != nil {
		return nil, err
	}
	if score < m.options.Threshold {
		return m.noMatch(query, score)
	}
	entry := idx.Entry(best)
	return &Result{Query: query, Matched: true, Label: entry.Label, Output: entry.Output, City: entry.City(), Score: score, Pass: PassSemantic, Index: best}, nil
}

func (m *Matcher) noMatch(query string, score float64) (*Result, error) {
	return &Result{Query: query, Score: score, Pass: PassNone, Index: -1},
		&NoMatchError{Query: query, BestScore: score, Threshold: m.options.Threshold}
}

// substringMatch returns the first position whose label key contains key, or -1.
func substringMatch(idx *catalog.Index, key string) int {
	for i := 0; i < idx.Len(); i++ {
		if strings.Contains(idx.KeyOf(i), key) {
			return i
		}
	}
	return -1
}

// nearest returns the argmax of cosine similarity; ties keep the lowest index.
func nearest(idx *catalog.Index, qvec []float32) (int, float64, error) {
	if len(qvec) == 0 {
		return -1, 0, fmt.Errorf("matching: empty query embedding")
	}
	if len(qvec) != idx.Dim() {
		return -1, 0, fmt.Errorf("matching: query embedding has %d dims, catalog has %d", len(qvec), idx.Dim())
	}
	qnorm := vectorNorm(qvec)
	best, bestScore := -1, math.Inf(-1)
	for i := 0; i < idx.Len(); i++ {
		score := cosine(idx.Dot(i, qvec), qnorm, idx.NormOf(i))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore, nil
}

func cosine(dot, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
