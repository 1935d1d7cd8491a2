// Package stub provides a table-driven Embedder for tests: texts map to fixed
// vectors so that similarity outcomes are chosen by the test, not by a model.
package stub

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Embedder returns Vectors[text] (case-insensitive, trimmed) or Default.
type Embedder struct {
	Vectors map[string][]float32
	Default []float32
	// Err, when set, is returned from every call.
	Err error

	mu         sync.Mutex
	docTexts   int
	queryCalls int
}

// New creates a stub embedder from text->vector pairs.
func New(vectors map[string][]float32) *Embedder {
	normalized := make(map[string][]float32, len(vectors))
	for k, v := range vectors {
		normalized[key(k)] = v
	}
	return &Embedder{Vectors: normalized}
}

func (e *Embedder) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	e.mu.Lock()
	e.docTexts += len(docs)
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(docs))
	for i, doc := range docs {
		vec, err := e.lookup(doc)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.queryCalls++
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	return e.lookup(text)
}

// DocumentTexts returns the number of texts passed to EmbedDocuments.
func (e *Embedder) DocumentTexts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.docTexts
}

// QueryCalls returns the number of EmbedQuery calls.
func (e *Embedder) QueryCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queryCalls
}

func (e *Embedder) lookup(text string) ([]float32, error) {
	if vec, ok := e.Vectors[key(text)]; ok {
		return append([]float32(nil), vec...), nil
	}
	if e.Default != nil {
		return append([]float32(nil), e.Default...), nil
	}
	return nil, fmt.Errorf("stub: no vector for %q", text)
}

func key(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
