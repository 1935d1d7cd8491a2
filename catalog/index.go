package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/viant/voucher/embeddings"
)

// Index is the searchable catalog: entries in source order plus a parallel
// matrix of label embeddings. It is never mutated after Build; a reload
// produces a new Index. Accessors return copies.
type Index struct {
	entries []Entry
	vectors [][]float32
	norms   []float64
	dim     int
	keys    []string
	byLabel map[string]int
	model   string
}

// Build materializes an Index from rows, embedding every usable label once.
func Build(ctx context.Context, rows []Row, embedder embeddings.Embedder, opts ...Option) (*Index, error) {
	options := newOptions(opts...)
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if entry, ok := newEntry(row); ok {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return nil, ErrInvalidCatalog
	}
	labels := make([]string, len(entries))
	for i := range entries {
		labels[i] = entries[i].Label
	}
	vectors, err := embeddings.EmbedBatched(ctx, embedder, labels, options.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("catalog: embed labels: %w", err)
	}
	dim := -1
	for i, vec := range vectors {
		if dim >= 0 && len(vec) != dim {
			return nil, fmt.Errorf("catalog: label %q has %d dims, expected %d", labels[i], len(vec), dim)
		}
		dim = len(vec)
	}
	return newIndex(entries, vectors, options.Model), nil
}

func newIndex(entries []Entry, vectors [][]float32, model string) *Index {
	idx := &Index{
		entries: entries,
		vectors: vectors,
		norms:   make([]float64, len(vectors)),
		keys:    make([]string, len(entries)),
		byLabel: make(map[string]int, len(entries)),
		model:   model,
	}
	for i := range entries {
		vectors[i] = cloneVector(vectors[i])
		entries[i].Vector = vectors[i]
		if _, ok := idx.byLabel[entries[i].Label]; !ok {
			idx.byLabel[entries[i].Label] = i
		}
		idx.norms[i] = l2Norm(vectors[i])
		idx.keys[i] = MatchKey(entries[i].Label)
	}
	if len(vectors) > 0 {
		idx.dim = len(vectors[0])
	}
	return idx
}

// Len returns the number of entries; a nil index is empty.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Model returns the embedding model name the index was built with, if known.
func (x *Index) Model() string {
	if x == nil {
		return ""
	}
	return x.model
}

// Labels returns labels in catalog order.
func (x *Index) Labels() []string {
	if x == nil {
		return nil
	}
	out := make([]string, len(x.entries))
	for i := range x.entries {
		out[i] = x.entries[i].Label
	}
	return out
}

// Dim returns the label embedding dimension.
func (x *Index) Dim() int {
	if x == nil {
		return 0
	}
	return x.dim
}

// Entry returns a copy of the entry at position i.
func (x *Index) Entry(i int) Entry {
	entry := x.entries[i]
	entry.Vector = cloneVector(entry.Vector)
	entry.Extra = cloneExtra(entry.Extra)
	return entry
}

// EmbeddingOf returns a copy of the label embedding at position i.
func (x *Index) EmbeddingOf(i int) []float32 {
	return cloneVector(x.vectors[i])
}

// Dot returns the dot product of vec with the label embedding at position i;
// vec must have Dim elements.
func (x *Index) Dot(i int, vec []float32) float64 {
	var dot float64
	for j, v := range x.vectors[i] {
		dot += float64(v) * float64(vec[j])
	}
	return dot
}

// NormOf returns the precomputed L2 norm of the embedding at position i.
func (x *Index) NormOf(i int) float64 {
	return x.norms[i]
}

// KeyOf returns the MatchKey of the label at position i.
func (x *Index) KeyOf(i int) string {
	return x.keys[i]
}

// FormattedOutputOf returns the formatted output of the first entry with label.
func (x *Index) FormattedOutputOf(label string) (string, error) {
	if x != nil {
		if i, ok := x.byLabel[label]; ok {
			return x.entries[i].Output, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, label)
}

func l2Norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
