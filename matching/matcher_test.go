package matching

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/viant/voucher/catalog"
	"github.com/viant/voucher/embeddings/stub"
	"github.com/viant/voucher/matching/option"
)

func buildIndex(t *testing.T, e *stub.Embedder, rows ...catalog.Row) *catalog.Index {
	t.Helper()
	idx, err := catalog.Build(context.Background(), rows, e)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return idx
}

func TestMatcher_Match(t *testing.T) {
	e := stub.New(map[string][]float32{
		"Pyramids Tour":          {1, 0, 0},
		"Pyramids Sound Show":    {0.9, 0.1, 0},
		"Nile Dinner Cruise":     {0, 1, 0},
		"Airport Transfer":       {0, 0, 1},
		"Giza plateau visit":     {1, 0, 0.05},
		"boat trip on the river": {0.1, 0.95, 0},
		"shopping":               {-1, 0, 0},
	})
	idx := buildIndex(t, e,
		catalog.Row{Label: "Pyramids Tour", Output: "Visit the Pyramids of Giza"},
		catalog.Row{Label: "Pyramids Sound Show", Output: "Evening light show"},
		catalog.Row{Label: "Nile Dinner Cruise", Output: "Dinner on the Nile"},
		catalog.Row{Label: "Airport Transfer", Output: "Private transfer"},
	)
	tests := []struct {
		name       string
		query      string
		wantOutput string
		wantPass   Pass
		wantNo     bool
	}{
		{name: "exact label", query: "Pyramids Tour", wantOutput: "Visit the Pyramids of Giza", wantPass: PassSubstring},
		{name: "case-insensitive substring", query: "  pYrAmIdS ", wantOutput: "Visit the Pyramids of Giza", wantPass: PassSubstring},
		{name: "substring first occurrence wins", query: "pyramids", wantOutput: "Visit the Pyramids of Giza", wantPass: PassSubstring},
		{name: "substring of later label", query: "dinner", wantOutput: "Dinner on the Nile", wantPass: PassSubstring},
		{name: "regex metacharacters are literal", query: "Tour.*", wantNo: true},
		{name: "semantic fallback", query: "Giza plateau visit", wantOutput: "Visit the Pyramids of Giza", wantPass: PassSemantic},
		{name: "semantic fallback second entry", query: "boat trip on the river", wantOutput: "Dinner on the Nile", wantPass: PassSemantic},
		{name: "below threshold", query: "shopping", wantNo: true},
		{name: "empty query", query: "   ", wantNo: true},
	}
	e.Default = []float32{0, 0, 0}
	m := New(e)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Match(context.Background(), idx, tt.query)
			if tt.wantNo {
				if !errors.Is(err, ErrNoMatch) {
					t.Fatalf("expected ErrNoMatch, got %v", err)
				}
				if res == nil || res.Matched || res.Index != -1 {
					t.Fatalf("expected unmatched result, got %+v", res)
				}
				return
			}
			if err != nil {
				t.Fatalf("match: %v", err)
			}
			if res.Output != tt.wantOutput || res.Pass != tt.wantPass {
				t.Fatalf("got %q via %s, want %q via %s", res.Output, res.Pass, tt.wantOutput, tt.wantPass)
			}
		})
	}
}

func TestMatcher_SubstringSkipsEmbedding(t *testing.T) {
	e := stub.New(map[string][]float32{"Pyramids Tour": {1, 0}})
	idx := buildIndex(t, e, catalog.Row{Label: "Pyramids Tour", Output: "Visit the Pyramids of Giza"})
	m := New(e)
	for _, q := range []string{"Pyramids Tour", "pyramids", "TOUR", "s T"} {
		if _, err := m.Match(context.Background(), idx, q); err != nil {
			t.Fatalf("%q: %v", q, err)
		}
	}
	if e.QueryCalls() != 0 {
		t.Fatalf("substring matches must not embed queries, got %d calls", e.QueryCalls())
	}
}

func TestMatcher_NoMatchCarriesBestScore(t *testing.T) {
	e := stub.New(map[string][]float32{
		"Pyramids Tour": {1, 0},
		"Nile Cruise":   {0, 1},
		"Pyramid Visit": {0.5, 0.0866},
	})
	idx := buildIndex(t, e, catalog.Row{Label: "Pyramids Tour"}, catalog.Row{Label: "Nile Cruise"})
	m := New(e, option.WithThreshold(0.99))
	res, err := m.Match(context.Background(), idx, "Pyramid Visit")
	var noMatch *NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchError, got %v", err)
	}
	q := []float32{0.5, 0.0866}
	want := float64(q[0]) / math.Hypot(float64(q[0]), float64(q[1]))
	if math.Abs(noMatch.BestScore-want) > 1e-6 || math.Abs(res.Score-want) > 1e-6 {
		t.Fatalf("best score = %v, want %v", noMatch.BestScore, want)
	}
	if noMatch.Query != "Pyramid Visit" || noMatch.Threshold != 0.99 {
		t.Fatalf("unexpected error payload %+v", noMatch)
	}
}

func TestMatcher_ThresholdIsInclusive(t *testing.T) {
	e := stub.New(map[string][]float32{
		"Alpha": {1, 0},
		"query": {0.6, 0.8},
	})
	idx := buildIndex(t, e, catalog.Row{Label: "Alpha", Output: "A"})
	res, err := New(e, option.WithThreshold(0.6)).Match(context.Background(), idx, "query")
	if err != nil {
		t.Fatalf("expected match at threshold, got %v", err)
	}
	if res.Pass != PassSemantic || math.Abs(res.Score-0.6) > 1e-6 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestMatcher_SemanticTieKeepsLowestIndex(t *testing.T) {
	e := stub.New(map[string][]float32{
		"First":  {1, 0},
		"Second": {1, 0},
		"query":  {1, 0},
	})
	idx := buildIndex(t, e, catalog.Row{Label: "First", Output: "1"}, catalog.Row{Label: "Second", Output: "2"})
	res, err := New(e).Match(context.Background(), idx, "query")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if res.Output != "1" || res.Index != 0 {
		t.Fatalf("expected first entry on tie, got %+v", res)
	}
}

func TestMatcher_EmptyCatalog(t *testing.T) {
	e := stub.New(nil)
	m := New(e)
	if _, err := m.Match(context.Background(), nil, "anything"); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
	if e.QueryCalls() != 0 {
		t.Fatalf("empty catalog must short-circuit before embedding")
	}
}

func TestMatcher_SubstringOnly(t *testing.T) {
	e := stub.New(map[string][]float32{"Pyramids Tour": {1, 0}, "Pyramid Visit": {1, 0}})
	idx := buildIndex(t, e, catalog.Row{Label: "Pyramids Tour"})
	_, err := New(e, option.WithSubstringOnly()).Match(context.Background(), idx, "Pyramid Visit")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch in substring-only mode, got %v", err)
	}
	if e.QueryCalls() != 0 {
		t.Fatalf("substring-only mode must not embed queries")
	}
}

func TestMatcher_EmbedderFailure(t *testing.T) {
	e := stub.New(map[string][]float32{"Pyramids Tour": {1, 0}})
	idx := buildIndex(t, e, catalog.Row{Label: "Pyramids Tour"})
	_, err := New(e).Match(context.Background(), idx, "unknown")
	if err == nil || errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected embedder failure, got %v", err)
	}
}

func TestMatcher_DimensionMismatch(t *testing.T) {
	e := stub.New(map[string][]float32{"Pyramids Tour": {1, 0}, "other": {1, 0, 0}})
	idx := buildIndex(t, e, catalog.Row{Label: "Pyramids Tour"})
	if _, err := New(e).Match(context.Background(), idx, "other"); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestMatcher_IndexStableUnderCallerMutation(t *testing.T) {
	e := stub.New(map[string][]float32{
		"Alpha": {1, 0},
		"query": {0, 1},
	})
	idx := buildIndex(t, e, catalog.Row{Label: "Alpha", Output: "A"})
	m := New(e)
	if _, err := m.Match(context.Background(), idx, "query"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	entry := idx.Entry(0)
	copy(entry.Vector, []float32{0, 1})
	copy(idx.EmbeddingOf(0), []float32{0, 1})
	res, err := m.Match(context.Background(), idx, "query")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch after mutating copies, got %+v %v", res, err)
	}
	if res.Score != 0 {
		t.Fatalf("expected score 0, got %v", res.Score)
	}
}

func TestMatcher_ZeroThresholdAcceptsNearest(t *testing.T) {
	e := stub.New(map[string][]float32{
		"Alpha": {1, 0},
		"query": {0, 1},
	})
	idx := buildIndex(t, e, catalog.Row{Label: "Alpha", Output: "A"})
	res, err := New(e, option.WithThreshold(0)).Match(context.Background(), idx, "query")
	if err != nil {
		t.Fatalf("expected match with zero threshold, got %v", err)
	}
	if res.Output != "A" || res.Pass != PassSemantic {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestMatcher_CarriesCity(t *testing.T) {
	e := stub.New(map[string][]float32{"Pyramids Tour": {1, 0}})
	idx := buildIndex(t, e, catalog.Row{
		Label: "Pyramids Tour",
		Extra: map[string]string{"City / Tour / Transfer": "Cairo"},
	})
	res, err := New(e).Match(context.Background(), idx, "pyramids")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if res.City != "Cairo" {
		t.Fatalf("expected city Cairo, got %q", res.City)
	}
}
