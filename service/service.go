package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/voucher/catalog"
	"github.com/viant/voucher/catalog/source"
	"github.com/viant/voucher/embeddings"
	"github.com/viant/voucher/itinerary"
	"github.com/viant/voucher/matching"
	"github.com/viant/voucher/matching/option"
	"github.com/viant/voucher/vectordb"
	"github.com/viant/voucher/voucher"
)

// Option configures the Service.
type Option func(*Service)

// WithEmbedder sets the embedder used for catalog labels and queries.
func WithEmbedder(embedder embeddings.Embedder, model string) Option {
	return func(s *Service) {
		s.embedder = embedder
		s.model = model
	}
}

// WithStore sets the label-embedding cache; the service closes it on Close.
func WithStore(store vectordb.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithSource sets where LoadCatalog reads rows from.
func WithSource(cfg source.Config) Option {
	return func(s *Service) { s.source = cfg }
}

// WithMatcherOptions sets matcher options.
func WithMatcherOptions(opts ...option.Option) Option {
	return func(s *Service) { s.matcherOptions = append(s.matcherOptions, opts...) }
}

// WithCatalogOptions sets catalog build options.
func WithCatalogOptions(opts ...catalog.Option) Option {
	return func(s *Service) { s.catalogOptions = append(s.catalogOptions, opts...) }
}

// WithTitle sets the default voucher title.
func WithTitle(title string) Option {
	return func(s *Service) { s.title = title }
}

// WithPDFRenderer sets the PDF renderer.
func WithPDFRenderer(renderer *voucher.PDFRenderer) Option {
	return func(s *Service) { s.pdf = renderer }
}

// WithLogf sets the progress logger.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Service) { s.logf = logf }
}

type loadedCatalog struct {
	index    *catalog.Index
	loadedAt time.Time
}

// Service exposes catalog loading, matching, itinerary resolution and rendering.
type Service struct {
	embedder       embeddings.Embedder
	model          string
	store          vectordb.Store
	source         source.Config
	loader         *source.Loader
	matcherOptions []option.Option
	catalogOptions []catalog.Option
	title          string
	pdf            *voucher.PDFRenderer
	logf           func(format string, args ...any)

	matcher *matching.Matcher
	current atomic.Pointer[loadedCatalog]
	loadMu  sync.Mutex
}

// NewService creates a new Service.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{loader: source.New()}
	for _, opt := range opts {
		opt(s)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if s.pdf == nil {
		s.pdf = voucher.NewPDFRenderer()
	}
	s.matcher = matching.New(s.embedder, s.matcherOptions...)
	return s, nil
}

// NewFromConfig wires embedder, cache and source from cfg.
func NewFromConfig(ctx context.Context, cfg *Config, logf func(format string, args ...any)) (*Service, error) {
	embedder, model, err := NewEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	store, err := OpenStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	pdf := voucher.NewPDFRenderer()
	if cfg.Voucher.Font != "" {
		pdf.Font = cfg.Voucher.Font
	}
	pdf.Footer = cfg.Voucher.Footer
	opts := []Option{
		WithEmbedder(WrapEmbedder(embedder, model, cfg.Embedder, store, logf), model),
		WithSource(cfg.Catalog.Config),
		WithMatcherOptions(cfg.Matching.Options()...),
		WithCatalogOptions(catalog.WithModel(model), catalog.WithBatchSize(cfg.Catalog.BatchSize)),
		WithTitle(cfg.Voucher.Title),
		WithPDFRenderer(pdf),
		WithLogf(logf),
	}
	if store != nil {
		opts = append(opts, WithStore(store))
	}
	return NewService(opts...)
}

// Close releases the label-embedding cache (if any).
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// Catalog returns the current catalog index or nil before the first load.
func (s *Service) Catalog() *catalog.Index {
	if loaded := s.current.Load(); loaded != nil {
		return loaded.index
	}
	return nil
}

// SetCatalog replaces the current catalog.
func (s *Service) SetCatalog(idx *catalog.Index) {
	s.current.Store(&loadedCatalog{index: idx, loadedAt: time.Now()})
}

// LoadCatalog reads rows from the configured source, builds an index and swaps
// it in. On failure the previous catalog stays in place.
func (s *Service) LoadCatalog(ctx context.Context) (*catalog.Index, error) {
	rows, err := s.loader.Load(ctx, s.source)
	if err != nil {
		return nil, err
	}
	return s.BuildCatalog(ctx, rows)
}

// BuildCatalog builds an index from rows and swaps it in.
func (s *Service) BuildCatalog(ctx context.Context, rows []catalog.Row) (*catalog.Index, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	started := time.Now()
	idx, err := catalog.Build(ctx, rows, s.embedder, s.catalogOptions...)
	if err != nil {
		return nil, err
	}
	s.SetCatalog(idx)
	s.printf("catalog: loaded %d entries (model=%s) in %s", idx.Len(), idx.Model(), time.Since(started).Round(time.Millisecond))
	return idx, nil
}

// Info summarizes the current catalog.
func (s *Service) Info() CatalogInfo {
	loaded := s.current.Load()
	if loaded == nil {
		return CatalogInfo{}
	}
	return CatalogInfo{
		Entries:  loaded.index.Len(),
		Model:    loaded.index.Model(),
		Labels:   loaded.index.Labels(),
		LoadedAt: loaded.loadedAt,
	}
}

// Match resolves a single query against the current catalog. An unmatched
// query is not an error; the response reports Matched=false.
func (s *Service) Match(ctx context.Context, query string) (*MatchResponse, error) {
	result, err := s.matcher.Match(ctx, s.Catalog(), query)
	if err != nil && !errors.Is(err, matching.ErrNoMatch) {
		return nil, err
	}
	return &MatchResponse{
		Query:     result.Query,
		Matched:   result.Matched,
		Label:     result.Label,
		Output:    result.Output,
		Score:     result.Score,
		Pass:      result.Pass,
		Threshold: s.matcher.Threshold(),
	}, nil
}

// Resolve assembles a voucher document from itinerary text.
func (s *Service) Resolve(ctx context.Context, req ResolveRequest) (*voucher.Document, error) {
	title := req.Title
	if title == "" {
		title = s.title
	}
	start := req.Start
	if start.IsZero() {
		now := time.Now()
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	doc, err := itinerary.NewResolver(s.matcher, title).Resolve(ctx, s.Catalog(), start, req.Itinerary)
	if err != nil {
		return nil, err
	}
	unmatched := 0
	for i := range doc.Rows {
		unmatched += doc.Rows[i].Unmatched()
	}
	s.printf("resolve: id=%s rows=%d unmatched=%d", doc.ID, len(doc.Rows), unmatched)
	return doc, nil
}

// Render writes doc to w in the requested format.
func (s *Service) Render(w io.Writer, doc *voucher.Document, format Format) error {
	switch format {
	case FormatText, "":
		return voucher.WriteText(w, doc)
	case FormatPDF:
		return s.pdf.Render(w, doc)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func (s *Service) printf(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}
