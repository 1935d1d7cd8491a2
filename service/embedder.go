package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/viant/voucher/embeddings"
	"github.com/viant/voucher/embeddings/ollama"
	"github.com/viant/voucher/embeddings/openai"
	"github.com/viant/voucher/embeddings/simple"
	"github.com/viant/voucher/embeddings/vertexai"
	"github.com/viant/voucher/vectordb"
	"github.com/viant/voucher/vectordb/redis"
	"github.com/viant/voucher/vectordb/sqlite"
)

const (
	defaultOpenAIModel   = "text-embedding-3-small"
	defaultOllamaModel   = "nomic-embed-text"
	defaultVertexAIModel = "text-embedding-005"
)

// NewEmbedder creates the provider embedder described by cfg and returns it
// with its model name.
func NewEmbedder(cfg EmbedderConfig) (embeddings.Embedder, string, error) {
	model := strings.TrimSpace(cfg.Model)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		envName := cfg.APIKeyEnv
		if envName == "" {
			envName = "OPENAI_API_KEY"
		}
		apiKey := os.Getenv(envName)
		if apiKey == "" {
			return nil, "", fmt.Errorf("embedder: %s is not set", envName)
		}
		if model == "" {
			model = defaultOpenAIModel
		}
		return &openai.Embedder{C: openai.NewClient(apiKey, model, cfg.BaseURL)}, model, nil
	case "ollama":
		if model == "" {
			model = defaultOllamaModel
		}
		var opts []ollama.ClientOption
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithBaseURL(cfg.BaseURL))
		}
		return &ollama.Embedder{C: ollama.NewClient(model, opts...)}, model, nil
	case "vertexai":
		if cfg.Project == "" {
			return nil, "", fmt.Errorf("embedder: vertexai project is required")
		}
		if model == "" {
			model = defaultVertexAIModel
		}
		return vertexai.NewEmbedder(cfg.Project, model, cfg.Location, cfg.Scopes), model, nil
	case "", "simple":
		embedder := simple.New(cfg.Dim)
		return embedder, fmt.Sprintf("simple-%d", embedder.Dim), nil
	default:
		return nil, "", fmt.Errorf("embedder: unsupported provider %q", cfg.Provider)
	}
}

// OpenStore opens the label-embedding cache; it returns nil when none is configured.
func OpenStore(ctx context.Context, cfg CacheConfig) (vectordb.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "":
		return nil, nil
	case "sqlite":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("cache: sqlite dsn required")
		}
		store, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		store, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("cache: unsupported driver %q", cfg.Driver)
	}
}

// WrapEmbedder layers the rate limiter, the persistent label cache and the
// query LRU around embedder.
func WrapEmbedder(embedder embeddings.Embedder, model string, cfg EmbedderConfig, store vectordb.Store, logf func(format string, args ...any)) embeddings.Embedder {
	embedder = embeddings.NewLimited(embedder, cfg.RateLimit, cfg.Burst)
	if store != nil {
		embedder = vectordb.NewEmbedder(embedder, store, model, logf)
	}
	return embeddings.NewCache(embedder, model, cfg.QueryCache)
}
