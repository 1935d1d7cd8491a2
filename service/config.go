package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/scy/cred/secret"
	"github.com/viant/voucher/catalog/source"
	"github.com/viant/voucher/matching/option"
	"github.com/viant/voucher/vectordb/redis"
	"gopkg.in/yaml.v3"
)

// Config defines the voucher service settings.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Cache     CacheConfig     `yaml:"cache"`
	Matching  option.Options  `yaml:"matching"`
	Voucher   VoucherConfig   `yaml:"voucher"`
	MCPServer MCPServerConfig `yaml:"mcpServer"`
}

// CatalogConfig locates the reference catalog.
type CatalogConfig struct {
	source.Config `yaml:",inline"`
	Secret        string `yaml:"secret,omitempty"`
	BatchSize     int    `yaml:"batchSize,omitempty"`
}

// EmbedderConfig selects the embedding provider.
type EmbedderConfig struct {
	Provider  string   `yaml:"provider"`
	Model     string   `yaml:"model,omitempty"`
	BaseURL   string   `yaml:"baseURL,omitempty"`
	APIKeyEnv string   `yaml:"apiKeyEnv,omitempty"`
	Project   string   `yaml:"project,omitempty"`
	Location  string   `yaml:"location,omitempty"`
	Scopes    []string `yaml:"scopes,omitempty"`
	Dim       int      `yaml:"dim,omitempty"`
	// RateLimit caps embedder calls per second; zero disables limiting.
	RateLimit  float64 `yaml:"rateLimit,omitempty"`
	Burst      int     `yaml:"burst,omitempty"`
	QueryCache int     `yaml:"queryCache,omitempty"`
}

// CacheConfig defines the persistent label-embedding cache.
type CacheConfig struct {
	Driver string       `yaml:"driver,omitempty"`
	DSN    string       `yaml:"dsn,omitempty"`
	Secret string       `yaml:"secret,omitempty"`
	Redis  redis.Config `yaml:"redis,omitempty"`
}

// VoucherConfig defines document rendering settings.
type VoucherConfig struct {
	Title  string `yaml:"title,omitempty"`
	Footer string `yaml:"footer,omitempty"`
	Font   string `yaml:"font,omitempty"`
}

// MCPServerConfig defines MCP server settings.
type MCPServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	if err := cfg.expand(context.Background()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expand(ctx context.Context) error {
	var err error
	if c.Catalog.URL, err = expandUserPath(c.Catalog.URL); err != nil {
		return err
	}
	if sqlTable := c.Catalog.SQL; sqlTable != nil {
		if sqlTable.DSN, err = expandStoreDSN(sqlTable.DSN, sqlTable.Driver); err != nil {
			return err
		}
		if sqlTable.DSN, err = ExpandDSNWithSecret(ctx, sqlTable.DSN, c.Catalog.Secret); err != nil {
			return err
		}
	}
	if c.Cache.DSN, err = expandStoreDSN(c.Cache.DSN, c.Cache.Driver); err != nil {
		return err
	}
	if c.Cache.Secret != "" {
		switch c.Cache.Driver {
		case "redis":
			if c.Cache.Redis.Password, err = ExpandDSNWithSecret(ctx, c.Cache.Redis.Password, c.Cache.Secret); err != nil {
				return err
			}
		default:
			if c.Cache.DSN, err = ExpandDSNWithSecret(ctx, c.Cache.DSN, c.Cache.Secret); err != nil {
				return err
			}
		}
	}
	return nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return path, nil
	}
	if strings.HasPrefix(trimmed, "file:") {
		rest := strings.TrimLeft(strings.TrimPrefix(strings.TrimPrefix(trimmed, "file://localhost"), "file:"), "/")
		if !strings.HasPrefix(rest, "~") {
			return path, nil
		}
		expanded, err := expandUserPath(rest)
		if err != nil {
			return "", err
		}
		return "file://" + filepath.ToSlash(expanded), nil
	}
	if trimmed[0] != '~' {
		return path, nil
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	return filepath.Join(home, trimmed[2:]), nil
}

func expandStoreDSN(dsn, driver string) (string, error) {
	if dsn == "" {
		return dsn, nil
	}
	// Expand user path only for sqlite-like DSNs or plain paths.
	if driver == "sqlite" || dsn[0] == '~' || dsn[0] == '/' || strings.HasPrefix(dsn, "file:") {
		return expandUserPath(dsn)
	}
	return dsn, nil
}

// ExpandDSNWithSecret loads a secret and expands placeholders in the DSN.
func ExpandDSNWithSecret(ctx context.Context, dsn, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return dsn, nil
	}
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("secret %q provided but dsn is empty", secretRef)
	}
	svc := secret.New()
	sec, err := svc.Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(dsn), nil
}
