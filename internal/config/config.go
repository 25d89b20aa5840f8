// Package config provides configuration loading and structs for the assessly service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Cache     CacheConfig     `yaml:"cache"`
	Indexer   IndexerConfig   `yaml:"indexer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string          `yaml:"host"`
	Port               int             `yaml:"port" validate:"min=1,max=65535"`
	CORSAllowedOrigins []string        `yaml:"cors_allowed_origins"`
	RequestTimeout     time.Duration   `yaml:"request_timeout"`
	RateLimit          RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig configures per-IP rate limiting. Requests == 0 disables it.
type RateLimitConfig struct {
	Requests int           `yaml:"requests" validate:"min=0"`
	Window   time.Duration `yaml:"window"`
}

// CatalogConfig selects where the assessment catalog is loaded from.
// Source "json" reads Paths (JSON or XLSX files, merged in order); "sqlite" reads the database.
type CatalogConfig struct {
	Source string   `yaml:"source" validate:"oneof=json sqlite"`
	Paths  []string `yaml:"paths"`
}

// StorageConfig holds paths for the catalog database and the vector index.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	IndexPath    string `yaml:"index_path"`
}

// EmbeddingConfig holds embedder settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" validate:"oneof=onnx openai mock"`
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions" validate:"min=1"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
	Host       string `yaml:"host"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
}

// VectorConfig selects the nearest-neighbour index implementation.
type VectorConfig struct {
	IndexType string `yaml:"index_type" validate:"oneof=memory faiss"`
}

// RetrievalConfig selects the candidate retrieval strategy.
type RetrievalConfig struct {
	Strategy string `yaml:"strategy" validate:"oneof=lexical vector bleve"`
	TopK     int    `yaml:"top_k" validate:"min=1"`
	Backfill *bool  `yaml:"backfill"`
}

// BackfillOrDefault returns whether empty retrievals are backfilled from the catalog head; defaults to true.
func (r *RetrievalConfig) BackfillOrDefault() bool {
	if r.Backfill != nil {
		return *r.Backfill
	}
	return true
}

// RankingConfig holds the generative model settings used to rank candidates.
type RankingConfig struct {
	Provider     string        `yaml:"provider" validate:"oneof=gemini openai"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"api_key"`
	Host         string        `yaml:"host"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxResults   int           `yaml:"max_results" validate:"min=1"`
	MaxLogLength int           `yaml:"max_log_length"`
	Breaker      BreakerConfig `yaml:"breaker"`
}

// BreakerConfig configures the circuit breaker around the model call.
type BreakerConfig struct {
	Disabled         bool          `yaml:"disabled"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
	Interval         time.Duration `yaml:"interval"`
}

// CacheConfig configures the optional Redis cache of model responses. Empty RedisAddr disables it.
type CacheConfig struct {
	RedisAddr string        `yaml:"redis_addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
}

// IndexerConfig holds offline index build settings.
type IndexerConfig struct {
	Workers   int `yaml:"workers"`
	BatchSize int `yaml:"batch_size"`
}

// Load reads and parses the config file at path, expands paths, applies defaults
// and environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	for i := range cfg.Catalog.Paths {
		cfg.Catalog.Paths[i] = expandPath(cfg.Catalog.Paths[i], configDir)
	}
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)

	ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated config built only from defaults and the environment.
// Relative paths stay relative to the working directory.
func Default() (*Config, error) {
	var cfg Config
	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enum and range constraints declared in struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Catalog.Source == "json" && len(c.Catalog.Paths) == 0 {
		return fmt.Errorf("invalid config: catalog.paths is required when catalog.source is json")
	}
	return nil
}

// ApplyEnv overrides secrets and deployment settings from the environment.
// Values already present in the file win for API keys; PORT always wins.
func ApplyEnv(cfg *Config) {
	if cfg.Ranking.APIKey == "" {
		switch cfg.Ranking.Provider {
		case "gemini":
			cfg.Ranking.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			cfg.Ranking.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.Embedding.APIKey == "" && cfg.Embedding.Provider == "openai" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if port, err := strconv.Atoi(strings.TrimSpace(os.Getenv("PORT"))); err == nil && port > 0 {
		cfg.Server.Port = port
	}
	if addr := strings.TrimSpace(os.Getenv("ASSESSLY_REDIS_ADDR")); addr != "" {
		cfg.Cache.RedisAddr = addr
	}
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
