package config

import (
	"runtime"
	"time"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 10000
	}
	if cfg.Server.CORSAllowedOrigins == nil {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Server.RateLimit.Window == 0 {
		cfg.Server.RateLimit.Window = time.Minute
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = "json"
	}
	if cfg.Catalog.Source == "json" && len(cfg.Catalog.Paths) == 0 {
		cfg.Catalog.Paths = []string{"./data/shl_assessments_enriched.json"}
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/assessments.db"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "./data/assessments.index"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "./data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 1000
	}
	if cfg.Vector.IndexType == "" {
		cfg.Vector.IndexType = "memory"
	}
	if cfg.Retrieval.Strategy == "" {
		cfg.Retrieval.Strategy = "lexical"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 10
	}
	if cfg.Ranking.Provider == "" {
		cfg.Ranking.Provider = "gemini"
	}
	if cfg.Ranking.Model == "" {
		switch cfg.Ranking.Provider {
		case "openai":
			cfg.Ranking.Model = "gpt-4o-mini"
		default:
			cfg.Ranking.Model = "gemini-2.0-flash"
		}
	}
	if cfg.Ranking.Timeout == 0 {
		cfg.Ranking.Timeout = 30 * time.Second
	}
	if cfg.Ranking.MaxResults == 0 {
		cfg.Ranking.MaxResults = 10
	}
	if cfg.Ranking.MaxLogLength == 0 {
		cfg.Ranking.MaxLogLength = 500
	}
	if cfg.Ranking.Breaker.FailureThreshold == 0 {
		cfg.Ranking.Breaker.FailureThreshold = 5
	}
	if cfg.Ranking.Breaker.OpenTimeout == 0 {
		cfg.Ranking.Breaker.OpenTimeout = 30 * time.Second
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Hour
	}
	if cfg.Indexer.Workers == 0 {
		cfg.Indexer.Workers = max(runtime.NumCPU()/2, 1)
	}
	if cfg.Indexer.BatchSize == 0 {
		cfg.Indexer.BatchSize = 32
	}
}
