package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/hyperjump/assessly/internal/config"
	"github.com/hyperjump/assessly/internal/storage"
	"github.com/hyperjump/assessly/internal/vector"
	"github.com/spf13/cobra"
)

// statusResponse is what `assessly status --output json` prints.
type statusResponse struct {
	CatalogSource     string   `json:"catalog_source"`
	CatalogPaths      []string `json:"catalog_paths,omitempty"`
	DatabaseRecords   *int64   `json:"database_records,omitempty"`
	VectorIndexType   string   `json:"vector_index_type"`
	VectorIndexSize   *int     `json:"vector_index_size,omitempty"`
	FAISSAvailable    bool     `json:"faiss_available"`
	RetrievalStrategy string   `json:"retrieval_strategy"`
	RankingProvider   string   `json:"ranking_provider"`
	RankingModel      string   `json:"ranking_model"`
	CacheEnabled      bool     `json:"cache_enabled"`
	DiskUsageBytes    int64    `json:"disk_usage_bytes"`
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show catalog, index and model configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(flags)
			if err != nil {
				return err
			}
			defer logger.Sync()

			status, err := collectStatus(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return writeStatus(cmd.OutOrStdout(), status, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func collectStatus(ctx context.Context, cfg *config.Config) (*statusResponse, error) {
	s := &statusResponse{
		CatalogSource:     cfg.Catalog.Source,
		CatalogPaths:      cfg.Catalog.Paths,
		VectorIndexType:   cfg.Vector.IndexType,
		FAISSAvailable:    vector.IsFAISSAvailable(),
		RetrievalStrategy: cfg.Retrieval.Strategy,
		RankingProvider:   cfg.Ranking.Provider,
		RankingModel:      cfg.Ranking.Model,
		CacheEnabled:      cfg.Cache.RedisAddr != "",
	}

	if _, err := os.Stat(cfg.Storage.DatabasePath); err == nil {
		db, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog database: %w", err)
		}
		n, err := db.CountAssessments(ctx)
		_ = db.Close()
		if err != nil {
			return nil, err
		}
		s.DatabaseRecords = &n
	}

	if idx, err := vector.Open(cfg.Vector.IndexType, cfg.Embedding.Dimensions, cfg.Storage.IndexPath); err == nil {
		size := idx.Size()
		s.VectorIndexSize = &size
		_ = idx.Close()
	}

	usage, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.IndexPath)
	if err != nil {
		return nil, err
	}
	s.DiskUsageBytes = usage
	return s, nil
}

func writeStatus(w io.Writer, s *statusResponse, output string) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(w, "Catalog source:     %s\n", s.CatalogSource)
	for _, p := range s.CatalogPaths {
		fmt.Fprintf(w, "  %s\n", p)
	}
	if s.DatabaseRecords != nil {
		fmt.Fprintf(w, "Database records:   %d\n", *s.DatabaseRecords)
	} else {
		fmt.Fprintf(w, "Database records:   (no database)\n")
	}
	if s.VectorIndexSize != nil {
		fmt.Fprintf(w, "Vector index:       %s, %d vectors\n", s.VectorIndexType, *s.VectorIndexSize)
	} else {
		fmt.Fprintf(w, "Vector index:       %s, not built\n", s.VectorIndexType)
	}
	fmt.Fprintf(w, "FAISS available:    %t\n", s.FAISSAvailable)
	fmt.Fprintf(w, "Retrieval strategy: %s\n", s.RetrievalStrategy)
	fmt.Fprintf(w, "Ranking model:      %s/%s\n", s.RankingProvider, s.RankingModel)
	fmt.Fprintf(w, "Response cache:     %t\n", s.CacheEnabled)
	fmt.Fprintf(w, "Disk usage:         %s\n", storage.FormatBytes(s.DiskUsageBytes))
	return nil
}
