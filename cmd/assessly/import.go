package main

import (
	"context"
	"fmt"

	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/internal/storage"
	"github.com/spf13/cobra"
)

func newImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Load JSON/XLSX catalog files into the SQLite database",
		Long: `Merge the given catalog files in order and replace the contents of
storage.database_path with them. Set catalog.source to sqlite to serve from it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), flags, args)
		},
	}
}

func runImport(ctx context.Context, flags *rootFlags, paths []string) error {
	cfg, logger, err := setup(flags)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := catalog.Load(logger, paths...)
	if err != nil {
		return err
	}

	db, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer db.Close()

	if err := db.SaveAssessments(ctx, store.All()); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	fmt.Printf("Imported %d assessments into %s\n", store.Len(), cfg.Storage.DatabasePath)
	return nil
}
