package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/assessly/internal/models"
)

// SQLiteStorage implements CatalogStorage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		test_type TEXT NOT NULL,
		duration TEXT NOT NULL,
		url TEXT NOT NULL,
		job_levels TEXT NOT NULL,
		languages TEXT NOT NULL,
		remote TEXT NOT NULL DEFAULT '',
		adaptive TEXT NOT NULL DEFAULT '',
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_assessments_position ON assessments(position);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveAssessments replaces all stored assessments with records in one transaction.
// Records must carry unique IDs.
func (s *SQLiteStorage) SaveAssessments(ctx context.Context, records []models.Assessment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assessments`); err != nil {
		return fmt.Errorf("failed to clear assessments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assessments (id, position, name, description, test_type, duration, url,
		 job_levels, languages, remote, adaptive, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, a := range records {
		if _, err := stmt.ExecContext(ctx, a.ID, i, a.Name, a.Description, a.TestType, a.Duration, a.URL,
			a.JobLevels, a.Languages, a.Remote, a.Adaptive, now); err != nil {
			return fmt.Errorf("failed to insert assessment %q: %w", a.Name, err)
		}
	}
	return tx.Commit()
}

// ListAssessments returns all stored assessments ordered by position.
func (s *SQLiteStorage) ListAssessments(ctx context.Context) ([]models.Assessment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, test_type, duration, url, job_levels, languages, remote, adaptive
		 FROM assessments ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Assessment
	for rows.Next() {
		var a models.Assessment
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.TestType, &a.Duration, &a.URL,
			&a.JobLevels, &a.Languages, &a.Remote, &a.Adaptive); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// CountAssessments returns the number of stored assessments.
func (s *SQLiteStorage) CountAssessments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
