package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

// SupportedExtensions lists the catalog file types LoadFiles understands.
var SupportedExtensions = []string{".json", ".xlsx", ".xlsm"}

// IsCatalogFile reports whether path has a supported catalog extension.
func IsCatalogFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFiles loads each path by extension and concatenates the records in order.
// Duplicate names are kept and reported.
func LoadFiles(logger *zap.Logger, paths ...string) ([]models.Assessment, error) {
	logger = utils.OrNop(logger)
	var all []models.Assessment
	for _, p := range paths {
		var (
			records []models.Assessment
			err     error
		)
		switch strings.ToLower(filepath.Ext(p)) {
		case ".json":
			records, err = LoadJSON(p)
		case ".xlsx", ".xlsm":
			records, err = LoadXLSX(p)
		default:
			return nil, fmt.Errorf("unsupported catalog file %s", p)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		logger.Info("loaded catalog file", zap.String("path", p), zap.Int("records", len(records)))
		all = append(all, records...)
	}

	seen := make(map[string]struct{}, len(all))
	for _, a := range all {
		key := strings.ToLower(a.Name)
		if _, dup := seen[key]; dup {
			logger.Warn("duplicate assessment name in catalog", zap.String("name", a.Name))
			continue
		}
		seen[key] = struct{}{}
	}
	return all, nil
}

// Load reads paths with LoadFiles and builds a Store.
func Load(logger *zap.Logger, paths ...string) (*Store, error) {
	records, err := LoadFiles(logger, paths...)
	if err != nil {
		return nil, err
	}
	return NewStore(records)
}
