package catalog

import (
	"fmt"
	"strings"

	"github.com/hyperjump/assessly/internal/models"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads assessment records from the first sheet of a spreadsheet export.
// The header row names the columns (case-insensitive; spaces and hyphens count as
// underscores). Missing or empty cells become "Unknown"; rows without a name are skipped.
func LoadXLSX(path string) ([]models.Assessment, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrInvalidCatalog, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[headerKey(h)] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: %s has no name column", ErrInvalidCatalog, path)
	}

	cell := func(row []string, key, missing string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return missing
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			return missing
		}
		return v
	}

	records := make([]models.Assessment, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, "name", "")
		if name == "" {
			continue
		}
		records = append(records, models.Assessment{
			ID:          cell(row, "id", ""),
			Name:        name,
			Description: cell(row, "description", models.Unknown),
			TestType:    cell(row, "test_type", models.Unknown),
			Duration:    cell(row, "duration", models.Unknown),
			URL:         cell(row, "url", ""),
			JobLevels:   cell(row, "job_levels", models.Unknown),
			Languages:   cell(row, "languages", models.Unknown),
			Remote:      cell(row, "remote", ""),
			Adaptive:    cell(row, "adaptive", ""),
		})
	}
	return records, nil
}

func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}
