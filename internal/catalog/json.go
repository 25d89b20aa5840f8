package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidCatalog is returned when a catalog file does not match the record schema.
var ErrInvalidCatalog = errors.New("invalid catalog")

const recordSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "description", "test_type", "duration", "url", "job_levels", "languages"],
    "properties": {
      "id":          {"type": "string"},
      "name":        {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "test_type":   {"type": "string"},
      "duration":    {"type": "string"},
      "url":         {"type": "string"},
      "job_levels":  {"type": "string"},
      "languages":   {"type": "string"},
      "remote":      {"type": "string"},
      "adaptive":    {"type": "string"}
    }
  }
}`

const maxReportedSchemaErrors = 5

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
})

// LoadJSON reads a JSON array of assessment records from path.
func LoadJSON(path string) ([]models.Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON validates data against the record schema and decodes it.
func ParseJSON(data []byte) ([]models.Assessment, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if !result.Valid() {
		errs := result.Errors()
		msgs := make([]string, 0, maxReportedSchemaErrors)
		for i, e := range errs {
			if i == maxReportedSchemaErrors {
				msgs = append(msgs, fmt.Sprintf("and %d more", len(errs)-i))
				break
			}
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
	}

	var records []models.Assessment
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return records, nil
}
