// Package jsonfile provides a course source that reads records from a
// JSON file, typically the output of a previous scrape run.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursefind-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CourseSource = (*Source)(nil)

// Source reads course records from a JSON array file.
type Source struct {
	path string
}

// NewSource creates a source reading from the given file path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Name returns the source type identifier.
func (s *Source) Name() string {
	return "jsonfile"
}

// Fetch reads and decodes all course records from the file.
func (s *Source) Fetch(ctx context.Context) ([]domain.CourseRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: course file %s", domain.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("reading course file %s: %w", s.path, err)
	}

	var records []domain.CourseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parsing course file %s: %v", domain.ErrValidation, s.path, err)
	}

	logger.Info("loaded %d course records from %s", len(records), s.path)
	return records, nil
}

// Close releases resources. The file source holds none.
func (s *Source) Close() error {
	return nil
}
