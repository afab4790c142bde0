// Package filestore loads the feature catalog from a JSON document in the
// route_guide_db.json layout:
//
//	[{"location": {"latitude": 407838351, "longitude": -746143763}, "name": "..."}]
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samirrijal/routeguide/internal/core/domain"
)

// FeatureFile implements ports.FeatureSource backed by a JSON file.
type FeatureFile struct {
	path string
}

// NewFeatureFile creates a FeatureFile reading from path.
func NewFeatureFile(path string) *FeatureFile {
	return &FeatureFile{path: path}
}

// LoadFeatures reads and decodes the whole file.
func (f *FeatureFile) LoadFeatures(ctx context.Context) ([]domain.Feature, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open feature file: %w", err)
	}
	defer file.Close()

	features, err := DecodeFeatures(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return features, nil
}

// DecodeFeatures parses a route_guide_db.json document. Entries without a
// location object are kept with a nil Location.
func DecodeFeatures(r io.Reader) ([]domain.Feature, error) {
	var features []domain.Feature
	if err := json.NewDecoder(r).Decode(&features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return features, nil
}
