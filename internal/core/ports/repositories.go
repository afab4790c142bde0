package ports

import (
	"context"

	"github.com/samirrijal/routeguide/internal/core/domain"
)

// FeatureSource supplies the ordered feature records the catalog is built from.
type FeatureSource interface {
	LoadFeatures(ctx context.Context) ([]domain.Feature, error)
}
