package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samirrijal/routeguide/internal/core/domain"
	"github.com/samirrijal/routeguide/internal/core/ports"
	"github.com/samirrijal/routeguide/internal/pkg/metrics"
)

// FeatureService answers radius queries over the catalog.
type FeatureService struct {
	catalog *FeatureCatalog
	cache   ports.CacheService
}

// NewFeatureService creates a new FeatureService. cache may be nil.
func NewFeatureService(catalog *FeatureCatalog, cache ports.CacheService) *FeatureService {
	return &FeatureService{catalog: catalog, cache: cache}
}

// FindNearby returns features within radiusMeters of center, nearest first.
func (s *FeatureService) FindNearby(ctx context.Context, center domain.Point, radiusMeters float64, limit int) ([]domain.NearbyFeature, error) {
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %.0f", radiusMeters)
	}
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	// Try cache
	cacheKey := fmt.Sprintf("features:nearby:%d:%d:%.0f:%d", center.Latitude, center.Longitude, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var features []domain.NearbyFeature
			if err := json.Unmarshal(data, &features); err == nil {
				metrics.CacheHits.WithLabelValues("features_nearby").Inc()
				return features, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("features_nearby").Inc()
	}

	var nearby []domain.NearbyFeature
	// Distances are truncated, so anything under radius+1 m still qualifies.
	for f := range s.catalog.InRange(domain.RectangleAround(center, radiusMeters+1)) {
		d := domain.Distance(center, *f.Location)
		if float64(d) > radiusMeters {
			continue
		}
		nearby = append(nearby, domain.NearbyFeature{Feature: f, Distance: d})
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].Distance < nearby[j].Distance })
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}

	// The catalog never changes, so results can be kept for an hour.
	if s.cache != nil {
		if data, err := json.Marshal(nearby); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return nearby, nil
}
