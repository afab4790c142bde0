package usecases

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/samirrijal/routeguide/internal/core/domain"
	"github.com/samirrijal/routeguide/internal/core/ports"
)

// FeatureCatalog is the immutable list of features loaded at startup.
// It is safe for concurrent use without locking because nothing mutates it
// after construction.
type FeatureCatalog struct {
	features []domain.Feature
}

// NewFeatureCatalog copies features into a new catalog, preserving order.
func NewFeatureCatalog(features []domain.Feature) *FeatureCatalog {
	owned := make([]domain.Feature, len(features))
	for i, f := range features {
		owned[i] = cloneFeature(f)
	}
	return &FeatureCatalog{features: owned}
}

// LoadFeatureCatalog builds a catalog from src.
func LoadFeatureCatalog(ctx context.Context, src ports.FeatureSource) (*FeatureCatalog, error) {
	features, err := src.LoadFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	return NewFeatureCatalog(features), nil
}

// Len returns the number of cataloged features.
func (c *FeatureCatalog) Len() int { return len(c.features) }

// Features returns every feature in catalog order.
func (c *FeatureCatalog) Features() []domain.Feature {
	out := make([]domain.Feature, len(c.features))
	for i, f := range c.features {
		out[i] = cloneFeature(f)
	}
	return out
}

// LookupExact returns the first feature located exactly at p.
// The boolean is false when no feature matches.
func (c *FeatureCatalog) LookupExact(p domain.Point) (domain.Feature, bool) {
	for _, f := range c.features {
		if f.At(p) {
			return cloneFeature(f), true
		}
	}
	return domain.Feature{}, false
}

// MatchCount returns how many features are located exactly at p.
func (c *FeatureCatalog) MatchCount(p domain.Point) int {
	n := 0
	for _, f := range c.features {
		if f.At(p) {
			n++
		}
	}
	return n
}

// InRange yields the located features inside rect in catalog order.
func (c *FeatureCatalog) InRange(rect domain.Rectangle) iter.Seq[domain.Feature] {
	return func(yield func(domain.Feature) bool) {
		for _, f := range c.features {
			if f.Location == nil || !rect.Contains(*f.Location) {
				continue
			}
			if !yield(cloneFeature(f)) {
				return
			}
		}
	}
}

// ScanRange collects InRange into a slice.
func (c *FeatureCatalog) ScanRange(rect domain.Rectangle) []domain.Feature {
	return slices.Collect(c.InRange(rect))
}

// cloneFeature detaches the location pointer so callers never share
// catalog memory.
func cloneFeature(f domain.Feature) domain.Feature {
	if f.Location != nil {
		loc := *f.Location
		f.Location = &loc
	}
	return f
}
