package domain

import (
	"errors"
	"time"
)

var (
	// ErrMissingLocation is returned when a route note carries no location.
	ErrMissingLocation = errors.New("route note has no location")
	// ErrInvalidRectangle is returned when a rectangle lacks a corner.
	ErrInvalidRectangle = errors.New("rectangle requires both lo and hi corners")
)

// Feature is a named place. A nil Location means the record has no position.
type Feature struct {
	Name     string `json:"name"`
	Location *Point `json:"location,omitempty"`
}

// HasLocation reports whether f carries a position.
func (f Feature) HasLocation() bool { return f.Location != nil }

// At reports whether f is located exactly at p.
func (f Feature) At(p Point) bool {
	return f.Location != nil && *f.Location == p
}

// RouteNote is a message left at a location.
type RouteNote struct {
	Location *Point `json:"location,omitempty"`
	Message  string `json:"message"`
}

// RouteSummary aggregates one recorded route.
type RouteSummary struct {
	PointCount   int32 `json:"point_count"`
	FeatureCount int32 `json:"feature_count"`
	Distance     int32 `json:"distance"`
	ElapsedTime  int32 `json:"elapsed_time"` // whole seconds
}

// NearbyFeature is a feature together with its distance from a query point.
type NearbyFeature struct {
	Feature
	Distance int32 `json:"distance_m"`
}

// RecordedRoute is the event emitted when a route recording completes.
type RecordedRoute struct {
	Summary    RouteSummary `json:"summary"`
	FinishedAt time.Time    `json:"finished_at"`
}
