package geospatial

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 40.0, -74.0, 40.0, -74.0, 0, 0},
		{"one degree of latitude", 0, 0, 1, 0, 111194.93, 0.01},
		{"one degree of longitude at equator", 0, 0, 0, 1, 111194.93, 0.01},
		{"antipodes", 0, 0, 0, 180, math.Pi * earthRadiusMeters, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Haversine() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(40, -74, 1000)
	if minLat >= 40 || maxLat <= 40 || minLon >= -74 || maxLon <= -74 {
		t.Fatalf("box does not surround center: %f %f %f %f", minLat, minLon, maxLat, maxLon)
	}
	// Every corner of the circle's enclosing box is at least radius away on
	// each axis.
	if d := Haversine(40, -74, maxLat, -74); d < 1000-1e-6 {
		t.Errorf("north edge only %f m from center", d)
	}
	if d := Haversine(40, -74, minLat, -74); d < 1000-1e-6 {
		t.Errorf("south edge only %f m from center", d)
	}
	if d := Haversine(40, -74, 40, maxLon); d < 1000-1e-6 {
		t.Errorf("east edge only %f m from center", d)
	}
}
