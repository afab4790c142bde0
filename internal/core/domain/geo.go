package domain

import "github.com/samirrijal/routeguide/internal/pkg/geospatial"

// CoordFactor converts between fixed-point coordinates and degrees.
const CoordFactor = 1e7

// Point is a location in fixed-point degrees (degrees × 10^7).
// It is comparable and used directly as a map key.
type Point struct {
	Latitude  int32 `json:"latitude"`
	Longitude int32 `json:"longitude"`
}

// Lat returns the latitude in degrees.
func (p Point) Lat() float64 { return float64(p.Latitude) / CoordFactor }

// Lng returns the longitude in degrees.
func (p Point) Lng() float64 { return float64(p.Longitude) / CoordFactor }

// PointFromDegrees builds a Point from WGS 84 degrees, truncating below 1e-7.
func PointFromDegrees(lat, lng float64) Point {
	return Point{Latitude: int32(lat * CoordFactor), Longitude: int32(lng * CoordFactor)}
}

// Rectangle is an axis-aligned box. Lo and Hi may be given in any order.
type Rectangle struct {
	Lo Point `json:"lo"`
	Hi Point `json:"hi"`
}

// Contains reports whether p lies inside r, edges included.
func (r Rectangle) Contains(p Point) bool {
	left := min(r.Lo.Longitude, r.Hi.Longitude)
	right := max(r.Lo.Longitude, r.Hi.Longitude)
	top := max(r.Lo.Latitude, r.Hi.Latitude)
	bottom := min(r.Lo.Latitude, r.Hi.Latitude)

	return p.Longitude >= left &&
		p.Longitude <= right &&
		p.Latitude >= bottom &&
		p.Latitude <= top
}

// RectangleAround returns the box enclosing a circle of radiusMeters around center.
func RectangleAround(center Point, radiusMeters float64) Rectangle {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(center.Lat(), center.Lng(), radiusMeters)
	return Rectangle{
		Lo: PointFromDegrees(clamp(minLat, -90, 90), clamp(minLon, -180, 180)),
		Hi: PointFromDegrees(clamp(maxLat, -90, 90), clamp(maxLon, -180, 180)),
	}
}

// Distance returns the great-circle distance between two points in whole
// meters. The result is truncated, not rounded.
func Distance(p1, p2 Point) int32 {
	return int32(geospatial.Haversine(p1.Lat(), p1.Lng(), p2.Lat(), p2.Lng()))
}

// GeoPoint represents a geographic coordinate (WGS 84) in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoPoint returns p in degrees.
func (p Point) GeoPoint() GeoPoint {
	return GeoPoint{Lat: p.Lat(), Lon: p.Lng()}
}

// clamp also maps NaN and infinities produced near the poles into range.
func clamp(v, lo, hi float64) float64 {
	switch {
	case v > hi:
		return hi
	case v < lo, v != v:
		return lo
	}
	return v
}
