package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/routeguide/internal/core/domain"
)

// featureResponse is the REST form of a point lookup. Found is false when no
// feature exists at the point; Name is then empty and Location absent.
type featureResponse struct {
	Name     string        `json:"name"`
	Location *domain.Point `json:"location,omitempty"`
	Found    bool          `json:"found"`
}

// recordRouteRequest is the body of POST /v1/routes.
type recordRouteRequest struct {
	Points []domain.Point `json:"points"`
}

// ListFeaturesHandler returns the whole catalog, paginated.
func ListFeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c)
		features, pg := pageOf(deps.RouteGuide.Catalog().Features(), offset, limit)
		setLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: features, Pagination: pg})
	}
}

// GetFeatureHandler looks up the feature at ?latitude=&longitude=.
func GetFeatureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c, "")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		f, ok := deps.RouteGuide.GetFeature(c.UserContext(), p)
		return c.JSON(featureResponse{Name: f.Name, Location: f.Location, Found: ok})
	}
}

// ListFeaturesInRangeHandler streams the features inside the rectangle given
// by lo_latitude, lo_longitude, hi_latitude and hi_longitude as
// newline-delimited JSON, one feature per line.
func ListFeaturesInRangeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lo, err := queryPoint(c, "lo_")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		hi, err := queryPoint(c, "hi_")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		logger := LoggerFromCtx(c.UserContext())

		// The body is written after the handler returns, so the scan must not
		// be tied to the request context.
		ctx, cancel := context.WithCancel(context.Background())
		features := deps.RouteGuide.ListFeatures(ctx, domain.Rectangle{Lo: lo, Hi: hi})

		c.Set(fiber.HeaderContentType, "application/x-ndjson")
		c.Set("Cache-Control", "no-cache")
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer cancel()
			enc := json.NewEncoder(w)
			for f := range features {
				if err := enc.Encode(f); err != nil {
					logger.Warn("range stream encode failed", "error", err)
					return
				}
				if err := w.Flush(); err != nil {
					// Client went away.
					return
				}
			}
		})
		return nil
	}
}

// NearbyFeaturesHandler returns features within a radius of a point given in
// degrees.
func NearbyFeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 1000)
		limit := c.QueryInt("limit", 20)

		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "lat must be within ±90 and lon within ±180")
		}
		if radius <= 0 || radius > 100000 {
			return errBadRequest(c, "radius must be between 1 and 100000 meters")
		}

		features, err := deps.Features.FindNearby(c.UserContext(), domain.PointFromDegrees(lat, lon), radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if features == nil {
			features = []domain.NearbyFeature{}
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(features)
	}
}

// RecordRouteHandler summarises a route posted as a JSON list of points.
func RecordRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recordRouteRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		summary, err := deps.RouteGuide.RecordRoute(c.UserContext(), &slicePointStream{points: req.Points})
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(summary)
	}
}

// NotesHandler returns the notes recorded at ?latitude=&longitude=.
func NotesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c, "")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		notes := deps.RouteGuide.NotesAt(p)
		if notes == nil {
			notes = []domain.RouteNote{}
		}
		c.Set("Cache-Control", "no-cache")
		return c.JSON(notes)
	}
}

// slicePointStream replays an in-memory list of points as a ports.PointStream.
type slicePointStream struct {
	points []domain.Point
	next   int
}

func (s *slicePointStream) Recv() (domain.Point, error) {
	if s.next >= len(s.points) {
		return domain.Point{}, io.EOF
	}
	p := s.points[s.next]
	s.next++
	return p, nil
}

