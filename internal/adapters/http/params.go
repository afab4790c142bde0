package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/routeguide/internal/core/domain"
)

// queryInt32 parses a required fixed-point coordinate query parameter.
func queryInt32(c *fiber.Ctx, key string) (int32, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be a 32-bit integer", key)
	}
	return int32(v), nil
}

// queryPoint reads a point given as <prefix>latitude and <prefix>longitude.
func queryPoint(c *fiber.Ctx, prefix string) (domain.Point, error) {
	lat, err := queryInt32(c, prefix+"latitude")
	if err != nil {
		return domain.Point{}, err
	}
	lng, err := queryInt32(c, prefix+"longitude")
	if err != nil {
		return domain.Point{}, err
	}
	return domain.Point{Latitude: lat, Longitude: lng}, nil
}
