package http

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ETagMiddleware tags buffered 200 responses to GET and HEAD with a weak
// ETag derived from the body, and answers 304 when If-None-Match already
// names it. Streamed bodies are left alone.
func ETagMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		method := c.Method()
		if (method != fiber.MethodGet && method != fiber.MethodHead) || c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}
		resp := c.Response()
		if resp.IsBodyStream() || len(resp.Body()) == 0 {
			return nil
		}

		sum := sha256.Sum256(resp.Body())
		etag := `W/"` + hex.EncodeToString(sum[:8]) + `"`
		c.Set(fiber.HeaderETag, etag)

		if etagMatches(c.Get(fiber.HeaderIfNoneMatch), etag) {
			c.Status(fiber.StatusNotModified)
			resp.ResetBody()
		}
		return nil
	}
}

// etagMatches reports whether an If-None-Match header value names etag.
// Comparison is weak, so W/"x" and "x" match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
