package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type requestScopeKey struct{}

// requestScope is what the request-id middleware leaves in the user context.
type requestScope struct {
	id     string
	logger *slog.Logger
}

// RequestIDLogMiddleware puts the request ID and a logger tagged with it,
// the method and the path into the request's user context. It must run
// after the requestid middleware.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if rid == "" {
			return c.Next()
		}

		scope := requestScope{
			id:     rid,
			logger: slog.Default().With("request_id", rid, "method", c.Method(), "path", c.Path()),
		}
		c.SetUserContext(context.WithValue(c.UserContext(), requestScopeKey{}, scope))
		return c.Next()
	}
}

// LoggerFromCtx returns the request-scoped logger, or the default logger
// outside a request.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if s, ok := ctx.Value(requestScopeKey{}).(requestScope); ok {
		return s.logger
	}
	return slog.Default()
}

// RequestIDFromCtx returns the request ID, or "unknown" outside a request.
func RequestIDFromCtx(ctx context.Context) string {
	if s, ok := ctx.Value(requestScopeKey{}).(requestScope); ok {
		return s.id
	}
	return "unknown"
}
