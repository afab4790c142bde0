package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/routeguide/internal/adapters/valkey"
	"github.com/samirrijal/routeguide/internal/core/ports"
	"github.com/samirrijal/routeguide/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	RouteGuide *usecases.RouteGuideService
	Features   *usecases.FeatureService
	Events     ports.EventSubscriber
	NATS       *nats.Conn
	Cache      *valkey.Cache

	// OpenAPIPath locates the document served at /docs/openapi.yaml.
	// Empty means api/openapi.yaml in the working directory.
	OpenAPIPath string
}
