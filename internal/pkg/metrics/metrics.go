package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routeguide",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routeguide",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routeguide",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// gRPC metrics
	RPCsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routeguide",
		Subsystem: "grpc",
		Name:      "calls_total",
		Help:      "Total RPCs handled, by method and status code",
	}, []string{"method", "code"})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routeguide",
		Subsystem: "grpc",
		Name:      "call_duration_seconds",
		Help:      "RPC latency in seconds, including the lifetime of streams",
		Buckets:   []float64{0.001, 0.01, 0.1, 1, 10, 60, 300},
	}, []string{"method"})

	// Route guide metrics
	CatalogFeatures = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "routeguide",
		Subsystem: "catalog",
		Name:      "features",
		Help:      "Number of features loaded into the catalog",
	})

	FeaturesStreamed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routeguide",
		Subsystem: "catalog",
		Name:      "features_streamed_total",
		Help:      "Total features emitted by range scans",
	})

	RoutesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routeguide",
		Subsystem: "routes",
		Name:      "recorded_total",
		Help:      "Total route recordings completed with a summary",
	})

	NotesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routeguide",
		Subsystem: "chat",
		Name:      "notes_recorded_total",
		Help:      "Total route notes appended to the hub",
	})

	ActiveChatSessions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "routeguide",
		Subsystem: "chat",
		Name:      "active_sessions",
		Help:      "Current number of open chat sessions, by transport",
	}, []string{"transport"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routeguide",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routeguide",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		if !c.Response().IsBodyStream() {
			httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))
		}

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
