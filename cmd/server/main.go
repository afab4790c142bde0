package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	grpcadapter "github.com/samirrijal/routeguide/internal/adapters/grpc"
	"github.com/samirrijal/routeguide/internal/adapters/filestore"
	"github.com/samirrijal/routeguide/internal/adapters/http"
	natsadapter "github.com/samirrijal/routeguide/internal/adapters/nats"
	"github.com/samirrijal/routeguide/internal/adapters/postgres"
	"github.com/samirrijal/routeguide/internal/adapters/valkey"
	"github.com/samirrijal/routeguide/internal/core/ports"
	"github.com/samirrijal/routeguide/internal/core/usecases"
	"github.com/samirrijal/routeguide/internal/pkg/config"
	"github.com/samirrijal/routeguide/internal/pkg/logging"
	"github.com/samirrijal/routeguide/internal/pkg/metrics"
	"github.com/samirrijal/routeguide/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("routeguide")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Feature catalog
	src, closeSrc, err := featureSource(ctx, cfg)
	if err != nil {
		log.Fatalf("feature source: %v", err)
	}
	catalog, err := usecases.LoadFeatureCatalog(ctx, src)
	closeSrc()
	if err != nil {
		log.Fatalf("feature catalog: %v", err)
	}
	metrics.CatalogFeatures.Set(float64(catalog.Len()))
	slog.Info("feature catalog loaded", "source", cfg.Features.Source, "features", catalog.Len())

	// NATS
	var (
		publisher  ports.EventPublisher
		subscriber ports.EventSubscriber
		deps       = &http.Dependencies{}
	)
	if cfg.NATS.URL != "" {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
			subscriber = natsadapter.NewSubscriber(pub.Conn())
			deps.NATS = pub.Conn()
		}
	}

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Addr != "" {
		c, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer c.Close()
			cache = c
			deps.Cache = c
		}
	}

	// Use cases
	routeGuide := usecases.NewRouteGuideService(catalog, usecases.NewNoteHub(), publisher)
	deps.RouteGuide = routeGuide
	deps.Features = usecases.NewFeatureService(catalog, cache)
	deps.Events = subscriber

	// gRPC
	grpcServer := grpcadapter.NewGRPCServer(routeGuide)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
	if err != nil {
		log.Fatalf("grpc listen: %v", err)
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             1024 * 1024, // 1 MB max request body
		AppName:               "RouteGuide",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))
	http.SetupRoutes(app, deps)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("gRPC server starting", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("HTTP server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("http listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down, draining connections")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		// GracefulStop waits for open chat sessions; bound it by the same
		// deadline as the HTTP drain.
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("forced HTTP shutdown", "error", err)
		}

		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			slog.Warn("forcing gRPC shutdown")
			grpcServer.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited", "error", err)
	}
	slog.Info("server stopped")
}

// featureSource picks the catalog provider. The returned func releases any
// resources the source holds once the catalog is built.
func featureSource(ctx context.Context, cfg *config.Config) (ports.FeatureSource, func(), error) {
	switch cfg.Features.Source {
	case config.FeatureSourcePostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewFeatureRepo(db), db.Close, nil
	default:
		return filestore.NewFeatureFile(cfg.Features.File), func() {}, nil
	}
}
