package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/routeguide/internal/adapters/filestore"
	"github.com/samirrijal/routeguide/internal/adapters/postgres"
	"github.com/samirrijal/routeguide/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|seed> [features.json]")
	}

	cfg, err := config.Load("routeguide-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema: %v", err)
		}
		log.Println("schema applied")
	case "seed":
		path := cfg.Features.File
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		seed(ctx, db, path)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// seed replaces the stored catalog with the contents of a
// route_guide_db.json file.
func seed(ctx context.Context, db *postgres.DB, path string) {
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	features, err := filestore.NewFeatureFile(path).LoadFeatures(ctx)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	if err := postgres.NewFeatureRepo(db).ReplaceAll(ctx, features); err != nil {
		log.Fatalf("seed: %v", err)
	}
	fmt.Printf("OK  %d features from %s\n", len(features), path)
}
