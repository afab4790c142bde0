package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samirrijal/routeguide/internal/core/domain"
)

// FeatureRepo implements ports.FeatureSource with pgx.
type FeatureRepo struct {
	db *DB
}

// NewFeatureRepo creates a new FeatureRepo.
func NewFeatureRepo(db *DB) *FeatureRepo {
	return &FeatureRepo{db: db}
}

// LoadFeatures returns every feature in insertion order. Rows with a NULL
// latitude or longitude come back without a location.
func (r *FeatureRepo) LoadFeatures(ctx context.Context) ([]domain.Feature, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT name, latitude, longitude
		FROM features
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []domain.Feature
	for rows.Next() {
		var (
			f        domain.Feature
			lat, lng *int32
		)
		if err := rows.Scan(&f.Name, &lat, &lng); err != nil {
			return nil, err
		}
		if lat != nil && lng != nil {
			f.Location = &domain.Point{Latitude: *lat, Longitude: *lng}
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// ReplaceAll swaps the stored catalog for features inside one transaction.
func (r *FeatureRepo) ReplaceAll(ctx context.Context, features []domain.Feature) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE features RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	batch := &pgx.Batch{}
	for _, f := range features {
		var lat, lng *int32
		if f.Location != nil {
			lat, lng = &f.Location.Latitude, &f.Location.Longitude
		}
		batch.Queue(`
			INSERT INTO features (name, latitude, longitude)
			VALUES ($1, $2, $3)
		`, f.Name, lat, lng)
	}
	br := tx.SendBatch(ctx, batch)
	for range features {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("batch close: %w", err)
	}

	return tx.Commit(ctx)
}
