package place

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"moodplaces/internal/tracing"
)

// PostgresSource is a Source backed by a PostgreSQL places table.
// It lets the demo catalog be swapped for a real provider without touching
// the ranking pipeline.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource creates a PostgresSource over an open database handle.
// The caller owns the handle and is responsible for closing it.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// ListAll returns every place in the catalog table, ordered by ID for
// deterministic output.
func (s *PostgresSource) ListAll(ctx context.Context) (places []Place, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "places", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, latitude, longitude,
		       rating, user_ratings_total, open_now,
		       price_level, types, photo_url
		FROM places
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p       Place
			rating  sql.NullFloat64
			openNow sql.NullBool
			types   pq.StringArray
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Address, &p.Latitude, &p.Longitude,
			&rating, &p.UserRatingsTotal, &openNow,
			&p.PriceLevel, &types, &p.PhotoURL,
		); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		if rating.Valid {
			r := rating.Float64
			p.Rating = &r
		}
		if openNow.Valid {
			o := openNow.Bool
			p.OpenNow = &o
		}
		p.Types = []string(types)
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}

	return places, nil
}

// Seed inserts the given places, replacing any existing rows with the same
// ID. Used to load the demo catalog into a fresh database.
func (s *PostgresSource) Seed(ctx context.Context, places []Place) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "places", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	for _, p := range places {
		var rating sql.NullFloat64
		if p.Rating != nil {
			rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
		}
		var openNow sql.NullBool
		if p.OpenNow != nil {
			openNow = sql.NullBool{Bool: *p.OpenNow, Valid: true}
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO places (id, name, address, latitude, longitude,
			                    rating, user_ratings_total, open_now,
			                    price_level, types, photo_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				address = EXCLUDED.address,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				rating = EXCLUDED.rating,
				user_ratings_total = EXCLUDED.user_ratings_total,
				open_now = EXCLUDED.open_now,
				price_level = EXCLUDED.price_level,
				types = EXCLUDED.types,
				photo_url = EXCLUDED.photo_url`,
			p.ID, p.Name, p.Address, p.Latitude, p.Longitude,
			rating, p.UserRatingsTotal, openNow,
			p.PriceLevel, pq.Array(p.Types), p.PhotoURL,
		)
		if err != nil {
			return fmt.Errorf("seed place %s: %w", p.ID, err)
		}
	}
	return nil
}
