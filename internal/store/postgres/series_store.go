package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// SeriesStore implements domain.SeriesStore using PostgreSQL.
type SeriesStore struct {
	pool *pgxpool.Pool
}

// NewSeriesStore creates a new SeriesStore.
func NewSeriesStore(pool *pgxpool.Pool) *SeriesStore {
	return &SeriesStore{pool: pool}
}

// Get returns one series record; a missing row maps to domain.ErrNotFound,
// which callers treat as "no additional signal".
func (s *SeriesStore) Get(ctx context.Context, venue domain.Venue, ticker string) (domain.Series, error) {
	const query = `SELECT venue, ticker, title, category, tags FROM series WHERE venue = $1 AND ticker = $2`
	var (
		series domain.Series
		v      string
	)
	err := s.pool.QueryRow(ctx, query, string(venue), ticker).Scan(
		&v, &series.Ticker, &series.Title, &series.Category, &series.Tags,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Series{}, fmt.Errorf("postgres: series %s:%s: %w", venue, ticker, domain.ErrNotFound)
		}
		return domain.Series{}, fmt.Errorf("postgres: get series %s:%s: %w", venue, ticker, err)
	}
	series.Venue = domain.Venue(v)
	return series, nil
}

// Upsert inserts or refreshes a series record keyed by (venue, ticker).
func (s *SeriesStore) Upsert(ctx context.Context, series domain.Series) error {
	const query = `
		INSERT INTO series (venue, ticker, title, category, tags)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (venue, ticker) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags`
	_, err := s.pool.Exec(ctx, query,
		string(series.Venue), series.Ticker, series.Title, series.Category, series.Tags,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert series %s:%s: %w", series.Venue, series.Ticker, err)
	}
	return nil
}
