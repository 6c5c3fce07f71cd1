package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// MarketStore implements domain.MarketStore using PostgreSQL.
type MarketStore struct {
	pool *pgxpool.Pool
}

// NewMarketStore creates a new MarketStore.
func NewMarketStore(pool *pgxpool.Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

const marketColumns = `venue, external_id, title, category, close_time, metadata, topic, created_at, updated_at`

// Upsert inserts or refreshes a market keyed by (venue, external_id).
func (s *MarketStore) Upsert(ctx context.Context, m domain.Market) error {
	metadataJSON, _ := json.Marshal(m.Metadata)
	const query = `
		INSERT INTO markets (venue, external_id, title, category, close_time, metadata, topic, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (venue, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			close_time = EXCLUDED.close_time,
			metadata = EXCLUDED.metadata,
			topic = EXCLUDED.topic,
			updated_at = NOW()`
	_, err := s.pool.Exec(ctx, query,
		string(m.Venue), m.ExternalID, m.Title, m.Category, m.CloseTime, metadataJSON, string(m.Topic),
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert market %s: %w", m.Key(), err)
	}
	return nil
}

// GetByExternalID returns a market by its venue-native identifier.
func (s *MarketStore) GetByExternalID(ctx context.Context, venue domain.Venue, externalID string) (domain.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets WHERE venue = $1 AND external_id = $2`
	m, err := scanMarket(s.pool.QueryRow(ctx, query, string(venue), externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Market{}, fmt.Errorf("postgres: market %s:%s: %w", venue, externalID, domain.ErrNotFound)
		}
		return domain.Market{}, fmt.Errorf("postgres: get market %s:%s: %w", venue, externalID, err)
	}
	return m, nil
}

// ListEligible returns markets for a venue updated within the lookback
// window, optionally pre-filtered by title keywords (case-insensitive, any)
// or a previously derived topic.
func (s *MarketStore) ListEligible(ctx context.Context, q domain.EligibleQuery) ([]domain.Market, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "venue = "+arg(string(q.Venue)))
	if q.Lookback > 0 {
		where = append(where, "updated_at >= "+arg(time.Now().UTC().Add(-q.Lookback)))
	}
	if q.Topic != "" && q.Topic != domain.TopicUnknown {
		where = append(where, "(topic = "+arg(string(q.Topic))+" OR topic = '' OR topic = 'unknown')")
	}
	if len(q.Keywords) > 0 {
		var likes []string
		for _, kw := range q.Keywords {
			likes = append(likes, "title ILIKE "+arg("%"+kw+"%"))
		}
		where = append(where, "("+strings.Join(likes, " OR ")+")")
	}

	query := `SELECT ` + marketColumns + ` FROM markets WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY venue, external_id`
	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list eligible markets: %w", err)
	}
	defer rows.Close()

	var list []domain.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan market: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarket(row rowScanner) (domain.Market, error) {
	var (
		m            domain.Market
		venue, topic string
		metadataJSON []byte
	)
	err := row.Scan(&venue, &m.ExternalID, &m.Title, &m.Category, &m.CloseTime, &metadataJSON, &topic, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Market{}, err
	}
	m.Venue = domain.Venue(venue)
	m.Topic = domain.Topic(topic)
	if len(metadataJSON) > 0 {
		_ = json.Unmarshal(metadataJSON, &m.Metadata)
	}
	return m, nil
}
