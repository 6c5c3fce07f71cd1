package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// LinkStore implements domain.LinkStore using PostgreSQL. Upserts key on
// (source venue+id, target venue+id, topic) so re-running the engine
// overwrites rather than duplicates.
type LinkStore struct {
	pool *pgxpool.Pool
}

// NewLinkStore creates a new LinkStore.
func NewLinkStore(pool *pgxpool.Pool) *LinkStore {
	return &LinkStore{pool: pool}
}

const linkColumns = `id, source_venue, source_external_id, target_venue, target_external_id,
	topic, status, score, tier, rule, confidence, reason, algorithm_version, created_at, updated_at`

// Upsert inserts a link or overwrites an existing one's status, score and
// reason. The stored id is kept on conflict so downstream references survive
// re-runs.
func (s *LinkStore) Upsert(ctx context.Context, link domain.MarketLink) error {
	const query = `
		INSERT INTO market_links (id, source_venue, source_external_id, target_venue, target_external_id,
			topic, status, score, tier, rule, confidence, reason, algorithm_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (source_venue, source_external_id, target_venue, target_external_id, topic) DO UPDATE SET
			status = EXCLUDED.status,
			score = EXCLUDED.score,
			tier = EXCLUDED.tier,
			rule = EXCLUDED.rule,
			confidence = EXCLUDED.confidence,
			reason = EXCLUDED.reason,
			algorithm_version = EXCLUDED.algorithm_version,
			updated_at = NOW()`
	_, err := s.pool.Exec(ctx, query,
		link.ID,
		string(link.SourceVenue), link.SourceExternalID,
		string(link.TargetVenue), link.TargetExternalID,
		string(link.Topic), string(link.Status),
		link.Score, string(link.Tier), link.Rule, link.Confidence, link.Reason,
		link.AlgorithmVersion,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert link %s->%s: %w", link.SourceExternalID, link.TargetExternalID, err)
	}
	return nil
}

// ListByStatus returns links in a lifecycle state, newest first.
func (s *LinkStore) ListByStatus(ctx context.Context, status domain.LinkStatus, limit int) ([]domain.MarketLink, error) {
	query := `SELECT ` + linkColumns + ` FROM market_links WHERE status = $1 ORDER BY updated_at DESC`
	args := []any{string(status)}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list links by status %s: %w", status, err)
	}
	defer rows.Close()

	var list []domain.MarketLink
	for rows.Next() {
		var (
			link                        domain.MarketLink
			sv, tv, topic, status, tier string
		)
		if err := rows.Scan(&link.ID, &sv, &link.SourceExternalID, &tv, &link.TargetExternalID,
			&topic, &status, &link.Score, &tier, &link.Rule, &link.Confidence, &link.Reason,
			&link.AlgorithmVersion, &link.CreatedAt, &link.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan link: %w", err)
		}
		link.SourceVenue = domain.Venue(sv)
		link.TargetVenue = domain.Venue(tv)
		link.Topic = domain.Topic(topic)
		link.Status = domain.LinkStatus(status)
		link.Tier = domain.Tier(tier)
		list = append(list, link)
	}
	return list, rows.Err()
}

// UpdateStatus moves a link to a new lifecycle state with the rule that
// triggered the move.
func (s *LinkStore) UpdateStatus(ctx context.Context, id string, status domain.LinkStatus, rule, reason string, confidence float64) error {
	const query = `
		UPDATE market_links
		SET status = $2, rule = $3, reason = $4, confidence = $5, updated_at = NOW()
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id, string(status), rule, reason, confidence)
	if err != nil {
		return fmt.Errorf("postgres: update link %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: link %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
