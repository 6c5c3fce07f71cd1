package domain

import (
	"context"
	"time"
)

// EligibleQuery narrows the markets returned by MarketStore.ListEligible.
type EligibleQuery struct {
	Venue Venue
	// Lookback restricts to markets created or updated within the window.
	Lookback time.Duration
	// Keywords optionally pre-filters titles (case-insensitive substring, any).
	Keywords []string
	// Topic optionally restricts to markets with a previously derived topic.
	Topic Topic
	Limit int
}

// MarketStore is the persistence collaborator for markets.
type MarketStore interface {
	Upsert(ctx context.Context, m Market) error
	GetByExternalID(ctx context.Context, venue Venue, externalID string) (Market, error)
	ListEligible(ctx context.Context, q EligibleQuery) ([]Market, error)
}

// LinkStore persists cross-venue links. Upsert is idempotent on
// (source venue+id, target venue+id, topic): re-emitting a link overwrites
// status, score and reason rather than inserting a duplicate.
type LinkStore interface {
	Upsert(ctx context.Context, link MarketLink) error
	ListByStatus(ctx context.Context, status LinkStatus, limit int) ([]MarketLink, error)
	UpdateStatus(ctx context.Context, id string, status LinkStatus, rule, reason string, confidence float64) error
}

// Series is a venue metadata record (Kalshi series, Polymarket event group).
type Series struct {
	Venue    Venue
	Ticker   string
	Title    string
	Category string
	Tags     []string
}

// SeriesStore is the read-only venue metadata collaborator. A missing lookup
// returns ErrNotFound, which callers treat as "no additional signal".
type SeriesStore interface {
	Get(ctx context.Context, venue Venue, ticker string) (Series, error)
	Upsert(ctx context.Context, s Series) error
}

// SeriesCache fronts SeriesStore lookups with a TTL cache.
type SeriesCache interface {
	Get(ctx context.Context, venue Venue, ticker string) (Series, error)
	Set(ctx context.Context, s Series) error
}

// MarketListCache caches eligible-market lists per (venue, topic) so repeated
// runs within the TTL skip the database.
type MarketListCache interface {
	Get(ctx context.Context, venue Venue, topic Topic) ([]Market, error)
	Set(ctx context.Context, venue Venue, topic Topic, markets []Market) error
}

// ValidatorVerdict is an external validator's judgement on a link.
type ValidatorVerdict string

const (
	VerdictConfirm   ValidatorVerdict = "confirm"
	VerdictReject    ValidatorVerdict = "reject"
	VerdictUncertain ValidatorVerdict = "uncertain"
)

// ValidatorResult pairs a verdict with the validator's confidence.
type ValidatorResult struct {
	Verdict    ValidatorVerdict
	Confidence float64
}

// LinkValidator is the optional external collaborator that double-checks
// high-score suggested links given the two market titles. Implementations
// must map malformed or failed replies to VerdictUncertain.
type LinkValidator interface {
	Validate(ctx context.Context, sourceTitle, targetTitle string) (ValidatorResult, error)
}

// ValidationBudget rate-limits how many validator calls a day may spend.
type ValidationBudget interface {
	// Spend consumes n units and reports whether budget remained.
	Spend(ctx context.Context, n int) (bool, error)
}
