package domain

import "time"

// LinkStatus is the lifecycle state of a cross-venue market link.
type LinkStatus string

const (
	LinkSuggested     LinkStatus = "suggested"
	LinkAutoConfirmed LinkStatus = "auto_confirmed"
	LinkAutoRejected  LinkStatus = "auto_rejected"
	LinkPendingReview LinkStatus = "pending_review"
)

// MarketLink associates one market from each venue for a single topic.
// Links are keyed by (venue pair, market pair, topic) so repeated runs
// upsert rather than duplicate.
type MarketLink struct {
	ID               string
	SourceVenue      Venue
	SourceExternalID string
	TargetVenue      Venue
	TargetExternalID string
	Topic            Topic
	Status           LinkStatus
	Score            float64
	Tier             Tier
	// Rule names the decision rule that set the current status.
	Rule       string
	Confidence float64
	Reason     string
	// AlgorithmVersion stamps the scoring algorithm that produced the link so
	// stale links can be re-evaluated after engine changes.
	AlgorithmVersion string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RunStats is the accounting a completed engine run returns. Counts cover
// every stage so operators can see where candidates fell out.
type RunStats struct {
	RunID          string
	SourceVenue    Venue
	TargetVenue    Venue
	Topic          Topic
	SourceFetched  int
	TargetFetched  int
	CandidatePairs int
	GateRejected   int
	Scored         int
	Deduplicated   int
	Suggested      int
	AutoConfirmed  int
	AutoRejected   int
	SkippedErrors  int
	Errors         []string
	StartedAt      time.Time
	FinishedAt     time.Time
}
