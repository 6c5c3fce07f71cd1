package domain

import "time"

// Venue identifies a trading venue whose listings the engine can link.
type Venue string

const (
	VenueKalshi     Venue = "kalshi"
	VenuePolymarket Venue = "polymarket"
)

// Market is a single prediction-market listing as seen by the engine. It is
// immutable from the engine's perspective; the persistence layer owns it.
type Market struct {
	Venue      Venue
	ExternalID string // venue-native id (Kalshi ticker, Polymarket condition id)
	Title      string
	Category   string
	CloseTime  *time.Time
	// Metadata is an opaque venue-specific bag (series ticker, tags, slug,
	// strike values). Missing keys are treated as "no signal", never an error.
	Metadata map[string]string
	// Topic is the previously derived canonical topic, if any.
	Topic Topic

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tag returns a metadata value by key, or "" when absent.
func (m Market) Tag(key string) string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata[key]
}

// Key returns the venue-scoped identity of the market.
func (m Market) Key() string {
	return string(m.Venue) + ":" + m.ExternalID
}
