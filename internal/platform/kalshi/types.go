package kalshi

import (
	"strconv"
	"strings"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// KalshiMarket is a market as returned by the Kalshi REST API, reduced to the
// fields the linker reads.
type KalshiMarket struct {
	Ticker          string  `json:"ticker"`
	EventTicker     string  `json:"event_ticker"`
	Title           string  `json:"title"`
	Subtitle        string  `json:"subtitle"`
	Status          string  `json:"status"` // "open", "closed", "settled"
	Category        string  `json:"category"`
	StrikeType      string  `json:"strike_type"`
	FloorStrike     float64 `json:"floor_strike"`
	CapStrike       float64 `json:"cap_strike"`
	ExpirationValue string  `json:"expiration_value"`
	OpenTime        string  `json:"open_time"`
	CloseTime       string  `json:"close_time"`
}

// KalshiSeries is a series record from GET /series/{ticker}.
type KalshiSeries struct {
	Ticker   string   `json:"ticker"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// KalshiEvent groups markets under one event ticker.
type KalshiEvent struct {
	EventTicker  string `json:"event_ticker"`
	SeriesTicker string `json:"series_ticker"`
	Title        string `json:"title"`
	Category     string `json:"category"`
}

// KalshiErrorResponse is the Kalshi API error envelope.
type KalshiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToDomain converts the API DTO into the engine's market record. The series
// ticker is derived from the market ticker's first dash-separated segment when
// the event ticker is absent.
func (m KalshiMarket) ToDomain() domain.Market {
	meta := map[string]string{
		"ticker": m.Ticker,
	}
	if m.EventTicker != "" {
		meta["event_ticker"] = m.EventTicker
	}
	if seg, _, ok := strings.Cut(m.Ticker, "-"); ok {
		meta["series_ticker"] = seg
	} else {
		meta["series_ticker"] = m.Ticker
	}
	if m.Subtitle != "" {
		meta["subtitle"] = m.Subtitle
	}
	if m.StrikeType != "" {
		meta["strike_type"] = m.StrikeType
	}
	if m.FloorStrike != 0 {
		meta["floor_strike"] = strconv.FormatFloat(m.FloorStrike, 'f', -1, 64)
	}
	if m.CapStrike != 0 {
		meta["cap_strike"] = strconv.FormatFloat(m.CapStrike, 'f', -1, 64)
	}

	out := domain.Market{
		Venue:      domain.VenueKalshi,
		ExternalID: m.Ticker,
		Title:      m.Title,
		Category:   m.Category,
		Metadata:   meta,
	}
	if t, err := time.Parse(time.RFC3339, m.CloseTime); err == nil {
		out.CloseTime = &t
	}
	return out
}

// ToDomain converts a series DTO to the engine's series record.
func (s KalshiSeries) ToDomain() domain.Series {
	return domain.Series{
		Venue:    domain.VenueKalshi,
		Ticker:   s.Ticker,
		Title:    s.Title,
		Category: s.Category,
		Tags:     s.Tags,
	}
}
