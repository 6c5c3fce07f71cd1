package polymarket

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// APIEvent represents an event as returned by the Polymarket Gamma API.
// An event groups one or more related markets.
type APIEvent struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Active      flexBool    `json:"active"`
	Closed      bool        `json:"closed"`
	Tags        []APITag    `json:"tags"`
	Markets     []APIMarket `json:"markets"`
}

// APITag is a Gamma taxonomy tag attached to events and markets.
type APITag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// APIMarket represents a market as returned by the Polymarket Gamma API,
// reduced to the fields the linker reads.
type APIMarket struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	ConditionID   string   `json:"condition_id"`
	Slug          string   `json:"slug"`
	ActiveFromAPI flexBool `json:"active"`
	Closed        bool     `json:"closed"`
	Category      string   `json:"category"`
	EndDateISO    string   `json:"end_date_iso"`
	EndDate       string   `json:"endDate"`
	GameStartTime string   `json:"game_start_time"`
	Description   string   `json:"description"`
	Tags          []APITag `json:"tags"`
	Events        []struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
	} `json:"events"`
}

// ToDomainMarket converts the DTO into the engine's market record. The
// condition id is the stable external identity; markets created before the
// CLOB migration may lack one, in which case the Gamma id is used.
func (m *APIMarket) ToDomainMarket() domain.Market {
	externalID := m.ConditionID
	if externalID == "" {
		externalID = m.ID
	}

	meta := map[string]string{
		"slug": m.Slug,
	}
	if m.GameStartTime != "" {
		meta["game_start_time"] = m.GameStartTime
	}
	if len(m.Events) > 0 {
		meta["event_title"] = m.Events[0].Title
		meta["event_slug"] = m.Events[0].Slug
	}
	if tags := tagLabels(m.Tags); tags != "" {
		meta["tags"] = tags
	}

	out := domain.Market{
		Venue:      domain.VenuePolymarket,
		ExternalID: externalID,
		Title:      m.Question,
		Category:   m.Category,
		Metadata:   meta,
	}
	for _, raw := range []string{m.EndDateISO, m.EndDate} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			out.CloseTime = &t
			break
		}
	}
	return out
}

// ToDomainSeries converts an event to the engine's series record, keyed by the
// event slug.
func (e *APIEvent) ToDomainSeries() domain.Series {
	return domain.Series{
		Venue:  domain.VenuePolymarket,
		Ticker: e.Slug,
		Title:  e.Title,
		Tags:   splitTagLabels(e.Tags),
	}
}

func tagLabels(tags []APITag) string {
	return strings.Join(splitTagLabels(tags), ",")
}

func splitTagLabels(tags []APITag) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Label != "" {
			out = append(out, t.Label)
		}
	}
	return out
}
