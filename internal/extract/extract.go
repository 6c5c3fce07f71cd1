package extract

import (
	"strings"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// Extractor derives Signals from market titles using the registry's alias
// tables. It is stateless apart from the immutable registry and safe for
// concurrent use.
type Extractor struct {
	registry *Registry
	now      func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the time source used for year inference in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// New creates an Extractor over the given registry.
func New(registry *Registry, opts ...Option) *Extractor {
	e := &Extractor{
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract derives the full signal bag for a title. closeTime may be nil and
// metadata may be empty; a degenerate title yields empty entity lists and an
// UNKNOWN game type, never an error.
func (e *Extractor) Extract(title string, closeTime *time.Time, metadata map[string]string) domain.Signals {
	tokens := Tokenize(title)
	if len(tokens) == 0 {
		return domain.Signals{
			Comparator: domain.ComparatorUnknown,
			GameType:   domain.GameUnknown,
		}
	}
	normalized := strings.Join(tokens, " ")

	// Subtitle-style metadata often carries the matchup when the title does
	// not ("VIT vs FAL" lives in the subtitle on some venues).
	scanText := normalized
	if sub := metadata["subtitle"]; sub != "" {
		scanText = normalized + " " + strings.Join(Tokenize(sub), " ")
	}
	scanTokens := Tokenize(scanText)

	sig := domain.Signals{
		Teams:         matchAliases(e.registry.teams, scanTokens, scanText),
		People:        matchAliases(e.registry.people, scanTokens, scanText),
		Organizations: matchAliases(e.registry.orgs, scanTokens, scanText),
		Numbers:       extractNumbers(title),
		Dates:         extractDates(title, closeTime, e.now().UTC()),
		Comparator:    extractComparator(title),
		Tokens:        tokens,
	}
	sig.GameType = detectGameType(e.registry, title, sig.Teams, sig.Organizations)
	sig.Confidence = signalConfidence(sig)
	return sig
}

// signalConfidence composes a base value with fixed bonuses for each signal
// family present, capped at 1.
func signalConfidence(s domain.Signals) float64 {
	conf := 0.2
	if len(s.Teams) > 0 {
		conf += 0.2
	}
	if len(s.People) > 0 {
		conf += 0.15
	}
	if len(s.Numbers) > 0 {
		conf += 0.15
	}
	if len(s.Dates) > 0 {
		conf += 0.15
	}
	if s.GameType != domain.GameUnknown {
		conf += 0.15
	}
	return domain.ClampScore(conf)
}
