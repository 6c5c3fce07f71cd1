package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlabs/venuelink/internal/domain"
)

func TestUniversal_CloseSeparationGate(t *testing.T) {
	p := NewUniversal(domain.TopicElections, testDeps())

	near := testEntry(domain.VenueKalshi, "K1", "Will Trump win the 2028 Republican primary?",
		domain.TopicElections, ts(2028, time.March, 5))
	far := testEntry(domain.VenuePolymarket, "P1", "Trump wins the 2028 Republican primary?",
		domain.TopicElections, ts(2028, time.May, 20))
	sameWindow := testEntry(domain.VenuePolymarket, "P2", "Trump wins the 2028 Republican primary?",
		domain.TopicElections, ts(2028, time.March, 12))

	assert.False(t, p.CheckHardGates(near, far).Passed, "close times more than 30 days apart")
	assert.True(t, p.CheckHardGates(near, sameWindow).Passed)
}

func TestUniversal_RelatednessGate(t *testing.T) {
	p := NewUniversal(domain.TopicGeopolitics, testDeps())
	day := ts(2026, time.June, 1)

	a := testEntry(domain.VenueKalshi, "K1", "Russia Ukraine ceasefire announced by June 2026?", domain.TopicGeopolitics, day)
	unrelated := testEntry(domain.VenuePolymarket, "P1", "Academy Award best picture winner announced?", domain.TopicGeopolitics, day)
	assert.False(t, p.CheckHardGates(a, unrelated).Passed)
}

func TestUniversal_IncompatibleCryptoSiblingsGate(t *testing.T) {
	p := NewUniversal(domain.TopicCryptoDaily, testDeps())
	day := ts(2026, time.January, 31)

	daily := testEntry(domain.VenueKalshi, "K1", "Bitcoin above $100,000 on January 31, 2026?", domain.TopicCryptoDaily, day)
	intraday := testEntry(domain.VenuePolymarket, "P1", "Bitcoin above $100,000 on January 31, 2026?", domain.TopicCryptoIntraday, day)
	assert.False(t, p.CheckHardGates(daily, intraday).Passed)
}

// universalEntry builds an entry with hand-set signals for decision-rule tests.
func universalEntry(venue domain.Venue, id string, sig domain.Signals) Entry {
	return Entry{
		Market:  domain.Market{Venue: venue, ExternalID: id, Topic: domain.TopicCommodities},
		Signals: sig,
	}
}

// Identical extracted structure must clear the STRONG threshold even when the
// two venues phrase the title with disjoint vocabulary and neither market has
// a resolved topic.
func TestUniversal_IdenticalSignalsDisjointTitlesScoreStrong(t *testing.T) {
	p := NewUniversal(domain.TopicCommodities, testDeps())

	date := domain.DatePeriod{Year: 2026, Month: 3, Day: 31, Precision: domain.PrecisionDay}
	sig := domain.Signals{
		Organizations: []string{"ORG_OPEC"},
		Numbers:       []domain.NumberValue{{Value: 90, Unit: domain.UnitUSD, Text: "$90"}},
		Dates:         []domain.DatePeriod{date},
	}

	source := Entry{Market: domain.Market{Venue: domain.VenueKalshi, ExternalID: "K1"}, Signals: sig}
	target := Entry{Market: domain.Market{Venue: domain.VenuePolymarket, ExternalID: "P1"}, Signals: sig}
	source.Signals.Tokens = []string{"oil", "benchmark", "settles"}
	target.Signals.Tokens = []string{"crude", "barrel", "quarter"}

	res := p.Score(source, target)
	require.GreaterOrEqual(t, res.Score, 0.85)
	assert.Equal(t, domain.TierStrong, res.Tier)
	assert.InDelta(t, 0.90, res.Score, 1e-9)
	assert.Zero(t, res.Breakdown[componentText])
	assert.Zero(t, res.Breakdown[componentTopic])
}

func TestUniversal_AutoConfirmAndReject(t *testing.T) {
	p := NewUniversal(domain.TopicCommodities, testDeps())

	date := domain.DatePeriod{Year: 2026, Month: 6, Day: 30, Precision: domain.PrecisionDay}
	base := domain.Signals{
		Organizations: []string{"ORG_OPEC"},
		Numbers:       []domain.NumberValue{{Value: 100, Unit: domain.UnitUSD, Text: "$100"}},
		Dates:         []domain.DatePeriod{date},
		Comparator:    domain.ComparatorAbove,
		Tokens:        []string{"wti", "crude", "above", "100", "june", "30", "2026"},
	}

	source := universalEntry(domain.VenueKalshi, "K1", base)
	target := universalEntry(domain.VenuePolymarket, "P1", base)

	result := p.Score(source, target)
	assert.GreaterOrEqual(t, result.Score, 0.92)
	assert.Equal(t, domain.TierStrong, result.Tier)

	ok, rule := p.ShouldAutoConfirm(Candidate{Source: source, Target: target, Result: result})
	assert.True(t, ok)
	assert.Equal(t, "universal_exact_high_score", rule)

	// The same market asked in the opposite direction is auto-rejected.
	flipped := base
	flipped.Comparator = domain.ComparatorBelow
	below := universalEntry(domain.VenuePolymarket, "P2", flipped)
	res := p.Score(source, below)
	rejected, rejectRule := p.ShouldAutoReject(Candidate{Source: source, Target: below, Result: res})
	assert.True(t, rejected)
	assert.Equal(t, "universal_opposite_direction", rejectRule)
}
