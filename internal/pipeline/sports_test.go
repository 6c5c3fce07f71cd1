package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlabs/venuelink/internal/domain"
)

func TestSports_HardGates(t *testing.T) {
	p := NewSports(testDeps())
	day := ts(2026, time.February, 8)

	vitFal := testEntry(domain.VenueKalshi, "K1", "Vitality vs Falcons Esports: IEM Katowice winner?", domain.TopicSports, day)
	vitFalPoly := testEntry(domain.VenuePolymarket, "P1", "Team Vitality vs Falcons Esports at IEM Katowice", domain.TopicSports, day)
	assert.True(t, p.CheckHardGates(vitFal, vitFalPoly).Passed)

	// Unresolved league on either side rejects the pair.
	vague := testEntry(domain.VenuePolymarket, "P2", "Who wins the grand final?", domain.TopicSports, day)
	assert.False(t, p.CheckHardGates(vitFal, vague).Passed)

	// Same matchup but events days apart rejects the pair.
	laterGame := testEntry(domain.VenuePolymarket, "P3", "Team Vitality vs Falcons Esports at IEM Katowice",
		domain.TopicSports, ts(2026, time.February, 14))
	assert.False(t, p.CheckHardGates(vitFal, laterGame).Passed)

	// Moneyline against a totals market rejects the pair.
	totals := testEntry(domain.VenuePolymarket, "P4", "Vitality vs Falcons Esports total maps over 2 at IEM Katowice",
		domain.TopicSports, day)
	assert.False(t, p.CheckHardGates(vitFal, totals).Passed)
}

func TestSports_ExactMatchupAutoConfirms(t *testing.T) {
	p := NewSports(testDeps())
	day := ts(2026, time.February, 8)

	source := testEntry(domain.VenueKalshi, "K1",
		"Vitality vs Falcons Esports: IEM Katowice winner?", domain.TopicSports, day)
	target := testEntry(domain.VenuePolymarket, "P1",
		"Team Vitality vs Falcons Esports at IEM Katowice", domain.TopicSports, day)

	require.True(t, p.CheckHardGates(source, target).Passed)

	result := p.Score(source, target)
	assert.GreaterOrEqual(t, result.Score, 0.88)
	assert.Equal(t, domain.TierStrong, result.Tier)
	assert.Contains(t, result.Explanation, "matchup(exact)")
	assert.Contains(t, result.Explanation, "tournament(iem)")

	ok, rule := p.ShouldAutoConfirm(Candidate{Source: source, Target: target, Result: result})
	assert.True(t, ok)
	assert.Equal(t, "sports_exact_matchup_high_score", rule)
}

func TestSports_IndexPrefersExactMatchup(t *testing.T) {
	p := NewSports(testDeps())
	day := ts(2026, time.February, 8)

	exact := testEntry(domain.VenuePolymarket, "P1", "Team Vitality vs Falcons Esports at IEM Katowice", domain.TopicSports, day)
	other := testEntry(domain.VenuePolymarket, "P2", "Will Team Vitality win IEM Katowice?", domain.TopicSports, day)
	ix := p.BuildIndex([]Entry{exact, other})

	source := testEntry(domain.VenueKalshi, "K1", "Vitality vs Falcons Esports: IEM Katowice winner?", domain.TopicSports, day)
	hits := p.FindCandidates(source, ix)
	require.Len(t, hits, 1)
	assert.Equal(t, "P1", hits[0].Market.ExternalID)
}

func TestDetectMarketKind(t *testing.T) {
	assert.Equal(t, kindMoneyline, detectMarketKind("Vitality vs Falcons winner"))
	assert.Equal(t, kindSpread, detectMarketKind("Lakers -6.5 spread vs Celtics"))
	assert.Equal(t, kindTotal, detectMarketKind("Combined points over 210.5"))
}
