package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlabs/venuelink/internal/domain"
)

func TestRates_HardGates(t *testing.T) {
	p := NewRates(testDeps())

	fed := testEntry(domain.VenueKalshi, "K1", "Will the Fed cut rates at the March 18, 2026 meeting?", domain.TopicRates, nil)
	ecb := testEntry(domain.VenuePolymarket, "P1", "Will the ECB cut rates in March 2026?", domain.TopicRates, nil)
	fedJune := testEntry(domain.VenuePolymarket, "P2", "Fed rate decision at the June 2026 meeting", domain.TopicRates, nil)
	fedFarDay := testEntry(domain.VenuePolymarket, "P3", "Fed cuts rates on March 3, 2026?", domain.TopicRates, nil)
	fedSameDay := testEntry(domain.VenuePolymarket, "P4", "Fed cuts rates at March 18, 2026 FOMC meeting?", domain.TopicRates, nil)

	assert.False(t, p.CheckHardGates(fed, ecb).Passed, "different central banks")
	assert.False(t, p.CheckHardGates(fed, fedJune).Passed, "meeting months too far apart")
	assert.False(t, p.CheckHardGates(fed, fedFarDay).Passed, "exact dates more than 7 days apart")
	assert.True(t, p.CheckHardGates(fed, fedSameDay).Passed)
}

func TestRates_FedVsFOMCScoresStrong(t *testing.T) {
	p := NewRates(testDeps())

	source := testEntry(domain.VenueKalshi, "K1",
		"Will the Fed cut rates at the March 18, 2026 meeting?", domain.TopicRates, nil)
	target := testEntry(domain.VenuePolymarket, "P1",
		"Fed cuts rates at March 18, 2026 FOMC meeting?", domain.TopicRates, nil)

	require.True(t, p.CheckHardGates(source, target).Passed)

	result := p.Score(source, target)
	assert.GreaterOrEqual(t, result.Score, 0.85)
	assert.Equal(t, domain.TierStrong, result.Tier)
	assert.Contains(t, result.Explanation, "ORG_FED")

	ok, rule := p.ShouldAutoConfirm(Candidate{Source: source, Target: target, Result: result})
	assert.True(t, ok)
	assert.Equal(t, "rates_exact_date_high_score", rule)
}

func TestRates_ConflictingActionsAutoReject(t *testing.T) {
	p := NewRates(testDeps())

	cut := testEntry(domain.VenueKalshi, "K1", "Will the Fed cut rates in March 2026?", domain.TopicRates, nil)
	hike := testEntry(domain.VenuePolymarket, "P1", "Will the Fed hike rates in March 2026?", domain.TopicRates, nil)

	result := p.Score(cut, hike)
	ok, rule := p.ShouldAutoReject(Candidate{Source: cut, Target: hike, Result: result})
	assert.True(t, ok)
	assert.Equal(t, "rates_conflicting_action", rule)

	// The conflict also blocks auto-confirm regardless of score.
	confirmed, _ := p.ShouldAutoConfirm(Candidate{Source: cut, Target: hike, Result: domain.ScoreResult{
		Score: 0.99, Tier: domain.TierStrong,
	}})
	assert.False(t, confirmed)
}

func TestRates_IndexBucketsByBank(t *testing.T) {
	p := NewRates(testDeps())

	entries := []Entry{
		testEntry(domain.VenuePolymarket, "P1", "Fed decision March 2026", domain.TopicRates, nil),
		testEntry(domain.VenuePolymarket, "P2", "ECB rate decision March 2026", domain.TopicRates, nil),
		testEntry(domain.VenuePolymarket, "P3", "Some unrelated market", domain.TopicRates, nil),
	}
	ix := p.BuildIndex(entries)

	fedSource := testEntry(domain.VenueKalshi, "K1", "FOMC cuts in March 2026?", domain.TopicRates, nil)
	hits := p.FindCandidates(fedSource, ix)
	require.Len(t, hits, 1)
	assert.Equal(t, "P1", hits[0].Market.ExternalID)

	// No recognized bank on the source side means no candidates at all.
	blank := testEntry(domain.VenueKalshi, "K2", "Some unrelated market", domain.TopicRates, nil)
	assert.Empty(t, p.FindCandidates(blank, ix))
}

func TestDetectRateAction(t *testing.T) {
	assert.Equal(t, actionCut, detectRateAction("Fed cuts rates"))
	assert.Equal(t, actionHike, detectRateAction("Will the ECB raise rates?"))
	assert.Equal(t, actionHold, detectRateAction("Rates unchanged through June"))
	assert.Equal(t, actionUnknown, detectRateAction("Fed decision in March"))
}
