package pipeline

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlabs/venuelink/internal/domain"
)

func scoredCandidate(sourceID, targetID string, score float64) Candidate {
	return Candidate{
		Source: Entry{Market: domain.Market{Venue: domain.VenueKalshi, ExternalID: sourceID}},
		Target: Entry{Market: domain.Market{Venue: domain.VenuePolymarket, ExternalID: targetID}},
		Result: domain.ScoreResult{Score: score},
	}
}

func TestDeduplicate_DefaultCapsKeepBestPerPair(t *testing.T) {
	candidates := []Candidate{
		scoredCandidate("s1", "t1", 0.90),
		scoredCandidate("s1", "t2", 0.80),
		scoredCandidate("s2", "t1", 0.85),
		scoredCandidate("s2", "t2", 0.70),
	}

	accepted := Deduplicate(candidates, DefaultLimits)
	require.Len(t, accepted, 2)
	// Best pairing wins; the displaced candidates fall through to their next
	// available counterpart.
	assert.Equal(t, "s1", accepted[0].Source.Market.ExternalID)
	assert.Equal(t, "t1", accepted[0].Target.Market.ExternalID)
	assert.Equal(t, "s2", accepted[1].Source.Market.ExternalID)
	assert.Equal(t, "t2", accepted[1].Target.Market.ExternalID)
}

func TestDeduplicate_WinnerGapSkipsDistantRunnersUp(t *testing.T) {
	candidates := []Candidate{
		scoredCandidate("s1", "t1", 0.90),
		scoredCandidate("s2", "t1", 0.88),
		scoredCandidate("s3", "t1", 0.60),
	}

	accepted := Deduplicate(candidates, Limits{
		MaxPerSource: 1,
		MaxPerTarget: 3,
		MinWinnerGap: 0.05,
	})

	// s2 sits within the winner gap of t1's best match and is kept; s3 is far
	// below and dropped even though the target cap has room.
	require.Len(t, accepted, 2)
	assert.Equal(t, "s1", accepted[0].Source.Market.ExternalID)
	assert.Equal(t, "s2", accepted[1].Source.Market.ExternalID)
}

func TestDeduplicate_DeterministicOnTies(t *testing.T) {
	candidates := []Candidate{
		scoredCandidate("s2", "t2", 0.8),
		scoredCandidate("s1", "t1", 0.8),
	}
	first := Deduplicate(candidates, DefaultLimits)
	second := Deduplicate([]Candidate{candidates[1], candidates[0]}, DefaultLimits)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Source.Market.Key(), second[i].Source.Market.Key())
		assert.Equal(t, first[i].Target.Market.Key(), second[i].Target.Market.Key())
	}
}

func TestDeduplicate_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Small id pools force cap collisions.
	genCandidate := gopter.CombineGens(
		gen.IntRange(0, 4),
		gen.IntRange(0, 4),
		gen.Float64Range(0, 1),
	).Map(func(vs []interface{}) Candidate {
		return scoredCandidate(
			fmt.Sprintf("s%d", vs[0].(int)),
			fmt.Sprintf("t%d", vs[1].(int)),
			vs[2].(float64),
		)
	})

	properties.Property("caps hold for every source and target", prop.ForAll(
		func(candidates []Candidate, maxPerSource, maxPerTarget int) bool {
			lim := Limits{MaxPerSource: maxPerSource, MaxPerTarget: maxPerTarget, MinWinnerGap: 0.05}
			accepted := Deduplicate(candidates, lim)

			perSource := make(map[string]int)
			perTarget := make(map[string]int)
			for _, c := range accepted {
				perSource[c.Source.Market.Key()]++
				perTarget[c.Target.Market.Key()]++
			}
			for _, n := range perSource {
				if n > maxPerSource {
					return false
				}
			}
			for _, n := range perTarget {
				if n > maxPerTarget {
					return false
				}
			}
			// Output stays sorted descending by score.
			for i := 1; i < len(accepted); i++ {
				if accepted[i].Result.Score > accepted[i-1].Result.Score {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genCandidate),
		gen.IntRange(1, 3),
		gen.IntRange(1, 3),
	))

	properties.TestingRun(t)
}
