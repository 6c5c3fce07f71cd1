package pipeline

import "sort"

// Limits bounds the deduplication pass.
type Limits struct {
	// MaxPerSource caps how many accepted matches one source market may hold.
	MaxPerSource int
	// MaxPerTarget caps how many accepted matches one target market may hold.
	MaxPerTarget int
	// MinWinnerGap is the score margin under which a second candidate for an
	// already-matched target is still accepted. A larger gap means the target
	// already has a clear winner and the lower-scoring candidate is dropped.
	MinWinnerGap float64
}

// DefaultLimits are conservative: one match each way, near-ties within 0.05.
var DefaultLimits = Limits{MaxPerSource: 1, MaxPerTarget: 1, MinWinnerGap: 0.05}

// Deduplicate sorts candidates descending by score and greedily accepts them
// while respecting the per-source and per-target caps. A candidate whose
// target already holds an accepted higher-scoring match is skipped unless its
// score is within MinWinnerGap of that best match. Requires the global view
// of all scored candidates, so it runs single-threaded after scoring.
func Deduplicate(candidates []Candidate, lim Limits) []Candidate {
	if lim.MaxPerSource <= 0 {
		lim.MaxPerSource = DefaultLimits.MaxPerSource
	}
	if lim.MaxPerTarget <= 0 {
		lim.MaxPerTarget = DefaultLimits.MaxPerTarget
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Result.Score != sorted[j].Result.Score {
			return sorted[i].Result.Score > sorted[j].Result.Score
		}
		// Deterministic tie-break on identity so runs are reproducible.
		ki := sorted[i].Source.Market.Key() + "|" + sorted[i].Target.Market.Key()
		kj := sorted[j].Source.Market.Key() + "|" + sorted[j].Target.Market.Key()
		return ki < kj
	})

	sourceCount := make(map[string]int)
	targetCount := make(map[string]int)
	targetBest := make(map[string]float64)

	accepted := make([]Candidate, 0, len(sorted))
	for _, c := range sorted {
		sk := c.Source.Market.Key()
		tk := c.Target.Market.Key()

		if sourceCount[sk] >= lim.MaxPerSource || targetCount[tk] >= lim.MaxPerTarget {
			continue
		}
		if best, ok := targetBest[tk]; ok && best-c.Result.Score > lim.MinWinnerGap {
			continue
		}

		accepted = append(accepted, c)
		sourceCount[sk]++
		targetCount[tk]++
		if _, ok := targetBest[tk]; !ok {
			targetBest[tk] = c.Result.Score
		}
	}
	return accepted
}
