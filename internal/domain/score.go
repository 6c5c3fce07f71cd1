package domain

import "math"

// Tier buckets a score result for auto-confirm eligibility.
type Tier string

const (
	TierStrong Tier = "strong"
	TierWeak   Tier = "weak"
)

// ScoreResult is the outcome of scoring one candidate pair. Score is always
// inside [0,1].
type ScoreResult struct {
	Score     float64
	Tier      Tier
	Breakdown map[string]float64 // named sub-component scores
	// Explanation lists which entities, numbers and dates matched.
	Explanation string
}

// ClampScore forces v into [0,1]. Non-finite inputs get explicit handling:
// NaN maps to 0, +Inf to 1, -Inf to 0.
func ClampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return 1
	case math.IsInf(v, -1):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
