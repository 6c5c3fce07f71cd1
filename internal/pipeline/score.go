package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// Baseline component weights. They sum to 1.0; topic-specific bonuses are
// added on top and the total is clamped back into [0,1].
const (
	weightEntity   = 0.40
	weightTemporal = 0.25
	weightNumeric  = 0.15
	weightText     = 0.15
	weightTopic    = 0.05
)

// Sub-component names used in ScoreResult breakdowns.
const (
	componentEntity   = "entity_overlap"
	componentTemporal = "temporal"
	componentNumeric  = "numeric"
	componentText     = "text_similarity"
	componentTopic    = "topic_boost"
	componentBonus    = "bonus"
)

// neutralScore is used for components where neither side carries a signal, so
// absence of data is not penalized.
const neutralScore = 0.5

// scoreComponents computes the five shared sub-scores and blends them. The
// result is not yet tiered; callers add topic bonuses and call finish.
func scoreComponents(a, b Entry) (float64, map[string]float64, []string) {
	var matched []string

	entity, entityMatches := entityOverlap(a.Signals, b.Signals)
	matched = append(matched, entityMatches...)

	temporal, temporalMatch := temporalScore(a.Signals.Dates, b.Signals.Dates)
	if temporalMatch != "" {
		matched = append(matched, temporalMatch)
	}

	numeric, numericMatch := numericScore(a.Signals.Numbers, b.Signals.Numbers)
	if numericMatch != "" {
		matched = append(matched, numericMatch)
	}

	text := tokenJaccard(a.Signals.Tokens, b.Signals.Tokens)

	topic := 0.0
	if a.Market.Topic != domain.TopicUnknown && a.Market.Topic != "" && a.Market.Topic == b.Market.Topic {
		topic = 1.0
	}

	breakdown := map[string]float64{
		componentEntity:   entity,
		componentTemporal: temporal,
		componentNumeric:  numeric,
		componentText:     text,
		componentTopic:    topic,
	}
	blended := weightEntity*entity +
		weightTemporal*temporal +
		weightNumeric*numeric +
		weightText*text +
		weightTopic*topic
	return blended, breakdown, matched
}

// finish clamps a blended score, applies the tier rule and assembles the
// ScoreResult. strongThreshold and the secondary condition are topic-specific.
func finish(blended, bonus float64, breakdown map[string]float64, matched []string, strongThreshold float64, secondary bool) domain.ScoreResult {
	if bonus != 0 {
		breakdown[componentBonus] = bonus
	}
	score := domain.ClampScore(blended + bonus)
	tier := domain.TierWeak
	if score >= strongThreshold && secondary {
		tier = domain.TierStrong
	}
	explanation := "no shared signals"
	if len(matched) > 0 {
		explanation = "matched " + strings.Join(matched, "; ")
	}
	return domain.ScoreResult{
		Score:       score,
		Tier:        tier,
		Breakdown:   breakdown,
		Explanation: explanation,
	}
}

// entityOverlap returns the best per-category overlap ratio plus bonuses for
// multiple matching categories and multiple matching entities within one
// category. The second return lists matched identifiers for the explanation.
func entityOverlap(a, b domain.Signals) (float64, []string) {
	type category struct {
		name string
		av   []string
		bv   []string
	}
	categories := []category{
		{"team", a.Teams, b.Teams},
		{"person", a.People, b.People},
		{"org", a.Organizations, b.Organizations},
	}

	best := 0.0
	categoriesMatched := 0
	maxWithinOne := 0
	var matched []string
	for _, c := range categories {
		inter, union := intersectionUnion(c.av, c.bv)
		if union == 0 {
			continue
		}
		ratio := float64(len(inter)) / float64(union)
		if ratio > best {
			best = ratio
		}
		if len(inter) > 0 {
			categoriesMatched++
			if len(inter) > maxWithinOne {
				maxWithinOne = len(inter)
			}
			matched = append(matched, fmt.Sprintf("%s(%s)", c.name, strings.Join(inter, ",")))
		}
	}

	if categoriesMatched >= 2 {
		best += 0.10
	}
	if maxWithinOne >= 2 {
		best += 0.10
	}
	return domain.ClampScore(best), matched
}

func intersectionUnion(a, b []string) ([]string, int) {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for _, v := range a {
		union[v] = true
	}
	var inter []string
	for _, v := range b {
		if set[v] {
			inter = append(inter, v)
		}
		union[v] = true
	}
	sort.Strings(inter)
	return inter, len(union)
}

// temporalCompat is the fixed compatibility table for non-exact period pairs.
func temporalCompat(a, b domain.DatePeriod) float64 {
	// Exact equality at the same precision.
	if a == b {
		return 1.0
	}
	ap, bp := a.Precision, b.Precision

	// Day vs day: adjacent days in the same month get high partial credit.
	if ap == domain.PrecisionDay && bp == domain.PrecisionDay {
		if a.Year == b.Year && a.Month == b.Month && abs(a.Day-b.Day) <= 1 {
			return 0.9
		}
		return 0
	}

	// Day vs month: the day falling inside the month.
	if (ap == domain.PrecisionDay && bp == domain.PrecisionMonth) ||
		(ap == domain.PrecisionMonth && bp == domain.PrecisionDay) {
		if a.Year == b.Year && a.Month == b.Month {
			return 0.75
		}
		return 0
	}

	// Month vs month: adjacent months.
	if ap == domain.PrecisionMonth && bp == domain.PrecisionMonth {
		if monthIndex(a)-monthIndex(b) == 1 || monthIndex(b)-monthIndex(a) == 1 {
			return 0.5
		}
		return 0
	}

	// Month within matching quarter (either direction).
	if (ap == domain.PrecisionMonth && bp == domain.PrecisionQuarter) ||
		(ap == domain.PrecisionQuarter && bp == domain.PrecisionMonth) {
		m, q := a, b
		if ap == domain.PrecisionQuarter {
			m, q = b, a
		}
		if m.Year == q.Year && (m.Month-1)/3+1 == q.Quarter {
			return 0.6
		}
		return 0
	}

	// Quarter vs quarter.
	if ap == domain.PrecisionQuarter && bp == domain.PrecisionQuarter {
		if a.Year == b.Year && a.Quarter == b.Quarter {
			return 1.0
		}
		return 0
	}

	// Year-precision on either side: same calendar year gets weak credit.
	if ap == domain.PrecisionYear || bp == domain.PrecisionYear {
		if a.Year == b.Year {
			return 0.4
		}
	}
	return 0
}

// temporalScore takes the best-compatible pair across both date lists.
// Neither side carrying dates is neutral.
func temporalScore(a, b []domain.DatePeriod) (float64, string) {
	if len(a) == 0 && len(b) == 0 {
		return neutralScore, ""
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.25, ""
	}
	best := 0.0
	var bestPair string
	for _, pa := range a {
		for _, pb := range b {
			if v := temporalCompat(pa, pb); v > best {
				best = v
				bestPair = fmt.Sprintf("date(%d-%02d-%02d~%s)", pa.Year, pa.Month, pa.Day, pa.Precision)
			}
		}
	}
	if best == 0 {
		return 0, ""
	}
	return best, bestPair
}

// numericScore bands the best relative difference across both number lists.
// Neither side carrying numbers is neutral, not penalized.
func numericScore(a, b []domain.NumberValue) (float64, string) {
	if len(a) == 0 && len(b) == 0 {
		return neutralScore, ""
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.25, ""
	}
	best := 0.0
	var bestText string
	for _, na := range a {
		for _, nb := range b {
			v := relativeBand(na.Value, nb.Value)
			if v > best {
				best = v
				bestText = fmt.Sprintf("number(%s≈%s)", na.Text, nb.Text)
			}
		}
	}
	if best == 0 {
		return 0.1, ""
	}
	return best, bestText
}

// relativeBand maps a relative difference to a score band.
func relativeBand(a, b float64) float64 {
	if a == b {
		return 1.0
	}
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 1.0
	}
	rel := math.Abs(a-b) / denom
	switch {
	case rel <= 0.001:
		return 0.95
	case rel <= 0.01:
		return 0.85
	case rel <= 0.05:
		return 0.6
	default:
		return 0
	}
}

// tokenJaccard is the token-set Jaccard similarity of two normalized titles.
func tokenJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	as := make(map[string]bool, len(a))
	for _, t := range a {
		as[t] = true
	}
	bs := make(map[string]bool, len(b))
	for _, t := range b {
		bs[t] = true
	}
	inter := 0
	for t := range as {
		if bs[t] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// monthIndex flattens a month-precision period for adjacency checks across
// year boundaries.
func monthIndex(p domain.DatePeriod) int {
	return p.Year*12 + p.Month - 1
}

// firstMeetingMonth returns the month index of the first day- or
// month-precision date, or -1 when none exists.
func firstMeetingMonth(dates []domain.DatePeriod) int {
	for _, d := range dates {
		if d.Precision == domain.PrecisionDay || d.Precision == domain.PrecisionMonth {
			return monthIndex(d)
		}
	}
	return -1
}

// firstDay returns the first day-precision date, if any.
func firstDay(dates []domain.DatePeriod) (domain.DatePeriod, bool) {
	for _, d := range dates {
		if d.Precision == domain.PrecisionDay {
			return d, true
		}
	}
	return domain.DatePeriod{}, false
}

// exactTemporal reports whether the two signal bags share an exactly equal
// date period. Used as a STRONG-tier secondary condition.
func exactTemporal(a, b domain.Signals) bool {
	for _, pa := range a.Dates {
		for _, pb := range b.Dates {
			if pa == pb {
				return true
			}
		}
	}
	return false
}
