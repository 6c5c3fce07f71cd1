package pipeline

import (
	"regexp"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// macroIndicator identifies the economic series a macro market settles on.
type macroIndicator string

const (
	indicatorCPI          macroIndicator = "cpi"
	indicatorGDP          macroIndicator = "gdp"
	indicatorUnemployment macroIndicator = "unemployment"
	indicatorPayrolls     macroIndicator = "payrolls"
	indicatorRecession    macroIndicator = "recession"
	indicatorUnknown      macroIndicator = "unknown"
)

var indicatorPatterns = []struct {
	re        *regexp.Regexp
	indicator macroIndicator
}{
	{regexp.MustCompile(`(?i)\bcpi\b|\binflation\b|consumer price`), indicatorCPI},
	{regexp.MustCompile(`(?i)\bgdp\b|gross domestic`), indicatorGDP},
	{regexp.MustCompile(`(?i)\bunemployment\b|\bjobless\b|\bu-?3\b`), indicatorUnemployment},
	{regexp.MustCompile(`(?i)\bnonfarm\b|\bpayrolls?\b|\bnfp\b`), indicatorPayrolls},
	{regexp.MustCompile(`(?i)\brecession\b`), indicatorRecession},
}

func detectIndicator(title string) macroIndicator {
	for _, p := range indicatorPatterns {
		if p.re.MatchString(title) {
			return p.indicator
		}
	}
	return indicatorUnknown
}

// Macro matches economic data-release markets (CPI prints, GDP growth,
// unemployment rates). Indexing is by indicator; the gates require the
// indicator and release period to line up before scoring.
type Macro struct {
	base
	strongThreshold float64
}

// NewMacro creates the macro-economic pipeline.
func NewMacro(deps Deps) *Macro {
	return &Macro{
		base:            newBase(domain.TopicMacro, deps, []string{"cpi", "gdp", "inflation", "unemployment", "payroll", "recession"}),
		strongThreshold: 0.78,
	}
}

// BuildIndex buckets entries by economic indicator.
func (p *Macro) BuildIndex(entries []Entry) *Index {
	ix := newIndex()
	for _, e := range entries {
		ix.add(string(detectIndicator(e.Market.Title)), e)
	}
	return ix
}

// FindCandidates returns entries for the same indicator; unknown indicators
// yield nothing.
func (p *Macro) FindCandidates(source Entry, ix *Index) []Entry {
	ind := detectIndicator(source.Market.Title)
	if ind == indicatorUnknown {
		return nil
	}
	return ix.Bucket(string(ind))
}

// CheckHardGates requires the same indicator and, when both sides carry a
// reference period, a month difference of at most one.
func (p *Macro) CheckHardGates(source, target Entry) GateResult {
	si, ti := detectIndicator(source.Market.Title), detectIndicator(target.Market.Title)
	if si == indicatorUnknown || si != ti {
		return gateFail("indicator mismatch")
	}
	sm, tm := firstMeetingMonth(source.Signals.Dates), firstMeetingMonth(target.Signals.Dates)
	if sm >= 0 && tm >= 0 && abs(sm-tm) > 1 {
		return gateFail("release periods not adjacent")
	}
	return gatePass()
}

// Score blends the shared components with a bonus for an agreeing comparator
// (both "above", both "below"), since macro markets are threshold questions.
func (p *Macro) Score(source, target Entry) domain.ScoreResult {
	blended, breakdown, matched := scoreComponents(source, target)

	bonus := 0.0
	sc, tc := source.Signals.Comparator, target.Signals.Comparator
	if sc != domain.ComparatorUnknown && sc == tc {
		bonus += 0.05
		matched = append(matched, "comparator("+string(sc)+")")
	}

	secondary := exactTemporal(source.Signals, target.Signals) ||
		sameMeetingMonth(source.Signals, target.Signals)
	return finish(blended, bonus, breakdown, matched, p.strongThreshold, secondary)
}

// ShouldAutoConfirm requires a STRONG very high score with exact period
// agreement, an agreeing threshold number and the text floor.
func (p *Macro) ShouldAutoConfirm(c Candidate) (bool, string) {
	if c.Result.Score < 0.90 || c.Result.Tier != domain.TierStrong {
		return false, ""
	}
	if !exactTemporal(c.Source.Signals, c.Target.Signals) && !sameMeetingMonth(c.Source.Signals, c.Target.Signals) {
		return false, ""
	}
	if c.Result.Breakdown[componentNumeric] < 0.95 {
		return false, ""
	}
	if tokenJaccard(c.Source.Signals.Tokens, c.Target.Signals.Tokens) < 0.15 {
		return false, ""
	}
	return true, "macro_exact_period_high_score"
}

// ShouldAutoReject fires on directionally opposite comparators around the
// same threshold, and on the low-score floor.
func (p *Macro) ShouldAutoReject(c Candidate) (bool, string) {
	sc, tc := c.Source.Signals.Comparator, c.Target.Signals.Comparator
	opposite := (sc == domain.ComparatorAbove && tc == domain.ComparatorBelow) ||
		(sc == domain.ComparatorBelow && tc == domain.ComparatorAbove)
	if opposite && c.Result.Breakdown[componentNumeric] >= 0.95 {
		return true, "macro_opposite_direction"
	}
	if c.Result.Score < 0.30 {
		return true, "macro_low_score"
	}
	return false, ""
}
