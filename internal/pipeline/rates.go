package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// Central-bank canonical ids recognized by the rates pipeline.
var centralBanks = map[string]bool{
	"ORG_FED": true,
	"ORG_ECB": true,
	"ORG_BOE": true,
	"ORG_BOJ": true,
}

// rateAction is the directional rate move implied by a title.
type rateAction string

const (
	actionCut     rateAction = "cut"
	actionHike    rateAction = "hike"
	actionHold    rateAction = "hold"
	actionUnknown rateAction = "unknown"
)

var (
	cutKeywords  = []string{"cut", "cuts", "lower", "lowers", "decrease", "decreases", "ease", "eases"}
	hikeKeywords = []string{"hike", "hikes", "raise", "raises", "increase", "increases"}
	holdKeywords = []string{"hold", "holds", "unchanged", "no change", "pause", "pauses"}
)

func detectRateAction(title string) rateAction {
	lower := strings.ToLower(title)
	tokens := strings.Fields(lower)
	has := func(keywords []string) bool {
		for _, k := range keywords {
			if strings.Contains(k, " ") {
				if strings.Contains(lower, k) {
					return true
				}
				continue
			}
			for _, t := range tokens {
				if strings.Trim(t, ".,!?;:()") == k {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has(cutKeywords):
		return actionCut
	case has(hikeKeywords):
		return actionHike
	case has(holdKeywords):
		return actionHold
	default:
		return actionUnknown
	}
}

// centralBank returns the first recognized central bank in the org signals.
func centralBank(s domain.Signals) string {
	for _, org := range s.Organizations {
		if centralBanks[org] {
			return org
		}
	}
	return ""
}

// Rates matches central-bank decision markets. Candidates are bucketed by
// bank identity; the gates enforce the bank, meeting month and exact-date
// constraints before any scoring happens.
type Rates struct {
	base
	strongThreshold float64
}

// NewRates creates the interest-rates pipeline.
func NewRates(deps Deps) *Rates {
	return &Rates{
		base:            newBase(domain.TopicRates, deps, []string{"fed", "fomc", "rate", "ecb", "boe", "boj"}),
		strongThreshold: 0.80,
	}
}

// BuildIndex buckets entries by central bank.
func (p *Rates) BuildIndex(entries []Entry) *Index {
	ix := newIndex()
	for _, e := range entries {
		ix.add(centralBank(e.Signals), e)
	}
	return ix
}

// FindCandidates returns target entries for the same central bank. A source
// with no recognized bank yields no candidates.
func (p *Rates) FindCandidates(source Entry, ix *Index) []Entry {
	bank := centralBank(source.Signals)
	if bank == "" {
		return nil
	}
	return ix.Bucket(bank)
}

// CheckHardGates enforces, in order: central-bank identity, meeting month
// within one, and — when both sides carry exact dates — a difference of at
// most seven days.
func (p *Rates) CheckHardGates(source, target Entry) GateResult {
	sb, tb := centralBank(source.Signals), centralBank(target.Signals)
	if sb == "" || tb == "" || sb != tb {
		return gateFail("central bank mismatch")
	}

	sm, tm := firstMeetingMonth(source.Signals.Dates), firstMeetingMonth(target.Signals.Dates)
	if sm >= 0 && tm >= 0 && abs(sm-tm) > 1 {
		return gateFail(fmt.Sprintf("meeting months %d apart", abs(sm-tm)))
	}

	if sd, ok := firstDay(source.Signals.Dates); ok {
		if td, ok2 := firstDay(target.Signals.Dates); ok2 {
			if dayDistance(sd, td) > 7 {
				return gateFail("exact dates more than 7 days apart")
			}
		}
	}
	return gatePass()
}

// Score blends the shared components and adds a bonus when both titles imply
// the same rate action.
func (p *Rates) Score(source, target Entry) domain.ScoreResult {
	blended, breakdown, matched := scoreComponents(source, target)

	bonus := 0.0
	sa := detectRateAction(source.Market.Title)
	ta := detectRateAction(target.Market.Title)
	if sa != actionUnknown && sa == ta {
		bonus += 0.10
		matched = append(matched, "action("+string(sa)+")")
	}

	secondary := exactTemporal(source.Signals, target.Signals) ||
		sameMeetingMonth(source.Signals, target.Signals)
	return finish(blended, bonus, breakdown, matched, p.strongThreshold, secondary)
}

// ShouldAutoConfirm requires a STRONG high score, exact date agreement, an
// agreeing (or at least non-conflicting) action, and a text-similarity floor
// that rejects semantically-empty coincidences.
func (p *Rates) ShouldAutoConfirm(c Candidate) (bool, string) {
	if c.Result.Score < 0.90 || c.Result.Tier != domain.TierStrong {
		return false, ""
	}
	if !exactTemporal(c.Source.Signals, c.Target.Signals) {
		return false, ""
	}
	if conflictingActions(c.Source.Market.Title, c.Target.Market.Title) {
		return false, ""
	}
	if tokenJaccard(c.Source.Signals.Tokens, c.Target.Signals.Tokens) < 0.15 {
		return false, ""
	}
	return true, "rates_exact_date_high_score"
}

// ShouldAutoReject fires on directionally opposite rate actions for the same
// bank, regardless of the other score components, and on a low-score floor.
func (p *Rates) ShouldAutoReject(c Candidate) (bool, string) {
	if conflictingActions(c.Source.Market.Title, c.Target.Market.Title) {
		return true, "rates_conflicting_action"
	}
	if c.Result.Score < 0.30 {
		return true, "rates_low_score"
	}
	return false, ""
}

func conflictingActions(titleA, titleB string) bool {
	a, b := detectRateAction(titleA), detectRateAction(titleB)
	if a == actionUnknown || b == actionUnknown {
		return false
	}
	return a != b
}

func sameMeetingMonth(a, b domain.Signals) bool {
	am, bm := firstMeetingMonth(a.Dates), firstMeetingMonth(b.Dates)
	return am >= 0 && am == bm
}

// dayDistance is the absolute distance in days between two day-precision
// periods.
func dayDistance(a, b domain.DatePeriod) int {
	ta := time.Date(a.Year, time.Month(a.Month), a.Day, 0, 0, 0, 0, time.UTC)
	tb := time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	d := ta.Sub(tb)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}
