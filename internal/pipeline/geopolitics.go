package pipeline

import (
	"sort"
	"strings"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// regionAliases map surface forms to canonical region ids for geopolitics
// markets. Lookup data only.
var regionAliases = map[string]string{
	"ukraine": "REGION_UKRAINE", "kyiv": "REGION_UKRAINE", "kiev": "REGION_UKRAINE",
	"russia": "REGION_RUSSIA", "moscow": "REGION_RUSSIA", "kremlin": "REGION_RUSSIA",
	"israel": "REGION_ISRAEL", "gaza": "REGION_GAZA", "west bank": "REGION_WESTBANK",
	"iran": "REGION_IRAN", "tehran": "REGION_IRAN",
	"taiwan": "REGION_TAIWAN", "taipei": "REGION_TAIWAN",
	"china": "REGION_CHINA", "beijing": "REGION_CHINA",
	"north korea": "REGION_DPRK", "pyongyang": "REGION_DPRK",
	"venezuela": "REGION_VENEZUELA",
	"syria":     "REGION_SYRIA",
	"lebanon":   "REGION_LEBANON",
}

// outcomePolarity tags titles whose event outcome is directional: escalation
// and de-escalation phrasings in the same region describe opposing events.
type outcomePolarity string

const (
	polarityDeescalation outcomePolarity = "deescalation"
	polarityEscalation   outcomePolarity = "escalation"
	polarityNeutral      outcomePolarity = "neutral"
)

var (
	deescalationKeywords = []string{"ceasefire", "peace deal", "peace agreement", "truce", "withdrawal", "withdraw", "treaty", "normalize relations"}
	escalationKeywords   = []string{"invasion", "invade", "strike", "strikes", "attack", "attacks", "escalation", "declare war", "blockade"}
)

func detectPolarity(title string) outcomePolarity {
	lower := strings.ToLower(title)
	if containsAnyKeyword(lower, deescalationKeywords) {
		return polarityDeescalation
	}
	if containsAnyKeyword(lower, escalationKeywords) {
		return polarityEscalation
	}
	return polarityNeutral
}

func containsAnyKeyword(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// detectRegions returns the sorted canonical regions a title references.
func detectRegions(title string) []string {
	lower := strings.ToLower(title)
	seen := make(map[string]bool)
	var out []string
	for alias, region := range regionAliases {
		if strings.Contains(lower, alias) && !seen[region] {
			seen[region] = true
			out = append(out, region)
		}
	}
	sort.Strings(out)
	return out
}

// Geopolitics matches world-event markets. Indexing is by region; the gates
// require region overlap and year agreement.
type Geopolitics struct {
	base
	strongThreshold float64
}

// NewGeopolitics creates the geopolitics pipeline.
func NewGeopolitics(deps Deps) *Geopolitics {
	return &Geopolitics{
		base:            newBase(domain.TopicGeopolitics, deps, nil),
		strongThreshold: 0.78,
	}
}

// BuildIndex buckets entries under every region they mention.
func (p *Geopolitics) BuildIndex(entries []Entry) *Index {
	ix := newIndex()
	for _, e := range entries {
		regions := detectRegions(e.Market.Title)
		if len(regions) == 0 {
			ix.add("", e)
			continue
		}
		for i, r := range regions {
			if i == 0 {
				ix.add(r, e)
			} else {
				// Secondary regions index the entry without duplicating it in All().
				ix.buckets[r] = append(ix.buckets[r], e)
			}
		}
	}
	return ix
}

// FindCandidates unions the buckets of every region the source mentions.
func (p *Geopolitics) FindCandidates(source Entry, ix *Index) []Entry {
	regions := detectRegions(source.Market.Title)
	if len(regions) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []Entry
	for _, r := range regions {
		for _, e := range ix.Bucket(r) {
			if k := e.Market.Key(); !seen[k] {
				seen[k] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// CheckHardGates requires overlapping regions and, when both sides carry
// dates, agreement on the calendar year.
func (p *Geopolitics) CheckHardGates(source, target Entry) GateResult {
	sr, tr := detectRegions(source.Market.Title), detectRegions(target.Market.Title)
	if !regionsOverlap(sr, tr) {
		return gateFail("no shared region")
	}
	if len(source.Signals.Dates) > 0 && len(target.Signals.Dates) > 0 {
		if !shareYear(source.Signals.Dates, target.Signals.Dates) {
			return gateFail("deadline years differ")
		}
	}
	return gatePass()
}

// Score blends the shared components with a bonus for an agreeing outcome
// polarity.
func (p *Geopolitics) Score(source, target Entry) domain.ScoreResult {
	blended, breakdown, matched := scoreComponents(source, target)

	bonus := 0.0
	sp, tp := detectPolarity(source.Market.Title), detectPolarity(target.Market.Title)
	if sp != polarityNeutral && sp == tp {
		bonus += 0.08
		matched = append(matched, "outcome("+string(sp)+")")
	}

	secondary := exactTemporal(source.Signals, target.Signals) ||
		shareYear(source.Signals.Dates, target.Signals.Dates)
	return finish(blended, bonus, breakdown, matched, p.strongThreshold, secondary)
}

// ShouldAutoConfirm requires a STRONG very high score with matching polarity
// and the text floor.
func (p *Geopolitics) ShouldAutoConfirm(c Candidate) (bool, string) {
	if c.Result.Score < 0.90 || c.Result.Tier != domain.TierStrong {
		return false, ""
	}
	sp, tp := detectPolarity(c.Source.Market.Title), detectPolarity(c.Target.Market.Title)
	if sp != tp {
		return false, ""
	}
	if tokenJaccard(c.Source.Signals.Tokens, c.Target.Signals.Tokens) < 0.20 {
		return false, ""
	}
	return true, "geopolitics_high_score"
}

// ShouldAutoReject fires on opposing outcome polarities in the same region
// and on the low-score floor.
func (p *Geopolitics) ShouldAutoReject(c Candidate) (bool, string) {
	sp, tp := detectPolarity(c.Source.Market.Title), detectPolarity(c.Target.Market.Title)
	if sp != polarityNeutral && tp != polarityNeutral && sp != tp {
		return true, "geopolitics_opposing_outcomes"
	}
	if c.Result.Score < 0.30 {
		return true, "geopolitics_low_score"
	}
	return false, ""
}

func regionsOverlap(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, r := range a {
		set[r] = true
	}
	for _, r := range b {
		if set[r] {
			return true
		}
	}
	return false
}

func shareYear(a, b []domain.DatePeriod) bool {
	for _, pa := range a {
		for _, pb := range b {
			if pa.Year == pb.Year {
				return true
			}
		}
	}
	return false
}
