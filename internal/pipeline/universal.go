package pipeline

import (
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// maxCloseSeparation is the widest close-time gap the universal gates accept.
const maxCloseSeparation = 30 * 24 * time.Hour

// exactStructureBonus is added when the entity, temporal and numeric
// components all score perfectly. Titles can be phrased with disjoint
// vocabulary across venues, so full structural agreement must clear the
// STRONG threshold on its own.
const exactStructureBonus = 0.10

// Universal is the fallback pipeline for topics without a dedicated matcher
// (elections, commodities, the crypto topics). It leans on entity overlap and
// text similarity instead of structural knowledge.
type Universal struct {
	base
	strongThreshold float64
}

// NewUniversal creates a universal pipeline scoped to one topic.
func NewUniversal(topic domain.Topic, deps Deps) *Universal {
	return &Universal{
		base:            newBase(topic, deps, nil),
		strongThreshold: 0.85,
	}
}

// entityKey is the strongest single entity an entry carries, used as a cheap
// index bucket.
func entityKey(s domain.Signals) string {
	if len(s.Organizations) > 0 {
		return "org|" + s.Organizations[0]
	}
	if len(s.People) > 0 {
		return "person|" + s.People[0]
	}
	if len(s.Teams) > 0 {
		return "team|" + s.Teams[0]
	}
	return ""
}

// BuildIndex buckets by strongest entity; entries with no entity land in the
// catch-all bucket.
func (p *Universal) BuildIndex(entries []Entry) *Index {
	ix := newIndex()
	for _, e := range entries {
		ix.add(entityKey(e.Signals), e)
	}
	return ix
}

// FindCandidates returns the source's entity bucket plus the catch-all; a
// source with no entity scans everything, which the close-time gate keeps
// cheap in practice.
func (p *Universal) FindCandidates(source Entry, ix *Index) []Entry {
	key := entityKey(source.Signals)
	if key == "" {
		return ix.All()
	}
	out := append([]Entry(nil), ix.Bucket(key)...)
	out = append(out, ix.Bucket("")...)
	return out
}

// CheckHardGates requires close times within 30 days of each other (when
// both are known), compatible derived topics, and a minimum relatedness
// floor: a shared entity or token overlap.
func (p *Universal) CheckHardGates(source, target Entry) GateResult {
	if source.Market.CloseTime != nil && target.Market.CloseTime != nil {
		gap := source.Market.CloseTime.Sub(*target.Market.CloseTime)
		if gap < 0 {
			gap = -gap
		}
		if gap > maxCloseSeparation {
			return gateFail("close times more than 30 days apart")
		}
	}

	st, tt := source.Market.Topic, target.Market.Topic
	if st != "" && tt != "" && st != domain.TopicUnknown && tt != domain.TopicUnknown {
		if !domain.CompatibleTopics(st, tt) {
			return gateFail("incompatible topics")
		}
	}

	if !sharesEntity(source.Signals, target.Signals) &&
		tokenJaccard(source.Signals.Tokens, target.Signals.Tokens) < 0.25 {
		return gateFail("no shared entities or title overlap")
	}
	return gatePass()
}

// Score is the shared blend plus the exact-structure bonus.
func (p *Universal) Score(source, target Entry) domain.ScoreResult {
	blended, breakdown, matched := scoreComponents(source, target)
	bonus := 0.0
	if breakdown[componentEntity] == 1 &&
		breakdown[componentTemporal] == 1 &&
		breakdown[componentNumeric] == 1 {
		bonus = exactStructureBonus
	}
	secondary := exactTemporal(source.Signals, target.Signals)
	return finish(blended, bonus, breakdown, matched, p.strongThreshold, secondary)
}

// ShouldAutoConfirm requires a STRONG very high score, exact dates, matching
// comparator direction and number agreement, plus the text floor.
func (p *Universal) ShouldAutoConfirm(c Candidate) (bool, string) {
	if c.Result.Score < 0.92 || c.Result.Tier != domain.TierStrong {
		return false, ""
	}
	if !exactTemporal(c.Source.Signals, c.Target.Signals) {
		return false, ""
	}
	if c.Source.Signals.Comparator != c.Target.Signals.Comparator {
		return false, ""
	}
	if c.Result.Breakdown[componentNumeric] < 0.95 {
		return false, ""
	}
	if tokenJaccard(c.Source.Signals.Tokens, c.Target.Signals.Tokens) < 0.20 {
		return false, ""
	}
	return true, "universal_exact_high_score"
}

// ShouldAutoReject fires on opposite comparator directions around an agreeing
// number, and on the low-score floor.
func (p *Universal) ShouldAutoReject(c Candidate) (bool, string) {
	sc, tc := c.Source.Signals.Comparator, c.Target.Signals.Comparator
	opposite := (sc == domain.ComparatorAbove && tc == domain.ComparatorBelow) ||
		(sc == domain.ComparatorBelow && tc == domain.ComparatorAbove)
	if opposite && c.Result.Breakdown[componentNumeric] >= 0.95 {
		return true, "universal_opposite_direction"
	}
	if c.Result.Score < 0.25 {
		return true, "universal_low_score"
	}
	return false, ""
}

func sharesEntity(a, b domain.Signals) bool {
	pairs := [][2][]string{
		{a.Teams, b.Teams},
		{a.People, b.People},
		{a.Organizations, b.Organizations},
	}
	for _, p := range pairs {
		set := make(map[string]bool, len(p[0]))
		for _, v := range p[0] {
			set[v] = true
		}
		for _, v := range p[1] {
			if set[v] {
				return true
			}
		}
	}
	return false
}
