package pipeline

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// marketKind is the wager structure of a sports market.
type marketKind string

const (
	kindMoneyline marketKind = "moneyline"
	kindSpread    marketKind = "spread"
	kindTotal     marketKind = "total"
)

var (
	reSpreadKind = regexp.MustCompile(`(?i)\bspread\b|[+-]\d+(?:\.\d+)?\s*(?:points?)?\b`)
	reTotalKind  = regexp.MustCompile(`(?i)\btotal\b|\bover/under\b|\bover\s+\d|\bunder\s+\d|\bcombined\b`)
)

// detectMarketKind defaults to moneyline: a plain "A vs B" or "A to win"
// market is a moneyline wager.
func detectMarketKind(title string) marketKind {
	switch {
	case reTotalKind.MatchString(title):
		return kindTotal
	case reSpreadKind.MatchString(title):
		return kindSpread
	default:
		return kindMoneyline
	}
}

// tournamentPatterns name well-known events for the exact-event bonus.
var tournamentPatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)\biem\s+\w+\b`), "iem"},
	{regexp.MustCompile(`(?i)\bblast premier\b`), "blast_premier"},
	{regexp.MustCompile(`(?i)\besl pro league\b`), "esl_pro_league"},
	{regexp.MustCompile(`(?i)\bpgl major\b`), "pgl_major"},
	{regexp.MustCompile(`(?i)\bsuper bowl\b`), "super_bowl"},
	{regexp.MustCompile(`(?i)\bstanley cup\b`), "stanley_cup"},
	{regexp.MustCompile(`(?i)\bworld series\b`), "world_series"},
	{regexp.MustCompile(`(?i)\bchampions league\b`), "champions_league"},
	{regexp.MustCompile(`(?i)\bwimbledon\b`), "wimbledon"},
	{regexp.MustCompile(`(?i)\bus open\b`), "us_open"},
	{regexp.MustCompile(`(?i)\bthe masters\b`), "masters"},
}

func detectTournament(title string) string {
	for _, t := range tournamentPatterns {
		if t.re.MatchString(title) {
			return t.name
		}
	}
	return ""
}

// Sports matches game and matchup markets. The league (game type) and the
// two-team matchup form the index key, so candidate retrieval is a direct
// bucket hit.
type Sports struct {
	base
	strongThreshold float64
	lineTolerance   float64
}

// NewSports creates the sports pipeline.
func NewSports(deps Deps) *Sports {
	return &Sports{
		base:            newBase(domain.TopicSports, deps, nil),
		strongThreshold: 0.75,
		lineTolerance:   0.5,
	}
}

// matchupKey is the order-insensitive two-team key, or "" when the entry does
// not carry two teams.
func matchupKey(s domain.Signals) string {
	if len(s.Teams) < 2 {
		return ""
	}
	pair := []string{s.Teams[0], s.Teams[1]}
	sort.Strings(pair)
	return string(s.GameType) + "|" + pair[0] + "|" + pair[1]
}

// BuildIndex buckets by matchup key; entries without a full matchup fall back
// to a per-league bucket so single-team markets still surface.
func (p *Sports) BuildIndex(entries []Entry) *Index {
	ix := newIndex()
	for _, e := range entries {
		key := matchupKey(e.Signals)
		if key == "" {
			key = "league|" + string(e.Signals.GameType)
		}
		ix.add(key, e)
	}
	return ix
}

// FindCandidates prefers the exact matchup bucket and widens to the league
// bucket when the exact matchup has no entries.
func (p *Sports) FindCandidates(source Entry, ix *Index) []Entry {
	if key := matchupKey(source.Signals); key != "" {
		if hits := ix.Bucket(key); len(hits) > 0 {
			return hits
		}
	}
	return ix.Bucket("league|" + string(source.Signals.GameType))
}

// CheckHardGates enforces, in order: resolved and equal league identity, both
// team slots matching order-insensitively, identical or adjacent time
// buckets, equal market kind, and for spread/total markets a line difference
// within tolerance.
func (p *Sports) CheckHardGates(source, target Entry) GateResult {
	if source.Signals.GameType == domain.GameUnknown || target.Signals.GameType == domain.GameUnknown {
		return gateFail("league unresolved")
	}
	if source.Signals.GameType != target.Signals.GameType {
		return gateFail("league mismatch")
	}

	sk, tk := matchupKey(source.Signals), matchupKey(target.Signals)
	if sk == "" || tk == "" || sk != tk {
		return gateFail("team slots mismatch")
	}

	sb, sok := timeBucket(source)
	tb, tok := timeBucket(target)
	if sok && tok && abs(sb-tb) > 1 {
		return gateFail("time buckets not adjacent")
	}

	skind, tkind := detectMarketKind(source.Market.Title), detectMarketKind(target.Market.Title)
	if skind != tkind {
		return gateFail("market kind mismatch")
	}
	if skind == kindSpread || skind == kindTotal {
		sl, sfound := lineValue(source.Signals)
		tl, tfound := lineValue(target.Signals)
		if sfound && tfound && math.Abs(sl-tl) > p.lineTolerance {
			return gateFail(fmt.Sprintf("line values differ by %.1f", math.Abs(sl-tl)))
		}
	}
	return gatePass()
}

// timeBucket is the day index of the event, from the close time when present,
// else from the first day-precision date signal.
func timeBucket(e Entry) (int, bool) {
	if e.Market.CloseTime != nil {
		return int(e.Market.CloseTime.UTC().Unix() / int64(24*time.Hour/time.Second)), true
	}
	if d, ok := firstDay(e.Signals.Dates); ok {
		t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
		return int(t.Unix() / int64(24*time.Hour/time.Second)), true
	}
	return 0, false
}

// lineValue picks the spread/total line from the number signals.
func lineValue(s domain.Signals) (float64, bool) {
	for _, n := range s.Numbers {
		if n.Unit == domain.UnitSpread || n.Unit == domain.UnitPlain {
			return n.Value, true
		}
	}
	return 0, false
}

// Score blends the shared components, then adds the matchup and tournament
// bonuses: a full two-team match outranks a single-team partial match.
func (p *Sports) Score(source, target Entry) domain.ScoreResult {
	blended, breakdown, matched := scoreComponents(source, target)

	bonus := 0.0
	sk, tk := matchupKey(source.Signals), matchupKey(target.Signals)
	switch {
	case sk != "" && sk == tk:
		bonus += 0.15
		matched = append(matched, "matchup(exact)")
	case sharedTeam(source.Signals, target.Signals):
		bonus += 0.05
		matched = append(matched, "matchup(partial)")
	}

	st, tt := detectTournament(source.Market.Title), detectTournament(target.Market.Title)
	if st != "" && st == tt {
		bonus += 0.10
		matched = append(matched, "tournament("+st+")")
	}

	sb, sok := timeBucket(source)
	tb, tok := timeBucket(target)
	secondary := sok && tok && sb == tb
	return finish(blended, bonus, breakdown, matched, p.strongThreshold, secondary)
}

// ShouldAutoConfirm requires a STRONG score, the exact matchup, the same time
// bucket and a text-similarity floor.
func (p *Sports) ShouldAutoConfirm(c Candidate) (bool, string) {
	if c.Result.Score < 0.88 || c.Result.Tier != domain.TierStrong {
		return false, ""
	}
	sk, tk := matchupKey(c.Source.Signals), matchupKey(c.Target.Signals)
	if sk == "" || sk != tk {
		return false, ""
	}
	if tokenJaccard(c.Source.Signals.Tokens, c.Target.Signals.Tokens) < 0.10 {
		return false, ""
	}
	return true, "sports_exact_matchup_high_score"
}

// ShouldAutoReject fires only on the low-score floor; the hard gates already
// kill structurally wrong pairs.
func (p *Sports) ShouldAutoReject(c Candidate) (bool, string) {
	if c.Result.Score < 0.25 {
		return true, "sports_low_score"
	}
	return false, ""
}

func sharedTeam(a, b domain.Signals) bool {
	set := make(map[string]bool, len(a.Teams))
	for _, t := range a.Teams {
		set[t] = true
	}
	for _, t := range b.Teams {
		if set[t] {
			return true
		}
	}
	return false
}
