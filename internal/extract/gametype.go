package extract

import (
	"regexp"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// gameTypeRule pairs an explicit keyword pattern with a game type. Rules are
// evaluated in order; the first match wins.
type gameTypeRule struct {
	re   *regexp.Regexp
	game domain.GameType
}

var gameTypeRules = []gameTypeRule{
	{regexp.MustCompile(`(?i)\b(cs2|cs:go|csgo|counter-strike|league of legends|lol worlds|dota ?2?|valorant|iem|blast premier|esl pro league|pgl major)\b`), domain.GameEsports},
	{regexp.MustCompile(`(?i)\b(nba|basketball)\b`), domain.GameBasketball},
	{regexp.MustCompile(`(?i)\b(nfl|super bowl|touchdown)\b`), domain.GameFootball},
	{regexp.MustCompile(`(?i)\b(mlb|world series|home run)\b`), domain.GameBaseball},
	{regexp.MustCompile(`(?i)\b(nhl|stanley cup)\b`), domain.GameHockey},
	{regexp.MustCompile(`(?i)\b(premier league|la liga|champions league|serie a|bundesliga|world cup)\b`), domain.GameSoccer},
	{regexp.MustCompile(`(?i)\b(ufc \d+|ufc|boxing|heavyweight title)\b`), domain.GameCombat},
	{regexp.MustCompile(`(?i)\b(wimbledon|roland garros|french open|australian open|atp|wta)\b`), domain.GameTennis},
	{regexp.MustCompile(`(?i)\b(formula ?1|grand prix|f1)\b`), domain.GameMotorsport},
	{regexp.MustCompile(`(?i)\b(pga|the masters|ryder cup|open championship)\b`), domain.GameGolf},
	{regexp.MustCompile(`(?i)\b(gdp|cpi|inflation|unemployment|nonfarm|payrolls|recession|interest rate|fomc|rate cut|rate hike)\b`), domain.GameMacro},
	{regexp.MustCompile(`(?i)\b(election|president|presidency|senate|governor|primary|electoral)\b`), domain.GameElection},
}

var domainGames = map[string]domain.GameType{
	"esports":    domain.GameEsports,
	"combat":     domain.GameCombat,
	"tennis":     domain.GameTennis,
	"motorsport": domain.GameMotorsport,
	"golf":       domain.GameGolf,
	"basketball": domain.GameBasketball,
	"football":   domain.GameFootball,
	"baseball":   domain.GameBaseball,
	"hockey":     domain.GameHockey,
	"soccer":     domain.GameSoccer,
}

// detectGameType resolves a coarse game/category tag. Explicit keyword rules
// run first; when none fire, the extracted teams' sub-domains are consulted,
// then any matched league organizations.
func detectGameType(r *Registry, title string, teams, orgs []string) domain.GameType {
	for _, rule := range gameTypeRules {
		if rule.re.MatchString(title) {
			return rule.game
		}
	}
	for _, t := range teams {
		if g, ok := domainGames[r.TeamDomain(t)]; ok {
			return g
		}
	}
	for _, o := range orgs {
		if g, ok := domainGames[r.OrgGame(o)]; ok {
			return g
		}
	}
	return domain.GameUnknown
}
