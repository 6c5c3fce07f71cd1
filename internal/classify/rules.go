package classify

import (
	"regexp"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// tickerRule maps a venue ticker pattern to a topic. Rules are ordered; the
// first match wins.
type tickerRule struct {
	re         *regexp.Regexp
	topic      domain.Topic
	confidence float64
}

// tagRule maps a venue tag to a topic. Matching is exact lowercase equality,
// never substring containment: a generic "energy" tag must not imply a
// commodities classification, and "Georgia" must not collide with "Gas".
type tagRule struct {
	tag        string
	topic      domain.Topic
	confidence float64
}

// categoryRule maps a venue category to a topic.
type categoryRule struct {
	category   string
	topic      domain.Topic
	confidence float64
}

// venueRules bundles one venue's rule tables.
type venueRules struct {
	// minTickerOverride is the confidence a ticker match needs before it may
	// override tag and category signals. Guards against a single pattern
	// false-triggering.
	minTickerOverride float64
	tickers           []tickerRule
	tags              []tagRule
	categories        []categoryRule
}

var kalshiRules = venueRules{
	minTickerOverride: 0.85,
	tickers: []tickerRule{
		{regexp.MustCompile(`^KXBTCD-|^KXETHD-|^KXSOLD-`), domain.TopicCryptoDaily, 0.95},
		{regexp.MustCompile(`^KXBTC-|^KXETH-|^KXSOL-`), domain.TopicCryptoIntraday, 0.92},
		{regexp.MustCompile(`^KXFED(FUNDS)?-|^FED-`), domain.TopicRates, 0.95},
		{regexp.MustCompile(`^KXECB-|^KXBOE-|^KXBOJ-`), domain.TopicRates, 0.92},
		{regexp.MustCompile(`^KXCPI|^KXGDP|^KXPAYROLL|^KXU3`), domain.TopicMacro, 0.9},
		{regexp.MustCompile(`^KXNBA|^KXNFL|^KXMLB|^KXNHL|^KXUCL|^KXEPL|^KXCS(GO)?2?|^KXLOL|^KXUFC`), domain.TopicSports, 0.9},
		{regexp.MustCompile(`^KXPRES|^KXSENATE|^KXGOV|^KXHOUSE`), domain.TopicElections, 0.9},
		{regexp.MustCompile(`^KXOIL|^KXWTI|^KXGOLD-|^KXNATGAS`), domain.TopicCommodities, 0.88},
		// Broad election-season catchall fires at low confidence only.
		{regexp.MustCompile(`^KX`), domain.TopicUnknown, 0.3},
	},
	tags: []tagRule{
		{"gold", domain.TopicCommodities, 0.9},
		{"oil", domain.TopicCommodities, 0.9},
		{"natural gas", domain.TopicCommodities, 0.9},
		{"fed", domain.TopicRates, 0.85},
		{"interest rates", domain.TopicRates, 0.85},
		{"inflation", domain.TopicMacro, 0.8},
		{"economics", domain.TopicMacro, 0.75},
		{"politics", domain.TopicElections, 0.7},
		{"world", domain.TopicGeopolitics, 0.7},
		{"sports", domain.TopicSports, 0.75},
		{"crypto", domain.TopicCryptoDaily, 0.7},
	},
	categories: []categoryRule{
		{"economics", domain.TopicMacro, 0.8},
		{"financials", domain.TopicMacro, 0.75},
		{"politics", domain.TopicElections, 0.8},
		{"world", domain.TopicGeopolitics, 0.8},
		{"sports", domain.TopicSports, 0.8},
		{"crypto", domain.TopicCryptoDaily, 0.75},
		{"climate and weather", domain.TopicUnknown, 0.3},
	},
}

var polymarketRules = venueRules{
	// Polymarket condition ids carry no structure; slug patterns are weaker,
	// so a higher bar applies before they override tags.
	minTickerOverride: 0.9,
	tickers: []tickerRule{
		{regexp.MustCompile(`^bitcoin-up-or-down|^ethereum-up-or-down`), domain.TopicCryptoIntraday, 0.92},
		{regexp.MustCompile(`^bitcoin-above|^ethereum-above|^solana-above`), domain.TopicCryptoDaily, 0.92},
		{regexp.MustCompile(`^fed-(rate|decision|cuts|hikes)`), domain.TopicRates, 0.92},
	},
	tags: []tagRule{
		{"gold", domain.TopicCommodities, 0.9},
		{"oil", domain.TopicCommodities, 0.9},
		{"fed rates", domain.TopicRates, 0.9},
		{"interest rates", domain.TopicRates, 0.85},
		{"macro indicators", domain.TopicMacro, 0.8},
		{"inflation", domain.TopicMacro, 0.8},
		{"elections", domain.TopicElections, 0.85},
		{"geopolitics", domain.TopicGeopolitics, 0.85},
		{"ukraine", domain.TopicGeopolitics, 0.8},
		{"middle east", domain.TopicGeopolitics, 0.8},
		{"sports", domain.TopicSports, 0.8},
		{"esports", domain.TopicSports, 0.85},
		{"crypto", domain.TopicCryptoDaily, 0.7},
		{"crypto prices", domain.TopicCryptoDaily, 0.8},
	},
	categories: []categoryRule{
		{"us-current-affairs", domain.TopicElections, 0.7},
		{"politics", domain.TopicElections, 0.8},
		{"geopolitics", domain.TopicGeopolitics, 0.8},
		{"economy", domain.TopicMacro, 0.8},
		{"business", domain.TopicMacro, 0.6},
		{"sports", domain.TopicSports, 0.8},
		{"crypto", domain.TopicCryptoDaily, 0.75},
	},
}

// rateVocabulary re-routes a broad macro category to the narrower rates topic
// when the title or tags carry interest-rate terms.
var rateVocabulary = []string{
	"rate cut", "rate hike", "rate decision", "interest rate", "fed funds",
	"fomc", "basis points", "bps", "federal funds",
}

// titleKeywordRule is the venue-agnostic fallback. Ordered; first match wins.
type titleKeywordRule struct {
	keywords   []string
	topic      domain.Topic
	confidence float64
}

var titleKeywordRules = []titleKeywordRule{
	{[]string{"rate cut", "rate hike", "fed funds", "fomc", "interest rate", "bps"}, domain.TopicRates, 0.7},
	{[]string{"cpi", "inflation", "gdp", "unemployment", "payroll", "recession"}, domain.TopicMacro, 0.65},
	{[]string{"bitcoin", "ethereum", "solana", "btc", "eth", "dogecoin"}, domain.TopicCryptoDaily, 0.6},
	{[]string{"election", "president", "senate", "governor", "primary"}, domain.TopicElections, 0.65},
	{[]string{"ceasefire", "invasion", "nato", "sanctions", "treaty", "nuclear"}, domain.TopicGeopolitics, 0.6},
	{[]string{" vs ", " vs. ", "nba", "nfl", "mlb", "nhl", "premier league", "ufc", "champions league"}, domain.TopicSports, 0.6},
	{[]string{"gold price", "oil price", "crude", "wti", "natural gas"}, domain.TopicCommodities, 0.6},
}

func rulesForVenue(v domain.Venue) venueRules {
	switch v {
	case domain.VenueKalshi:
		return kalshiRules
	case domain.VenuePolymarket:
		return polymarketRules
	default:
		return venueRules{minTickerOverride: 1.0}
	}
}
