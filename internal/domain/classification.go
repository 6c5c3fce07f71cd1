package domain

// Topic is one canonical category in the closed topic enumeration. Every
// market routes to exactly one topic and therefore to exactly one pipeline.
type Topic string

const (
	TopicSports         Topic = "sports"
	TopicRates          Topic = "rates"
	TopicMacro          Topic = "macro"
	TopicGeopolitics    Topic = "geopolitics"
	TopicElections      Topic = "elections"
	TopicCommodities    Topic = "commodities"
	TopicCryptoDaily    Topic = "crypto_daily"
	TopicCryptoIntraday Topic = "crypto_intraday"
	TopicUnknown        Topic = "unknown"
)

// RuleSource names the classifier rule that produced a Classification.
type RuleSource string

const (
	SourceTickerPattern  RuleSource = "ticker_pattern"
	SourceTag            RuleSource = "tag"
	SourceCategory       RuleSource = "category"
	SourceTickerFallback RuleSource = "ticker_fallback"
	SourceTitleKeyword   RuleSource = "title_keyword"
	SourceFallback       RuleSource = "fallback"
)

// Classification is the result of routing a market to a canonical topic.
// Produced fresh per call and never mutated.
type Classification struct {
	Topic      Topic
	Confidence float64 // 0..1
	Source     RuleSource
	Reason     string
}

// CompatibleTopics reports whether two classifications may be matched against
// each other. Topics must be identical; the daily and intraday crypto topics
// are explicitly incompatible even though they share an asset class, because
// they need different matching strategies downstream.
func CompatibleTopics(a, b Topic) bool {
	if a == TopicUnknown || b == TopicUnknown {
		return false
	}
	if (a == TopicCryptoDaily && b == TopicCryptoIntraday) ||
		(a == TopicCryptoIntraday && b == TopicCryptoDaily) {
		return false
	}
	return a == b
}
