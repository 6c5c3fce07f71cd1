// Package classify routes markets to canonical topics using venue-specific
// rule tables with a fixed priority order and a title-keyword fallback.
// Classification is deterministic and side-effect free: identical input
// always yields an identical Classification.
package classify

import (
	"fmt"
	"strings"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// Input carries everything the classifier may consult for one market.
type Input struct {
	Venue    domain.Venue
	Title    string
	Category string
	// Ticker is the venue-native structured id (Kalshi ticker, Polymarket
	// slug). Optional.
	Ticker string
	// Tags are venue labels, already split. Optional.
	Tags []string
}

// Classifier assigns canonical topics. It holds only immutable rule tables
// and is safe for concurrent use.
type Classifier struct{}

// New creates a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// FromMarket builds a classification Input from a stored market's fields and
// metadata bag.
func FromMarket(m domain.Market) Input {
	var tags []string
	if raw := m.Tag("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	ticker := m.Tag("ticker")
	if ticker == "" {
		ticker = m.Tag("slug")
	}
	return Input{
		Venue:    m.Venue,
		Title:    m.Title,
		Category: m.Category,
		Ticker:   ticker,
		Tags:     tags,
	}
}

// Classify walks the priority chain: high-confidence ticker pattern, exact
// tag match, category (with the rates override), reduced-confidence ticker
// fallback, title keywords, then UNKNOWN.
func (c *Classifier) Classify(in Input) domain.Classification {
	rules := rulesForVenue(in.Venue)
	lowerTitle := strings.ToLower(in.Title)
	lowerTags := lowercaseAll(in.Tags)

	// 1. Ticker patterns. A match below the venue's override threshold is
	// remembered for the fallback step instead of winning outright.
	var deferred *domain.Classification
	if in.Ticker != "" {
		for _, r := range rules.tickers {
			if !r.re.MatchString(in.Ticker) {
				continue
			}
			if r.topic == domain.TopicUnknown {
				break
			}
			cls := domain.Classification{
				Topic:      r.topic,
				Confidence: r.confidence,
				Source:     SourceTicker,
				Reason:     fmt.Sprintf("ticker %q matched %s", in.Ticker, r.re.String()),
			}
			if r.confidence >= rules.minTickerOverride {
				return cls
			}
			deferred = &cls
			break
		}
	}

	// 2. Tags. Exact lowercase equality only; substring containment caused
	// false positives ("energy" implying commodities) and stays disabled.
	for _, r := range rules.tags {
		for _, tag := range lowerTags {
			if tag == r.tag {
				return domain.Classification{
					Topic:      r.topic,
					Confidence: r.confidence,
					Source:     SourceTag,
					Reason:     fmt.Sprintf("tag %q", tag),
				}
			}
		}
	}

	// 3. Categories, with the rates override: a broad macro category narrows
	// to rates when the title or tags carry interest-rate vocabulary.
	if in.Category != "" {
		lowerCat := strings.ToLower(in.Category)
		for _, r := range rules.categories {
			if lowerCat != r.category || r.topic == domain.TopicUnknown {
				continue
			}
			topic, reason := r.topic, fmt.Sprintf("category %q", in.Category)
			if topic == domain.TopicMacro && hasRateVocabulary(lowerTitle, lowerTags) {
				topic = domain.TopicRates
				reason += " overridden by rate vocabulary"
			}
			return domain.Classification{
				Topic:      topic,
				Confidence: r.confidence,
				Source:     SourceCategory,
				Reason:     reason,
			}
		}
	}

	// 4. Deferred ticker match at reduced confidence.
	if deferred != nil {
		return domain.Classification{
			Topic:      deferred.Topic,
			Confidence: deferred.Confidence * 0.9,
			Source:     SourceTickerFallback,
			Reason:     deferred.Reason + " (fallback)",
		}
	}

	// 5. Venue-agnostic title keywords.
	for _, r := range titleKeywordRules {
		for _, k := range r.keywords {
			if strings.Contains(lowerTitle, k) {
				return domain.Classification{
					Topic:      r.topic,
					Confidence: r.confidence,
					Source:     SourceTitleKeyword,
					Reason:     fmt.Sprintf("title keyword %q", strings.TrimSpace(k)),
				}
			}
		}
	}

	// 6. No rule fired.
	return domain.Classification{
		Topic:      domain.TopicUnknown,
		Confidence: 0,
		Source:     SourceFallback,
		Reason:     "no rule matched",
	}
}

// Rule source aliases, re-exported so callers need not import domain for them.
const (
	SourceTicker         = domain.SourceTickerPattern
	SourceTag            = domain.SourceTag
	SourceCategory       = domain.SourceCategory
	SourceTickerFallback = domain.SourceTickerFallback
	SourceTitleKeyword   = domain.SourceTitleKeyword
	SourceFallback       = domain.SourceFallback
)

func hasRateVocabulary(lowerTitle string, lowerTags []string) bool {
	for _, kw := range rateVocabulary {
		if strings.Contains(lowerTitle, kw) {
			return true
		}
		for _, tag := range lowerTags {
			if strings.Contains(tag, kw) {
				return true
			}
		}
	}
	return false
}

func lowercaseAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
