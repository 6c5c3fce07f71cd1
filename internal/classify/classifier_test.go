package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pmxlabs/venuelink/internal/domain"
)

func TestClassify_TickerPatterns(t *testing.T) {
	c := New()

	cases := []struct {
		name   string
		in     Input
		topic  domain.Topic
		source domain.RuleSource
	}{
		{
			name:   "kalshi daily crypto ticker",
			in:     Input{Venue: domain.VenueKalshi, Ticker: "KXBTCD-26JAN31"},
			topic:  domain.TopicCryptoDaily,
			source: SourceTicker,
		},
		{
			name:   "kalshi intraday crypto ticker",
			in:     Input{Venue: domain.VenueKalshi, Ticker: "KXBTC-26JAN3117"},
			topic:  domain.TopicCryptoIntraday,
			source: SourceTicker,
		},
		{
			name:   "kalshi fed ticker",
			in:     Input{Venue: domain.VenueKalshi, Ticker: "KXFEDFUNDS-26MAR"},
			topic:  domain.TopicRates,
			source: SourceTicker,
		},
		{
			name:   "polymarket intraday slug",
			in:     Input{Venue: domain.VenuePolymarket, Ticker: "bitcoin-up-or-down-january-31"},
			topic:  domain.TopicCryptoIntraday,
			source: SourceTicker,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.in)
			assert.Equal(t, tc.topic, got.Topic)
			assert.Equal(t, tc.source, got.Source)
		})
	}
}

func TestClassify_TagExactMatchOnly(t *testing.T) {
	c := New()

	got := c.Classify(Input{
		Venue: domain.VenueKalshi,
		Title: "Price of gold at year end",
		Tags:  []string{"Gold"},
	})
	assert.Equal(t, domain.TopicCommodities, got.Topic)
	assert.Equal(t, SourceTag, got.Source)

	// A tag merely containing a rule word must not match.
	loose := c.Classify(Input{
		Venue: domain.VenuePolymarket,
		Title: "State energy policy question",
		Tags:  []string{"energy markets"},
	})
	assert.NotEqual(t, domain.TopicCommodities, loose.Topic)
}

func TestClassify_RatesOverridesMacroCategory(t *testing.T) {
	c := New()

	got := c.Classify(Input{
		Venue:    domain.VenueKalshi,
		Title:    "Will the FOMC cut by 25 bps in March?",
		Category: "Economics",
	})
	assert.Equal(t, domain.TopicRates, got.Topic)
	assert.Equal(t, SourceCategory, got.Source)
	assert.Contains(t, got.Reason, "overridden by rate vocabulary")

	// Without rate vocabulary the category stands.
	plain := c.Classify(Input{
		Venue:    domain.VenueKalshi,
		Title:    "US GDP growth above 3% in 2026?",
		Category: "Economics",
	})
	assert.Equal(t, domain.TopicMacro, plain.Topic)
}

func TestClassify_LowConfidenceTickerDefersToTags(t *testing.T) {
	c := New()

	// The broad KX catchall is below the override threshold, so the sports
	// tag wins.
	got := c.Classify(Input{
		Venue:  domain.VenueKalshi,
		Ticker: "KXSOMETHINGNEW-26",
		Tags:   []string{"Sports"},
	})
	assert.Equal(t, domain.TopicSports, got.Topic)
	assert.Equal(t, SourceTag, got.Source)
}

func TestClassify_TitleKeywordFallback(t *testing.T) {
	c := New()
	got := c.Classify(Input{
		Venue: domain.VenuePolymarket,
		Title: "Will Russia and Ukraine sign a ceasefire in 2026?",
	})
	assert.Equal(t, domain.TopicGeopolitics, got.Topic)
	assert.Equal(t, SourceTitleKeyword, got.Source)
}

func TestClassify_Unknown(t *testing.T) {
	c := New()
	got := c.Classify(Input{Venue: domain.VenueKalshi, Title: "Will it snow in Miami this winter?"})
	assert.Equal(t, domain.TopicUnknown, got.Topic)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Zero(t, got.Confidence)
}

func TestClassify_Deterministic(t *testing.T) {
	c := New()
	in := Input{
		Venue:    domain.VenuePolymarket,
		Title:    "Fed decision in March",
		Category: "Economy",
		Ticker:   "fed-decision-march",
		Tags:     []string{"Fed Rates", "Economy"},
	}
	first := c.Classify(in)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, c.Classify(in))
	}
}

func TestCompatibleTopics_CryptoSiblings(t *testing.T) {
	daily := domain.Classification{Topic: domain.TopicCryptoDaily}
	intraday := domain.Classification{Topic: domain.TopicCryptoIntraday}
	assert.False(t, domain.CompatibleTopics(daily.Topic, intraday.Topic))
	assert.True(t, domain.CompatibleTopics(daily.Topic, daily.Topic))
}

func TestFromMarket(t *testing.T) {
	m := domain.Market{
		Venue:    domain.VenuePolymarket,
		Title:    "Will gold close above $3,000?",
		Category: "Commodities",
		Metadata: map[string]string{
			"slug": "gold-above-3000",
			"tags": "Gold, Commodities",
		},
	}
	in := FromMarket(m)
	assert.Equal(t, "gold-above-3000", in.Ticker)
	assert.Equal(t, []string{"Gold", "Commodities"}, in.Tags)
}
