package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlabs/venuelink/internal/domain"
)

func testExtractor() *Extractor {
	fixed := time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)
	return New(NewRegistry(), WithClock(func() time.Time { return fixed }))
}

func TestExtract_BitcoinPriceTitle(t *testing.T) {
	e := testExtractor()
	sig := e.Extract("Will Bitcoin reach $100k by January 31, 2026?", nil, nil)

	require.Len(t, sig.Numbers, 1)
	assert.Equal(t, 100_000.0, sig.Numbers[0].Value)
	assert.Equal(t, domain.UnitUSD, sig.Numbers[0].Unit)

	require.Len(t, sig.Dates, 1)
	assert.Equal(t, domain.DatePeriod{
		Year: 2026, Month: 1, Day: 31, Precision: domain.PrecisionDay,
	}, sig.Dates[0])

	assert.Equal(t, domain.ComparatorAbove, sig.Comparator)
}

func TestExtract_FedRateCutTitle(t *testing.T) {
	e := testExtractor()
	sig := e.Extract("Will the Fed cut rates by 50 bps at the March 2026 FOMC meeting?", nil, nil)

	assert.Contains(t, sig.Organizations, "ORG_FED")

	require.Len(t, sig.Numbers, 1)
	assert.Equal(t, 50.0, sig.Numbers[0].Value)
	assert.Equal(t, domain.UnitBasisPoints, sig.Numbers[0].Unit)

	require.Len(t, sig.Dates, 1)
	assert.Equal(t, domain.DatePeriod{
		Year: 2026, Month: 3, Precision: domain.PrecisionMonth,
	}, sig.Dates[0])

	assert.Equal(t, domain.GameMacro, sig.GameType)
}

func TestExtract_EsportsAliases(t *testing.T) {
	e := testExtractor()

	// Both the full name and the short venue spellings resolve to the same
	// canonical ids.
	sig := e.Extract("Team Vitality vs Falcons Esports: IEM Katowice winner?", nil, nil)
	assert.Contains(t, sig.Teams, "ES_VIT")
	assert.Contains(t, sig.Teams, "ES_FAL")
	assert.Equal(t, domain.GameEsports, sig.GameType)
	assert.Equal(t, domain.ComparatorWin, sig.Comparator)

	short := e.Extract("Counter-Strike map 3: VIT vs FAL", nil, nil)
	assert.Contains(t, short.Teams, "ES_VIT")
	assert.Contains(t, short.Teams, "ES_FAL")
}

func TestExtract_SubtitleMetadataCarriesMatchup(t *testing.T) {
	e := testExtractor()
	sig := e.Extract("Series winner", nil, map[string]string{"subtitle": "VIT vs FAL"})
	assert.Contains(t, sig.Teams, "ES_VIT")
	assert.Contains(t, sig.Teams, "ES_FAL")
}

func TestExtract_BareYearNeedsDeadlinePreposition(t *testing.T) {
	e := testExtractor()

	with := e.Extract("Will China invade Taiwan by 2027?", nil, nil)
	require.Len(t, with.Dates, 1)
	assert.Equal(t, domain.DatePeriod{Year: 2027, Precision: domain.PrecisionYear}, with.Dates[0])

	without := e.Extract("2027 Taiwan invasion market", nil, nil)
	assert.Empty(t, without.Dates)
}

func TestExtract_YearsAreNotNumbers(t *testing.T) {
	e := testExtractor()
	sig := e.Extract("Recession declared in 2026?", nil, nil)
	assert.Empty(t, sig.Numbers)
}

func TestExtract_MonthDayInfersYearFromCloseTime(t *testing.T) {
	e := testExtractor()
	close := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	sig := e.Extract("High temperature in NYC on Jan 5", &close, nil)
	require.Len(t, sig.Dates, 1)
	assert.Equal(t, 2026, sig.Dates[0].Year)
	assert.Equal(t, 1, sig.Dates[0].Month)
	assert.Equal(t, 5, sig.Dates[0].Day)
}

func TestExtract_DegenerateTitle(t *testing.T) {
	e := testExtractor()
	sig := e.Extract("?!?", nil, nil)
	assert.Empty(t, sig.Teams)
	assert.Empty(t, sig.Numbers)
	assert.Equal(t, domain.ComparatorUnknown, sig.Comparator)
	assert.Equal(t, domain.GameUnknown, sig.GameType)
}

func TestExtractComparator_Keywords(t *testing.T) {
	cases := []struct {
		title string
		want  domain.Comparator
	}{
		{"Will ETH trade above $5,000?", domain.ComparatorAbove},
		{"Will CPI come in below 3%?", domain.ComparatorBelow},
		{"Will BTC close between $95k and $105k?", domain.ComparatorBetween},
		{"Will the Lakers win the NBA title?", domain.ComparatorWin},
		// "winter" must not trigger the whole-word WIN keyword.
		{"Coldest winter on record in Chicago?", domain.ComparatorUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractComparator(tc.title), tc.title)
	}
}

func TestExtractNumbers_SuffixAndWordMultipliers(t *testing.T) {
	nums := extractNumbers("Market cap above $1.5 billion or 300k units")
	require.Len(t, nums, 2)
	// Suffix forms are extracted before word multipliers.
	assert.Equal(t, 300_000.0, nums[0].Value)
	assert.Equal(t, domain.UnitPlain, nums[0].Unit)
	assert.Equal(t, 1_500_000_000.0, nums[1].Value)
	assert.Equal(t, domain.UnitUSD, nums[1].Unit)
}
