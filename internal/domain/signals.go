package domain

// Signals is the structured bag of signals extracted from a market title.
// It is derived, ephemeral state: recomputed on every run, never persisted.
type Signals struct {
	Teams         []string // canonical team identifiers, deduplicated
	People        []string // canonical person identifiers, deduplicated
	Organizations []string // canonical org identifiers, deduplicated
	Numbers       []NumberValue
	Dates         []DatePeriod
	Comparator    Comparator
	GameType      GameType
	Tokens        []string // lowercase, punctuation-stripped title tokens
	Confidence    float64  // 0..1
}

// NumberUnit classifies the semantic unit of an extracted number.
type NumberUnit string

const (
	UnitUSD         NumberUnit = "usd"
	UnitPercent     NumberUnit = "percent"
	UnitBasisPoints NumberUnit = "bps"
	UnitSpread      NumberUnit = "spread"
	UnitPlain       NumberUnit = "plain"
)

// NumberValue is one numeric value extracted from a title, normalized to its
// full magnitude (e.g. "1.5m" -> 1_500_000).
type NumberValue struct {
	Value float64
	Unit  NumberUnit
	Text  string // original span in the title
}

// DatePrecision tags how precisely a DatePeriod is known.
type DatePrecision string

const (
	PrecisionDay     DatePrecision = "day"
	PrecisionMonth   DatePrecision = "month"
	PrecisionQuarter DatePrecision = "quarter"
	PrecisionYear    DatePrecision = "year"
)

// DatePeriod is one calendar period extracted from a title. Month, Day and
// Quarter are zero when not applicable at the tagged precision.
type DatePeriod struct {
	Year      int
	Month     int // 1-12
	Day       int // 1-31
	Quarter   int // 1-4
	Precision DatePrecision
}

// SameDay reports whether two day-precision periods denote the same date.
func (d DatePeriod) SameDay(o DatePeriod) bool {
	return d.Precision == PrecisionDay && o.Precision == PrecisionDay &&
		d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// Comparator is the comparison operator implied by a market title.
type Comparator string

const (
	ComparatorAbove   Comparator = "above"
	ComparatorBelow   Comparator = "below"
	ComparatorBetween Comparator = "between"
	ComparatorExact   Comparator = "exact"
	ComparatorWin     Comparator = "win"
	ComparatorUnknown Comparator = "unknown"
)

// GameType is the coarse category or game detected in a title.
type GameType string

const (
	GameEsports    GameType = "esports"
	GameBasketball GameType = "basketball"
	GameFootball   GameType = "football"
	GameBaseball   GameType = "baseball"
	GameHockey     GameType = "hockey"
	GameSoccer     GameType = "soccer"
	GameCombat     GameType = "combat"
	GameTennis     GameType = "tennis"
	GameMotorsport GameType = "motorsport"
	GameGolf       GameType = "golf"
	GameMacro      GameType = "macro"
	GameElection   GameType = "election"
	GameUnknown    GameType = "unknown"
)
