package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// Ordered number passes. Earlier passes consume their spans so later, more
// generic passes do not re-extract the same text.
var (
	reSuffixNumber = regexp.MustCompile(`(?i)(\$)?(\d+(?:,\d{3})*(?:\.\d+)?)\s*([kmbt])\b`)
	reWordNumber   = regexp.MustCompile(`(?i)(\$)?(\d+(?:,\d{3})*(?:\.\d+)?)\s*(thousand|million|billion|trillion)\b`)
	reDollarNumber = regexp.MustCompile(`\$(\d+(?:,\d{3})*(?:\.\d+)?)`)
	rePercent      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:%|percent)`)
	reBasisPoints  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:bps|basis\s+points?)`)
	reSpread       = regexp.MustCompile(`(?i)([+-]\d+(?:\.\d+)?)\b|(\d+(?:\.\d+)?)\s*points?\b`)
)

var multipliers = map[string]float64{
	"k": 1e3, "m": 1e6, "b": 1e9, "t": 1e12,
	"thousand": 1e3, "million": 1e6, "billion": 1e9, "trillion": 1e12,
}

type span struct{ start, end int }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractNumbers runs the ordered regex passes over the raw title and returns
// the deduplicated numeric values. Values inside [1900, 2100] are treated as
// calendar years and dropped unless they carry a currency or multiplier
// marker.
func extractNumbers(title string) []domain.NumberValue {
	var consumed []span
	var out []domain.NumberValue
	seen := make(map[float64]bool)

	add := func(v domain.NumberValue, start, end int, marked bool) {
		if v.Value >= 1900 && v.Value <= 2100 && !marked {
			return
		}
		consumed = append(consumed, span{start, end})
		if seen[v.Value] {
			return
		}
		seen[v.Value] = true
		out = append(out, v)
	}

	// (a) k/m/b/t suffix, optionally $-prefixed.
	for _, m := range reSuffixNumber.FindAllStringSubmatchIndex(title, -1) {
		raw := title[m[4]:m[5]]
		base, ok := parseNumber(raw)
		if !ok {
			continue
		}
		mult := multipliers[strings.ToLower(title[m[6]:m[7]])]
		unit := domain.UnitPlain
		if m[2] >= 0 {
			unit = domain.UnitUSD
		}
		add(domain.NumberValue{Value: base * mult, Unit: unit, Text: title[m[0]:m[1]]}, m[0], m[1], true)
	}

	// (b) word multipliers.
	for _, m := range reWordNumber.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		base, ok := parseNumber(title[m[4]:m[5]])
		if !ok {
			continue
		}
		mult := multipliers[strings.ToLower(title[m[6]:m[7]])]
		unit := domain.UnitPlain
		if m[2] >= 0 {
			unit = domain.UnitUSD
		}
		add(domain.NumberValue{Value: base * mult, Unit: unit, Text: title[m[0]:m[1]]}, m[0], m[1], true)
	}

	// (c) bare $-prefixed numbers not already consumed above.
	for _, m := range reDollarNumber.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		v, ok := parseNumber(title[m[2]:m[3]])
		if !ok {
			continue
		}
		add(domain.NumberValue{Value: v, Unit: domain.UnitUSD, Text: title[m[0]:m[1]]}, m[0], m[1], true)
	}

	// (d) percentages.
	for _, m := range rePercent.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		v, ok := parseNumber(title[m[2]:m[3]])
		if !ok {
			continue
		}
		add(domain.NumberValue{Value: v, Unit: domain.UnitPercent, Text: title[m[0]:m[1]]}, m[0], m[1], true)
	}

	// (e) basis points.
	for _, m := range reBasisPoints.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		v, ok := parseNumber(title[m[2]:m[3]])
		if !ok {
			continue
		}
		add(domain.NumberValue{Value: v, Unit: domain.UnitBasisPoints, Text: title[m[0]:m[1]]}, m[0], m[1], true)
	}

	// (f) signed or "points"-suffixed spread values. These carry no currency
	// marker, so bare years still fall out here.
	for _, m := range reSpread.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		var raw string
		if m[2] >= 0 {
			raw = title[m[2]:m[3]]
		} else if m[4] >= 0 {
			raw = title[m[4]:m[5]]
		}
		v, ok := parseNumber(raw)
		if !ok {
			continue
		}
		add(domain.NumberValue{Value: v, Unit: domain.UnitSpread, Text: title[m[0]:m[1]]}, m[0], m[1], false)
	}

	return out
}
