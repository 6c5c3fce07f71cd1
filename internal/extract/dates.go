package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
)

var monthNames = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may":  5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

const monthPattern = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`

var (
	reMonthDayYear = regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s+(\d{4})\b`)
	reMonthDay     = regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	reISODate      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reMonthYear    = regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+(\d{4})\b`)
	reQuarter      = regexp.MustCompile(`(?i)\bq([1-4])\s*,?\s*(\d{4})\b`)
	reBareYear     = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// deadlinePrepositions gate bare-year extraction: a lone "2026" only counts
// as a date when a phrase like "by 2026" or "before 2026" precedes it.
var deadlinePrepositions = []string{"by", "in", "before", "during"}

// extractDates runs the ordered date passes over the raw title. now and
// closeTime supply the reference year for month-day forms with no explicit
// year.
func extractDates(title string, closeTime *time.Time, now time.Time) []domain.DatePeriod {
	var consumed []span
	var out []domain.DatePeriod
	seen := make(map[domain.DatePeriod]bool)

	add := func(p domain.DatePeriod, start, end int) {
		consumed = append(consumed, span{start, end})
		if seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	// Month Day, Year.
	for _, m := range reMonthDayYear.FindAllStringSubmatchIndex(title, -1) {
		month := monthNames[strings.ToLower(title[m[2]:m[3]])]
		day, _ := strconv.Atoi(title[m[4]:m[5]])
		year, _ := strconv.Atoi(title[m[6]:m[7]])
		if month == 0 || day < 1 || day > 31 {
			continue
		}
		add(domain.DatePeriod{Year: year, Month: month, Day: day, Precision: domain.PrecisionDay}, m[0], m[1])
	}

	// Month Day with inferred year. The reference is the close time when
	// supplied, otherwise the current time; dates landing more than 90 days
	// in the past roll forward one year.
	ref := now
	if closeTime != nil {
		ref = *closeTime
	}
	for _, m := range reMonthDay.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		month := monthNames[strings.ToLower(title[m[2]:m[3]])]
		day, _ := strconv.Atoi(title[m[4]:m[5]])
		if month == 0 || day < 1 || day > 31 {
			continue
		}
		year := ref.Year()
		candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if ref.Sub(candidate) > 90*24*time.Hour {
			year++
		}
		add(domain.DatePeriod{Year: year, Month: month, Day: day, Precision: domain.PrecisionDay}, m[0], m[1])
	}

	// ISO YYYY-MM-DD.
	for _, m := range reISODate.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		year, _ := strconv.Atoi(title[m[2]:m[3]])
		month, _ := strconv.Atoi(title[m[4]:m[5]])
		day, _ := strconv.Atoi(title[m[6]:m[7]])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		add(domain.DatePeriod{Year: year, Month: month, Day: day, Precision: domain.PrecisionDay}, m[0], m[1])
	}

	// Month Year.
	for _, m := range reMonthYear.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		month := monthNames[strings.ToLower(title[m[2]:m[3]])]
		year, _ := strconv.Atoi(title[m[4]:m[5]])
		if month == 0 {
			continue
		}
		add(domain.DatePeriod{Year: year, Month: month, Precision: domain.PrecisionMonth}, m[0], m[1])
	}

	// Quarter.
	for _, m := range reQuarter.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		q, _ := strconv.Atoi(title[m[2]:m[3]])
		year, _ := strconv.Atoi(title[m[4]:m[5]])
		add(domain.DatePeriod{Year: year, Quarter: q, Precision: domain.PrecisionQuarter}, m[0], m[1])
	}

	// Bare year, only behind a deadline preposition within 20 characters.
	for _, m := range reBareYear.FindAllStringSubmatchIndex(title, -1) {
		if overlaps(consumed, m[0], m[1]) {
			continue
		}
		if !precededByDeadline(title, m[0]) {
			continue
		}
		year, _ := strconv.Atoi(title[m[2]:m[3]])
		add(domain.DatePeriod{Year: year, Precision: domain.PrecisionYear}, m[0], m[1])
	}

	return suppressRedundantMonths(out)
}

// precededByDeadline checks the 20 characters before pos for a deadline
// preposition as a whole word.
func precededByDeadline(title string, pos int) bool {
	start := pos - 20
	if start < 0 {
		start = 0
	}
	window := strings.ToLower(title[start:pos])
	words := strings.Fields(window)
	for _, w := range words {
		w = strings.Trim(w, ".,;:")
		for _, p := range deadlinePrepositions {
			if w == p {
				return true
			}
		}
	}
	return false
}

// suppressRedundantMonths drops a month-precision period when a day-precision
// period for the same month and year is already present.
func suppressRedundantMonths(periods []domain.DatePeriod) []domain.DatePeriod {
	days := make(map[[2]int]bool)
	for _, p := range periods {
		if p.Precision == domain.PrecisionDay {
			days[[2]int{p.Year, p.Month}] = true
		}
	}
	out := periods[:0]
	for _, p := range periods {
		if p.Precision == domain.PrecisionMonth && days[[2]int{p.Year, p.Month}] {
			continue
		}
		out = append(out, p)
	}
	return out
}
