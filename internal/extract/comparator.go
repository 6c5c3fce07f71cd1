package extract

import (
	"regexp"
	"strings"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// reRange matches "between X and Y" style phrasings: two numbers joined by
// "and", "to" or a dash, tolerant of $, commas and k/m/b/t suffixes.
var reRange = regexp.MustCompile(`(?i)\$?\d+(?:,\d{3})*(?:\.\d+)?\s*[kmbt]?\s*(?:and|to|[-–])\s*\$?\d+(?:,\d{3})*(?:\.\d+)?\s*[kmbt]?\b`)

var (
	aboveKeywords = []string{"above", "over", "exceed", "exceeds", "more than", "higher than", "at least", "reach", "reaches", "greater than", "hit", "hits"}
	belowKeywords = []string{"below", "under", "less than", "fewer than", "lower than", "at most", "drop below", "fall below"}
	winKeywords   = []string{"win", "wins", "to win", "beat", "beats", "defeat", "defeats", "champion", "winner"}
)

// extractComparator finds the comparison operator implied by a title.
// Range phrasings are checked first, then the keyword sets in a fixed
// order; the first match wins.
func extractComparator(title string) domain.Comparator {
	lower := strings.ToLower(title)

	if strings.Contains(lower, "between") && reRange.MatchString(lower) {
		return domain.ComparatorBetween
	}
	if containsAny(lower, aboveKeywords) {
		return domain.ComparatorAbove
	}
	if containsAny(lower, belowKeywords) {
		return domain.ComparatorBelow
	}
	if containsWord(lower, winKeywords) {
		return domain.ComparatorWin
	}
	return domain.ComparatorUnknown
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// containsWord requires whole-word matches so "winter" does not imply WIN.
func containsWord(s string, keywords []string) bool {
	tokens := strings.Fields(s)
	for _, k := range keywords {
		if strings.Contains(k, " ") {
			if strings.Contains(s, k) {
				return true
			}
			continue
		}
		for _, t := range tokens {
			if strings.Trim(t, ".,!?;:\"'()") == k {
				return true
			}
		}
	}
	return false
}
