package extract

import "strings"

// Tokenize lowercases a title and splits it into tokens, stripping all
// punctuation except apostrophes and hyphens. Empty input yields nil.
func Tokenize(title string) []string {
	lower := strings.ToLower(title)
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'', r == '-':
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// matchAliases scans one alias table against the tokenized title,
// longest-phrase-first, and returns canonical ids in first-match order.
// A single-token alias must match a token exactly; a multi-token alias
// matches either a consecutive token run or a raw substring of the
// normalized title (tolerating hyphenated and punctuated spellings).
// Each canonical id is reported at most once.
func matchAliases(table aliasTable, tokens []string, normalized string) []string {
	if len(tokens) == 0 {
		return nil
	}
	tokenSet := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, e := range table.entries {
		if seen[e.canonical] {
			continue
		}
		matched := false
		if len(e.tokens) == 1 {
			matched = tokenSet[e.alias]
		} else {
			matched = hasTokenRun(tokens, e.tokens) || strings.Contains(normalized, e.alias)
		}
		if matched {
			seen[e.canonical] = true
			out = append(out, e.canonical)
		}
	}
	return out
}

// hasTokenRun reports whether needle appears in haystack as a consecutive run.
func hasTokenRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		ok := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
