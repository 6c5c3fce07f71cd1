// Package extract turns free-text market titles into structured signal bags:
// canonical entities, numeric values, calendar periods, a comparison operator
// and a coarse game type. Extraction is pure: no I/O, no failure modes beyond
// returning empty signals for degenerate input.
package extract

import (
	"sort"
	"strings"
)

// EntityCategory names one alias table inside the Registry.
type EntityCategory string

const (
	CategoryTeam         EntityCategory = "team"
	CategoryPerson       EntityCategory = "person"
	CategoryOrganization EntityCategory = "organization"
)

// aliasEntry is one alias prepared for longest-phrase-first scanning.
type aliasEntry struct {
	alias     string
	tokens    []string
	canonical string
}

// aliasTable holds one category's reverse lookup (alias -> canonical id) with
// aliases pre-sorted so multi-word phrases are matched before single-word
// substrings of the same name.
type aliasTable struct {
	entries []aliasEntry
}

// Registry bundles the immutable alias and domain lookup tables the extractor
// needs. It is built once at process start and shared read-only; there is no
// module-level mutable state.
type Registry struct {
	teams  aliasTable
	people aliasTable
	orgs   aliasTable

	// teamDomain maps canonical team ids to the sub-domain they belong to
	// (esports, combat, tennis, motorsport, golf) for game-type fallback.
	teamDomain map[string]string
	// orgGame maps canonical org/league ids to a game type for fallback.
	orgGame map[string]string
}

// NewRegistry builds the default Registry from the static alias data in
// tables.go.
func NewRegistry() *Registry {
	return &Registry{
		teams:      buildAliasTable(teamAliases),
		people:     buildAliasTable(personAliases),
		orgs:       buildAliasTable(orgAliases),
		teamDomain: teamDomains,
		orgGame:    orgGames,
	}
}

// buildAliasTable prepares a map of lowercase alias -> canonical id for
// scanning. Entries are ordered by descending token count, then descending
// alias length, so "team vitality" wins over "vitality".
func buildAliasTable(aliases map[string]string) aliasTable {
	entries := make([]aliasEntry, 0, len(aliases))
	for alias, canonical := range aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" {
			continue
		}
		entries = append(entries, aliasEntry{
			alias:     alias,
			tokens:    strings.Fields(alias),
			canonical: canonical,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].tokens) != len(entries[j].tokens) {
			return len(entries[i].tokens) > len(entries[j].tokens)
		}
		if len(entries[i].alias) != len(entries[j].alias) {
			return len(entries[i].alias) > len(entries[j].alias)
		}
		return entries[i].alias < entries[j].alias
	})
	return aliasTable{entries: entries}
}

// TeamDomain returns the sub-domain for a canonical team id, or "".
func (r *Registry) TeamDomain(canonical string) string {
	return r.teamDomain[canonical]
}

// OrgGame returns the game type associated with a canonical org id, or "".
func (r *Registry) OrgGame(canonical string) string {
	return r.orgGame[canonical]
}
