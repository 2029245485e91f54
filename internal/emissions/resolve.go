// Package emissions converts ledger quantities into Scope 1/2/3 tonnes of
// CO2-e and energy using a resolved factor map.
package emissions

import "strings"

// Match describes how a ledger fuel category was mapped to a factor key.
type Match struct {
	Key string

	// Via is "alias", "exact", "prefix" or "reverse".
	Via string

	// Candidates lists every key a reverse match could have picked; more
	// than one means the category was ambiguous.
	Candidates []string
}

// Ambiguous reports whether more than one key matched in reverse.
func (m Match) Ambiguous() bool {
	return len(m.Candidates) > 1
}

// ResolveKey maps a ledger fuel category to one of keys:
//  1. an explicit alias, when its target is a known key
//  2. the key equal to the category
//  3. the longest key the category starts with
//  4. a key that starts with the category (truncated ledger names),
//     preferring the longest such key, then the earlier one in keys
func ResolveKey(category string, keys []string, aliases map[string]string) (Match, bool) {
	if target, ok := aliases[category]; ok && contains(keys, target) {
		return Match{Key: target, Via: "alias"}, true
	}
	if contains(keys, category) {
		return Match{Key: category, Via: "exact"}, true
	}

	best := ""
	for _, k := range keys {
		if strings.HasPrefix(category, k) && len(k) > len(best) {
			best = k
		}
	}
	if best != "" {
		return Match{Key: best, Via: "prefix"}, true
	}

	var candidates []string
	for _, k := range keys {
		if strings.HasPrefix(k, category) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return Match{}, false
	}
	pick := candidates[0]
	for _, k := range candidates[1:] {
		if len(k) > len(pick) {
			pick = k
		}
	}
	return Match{Key: pick, Via: "reverse", Candidates: candidates}, true
}

func contains(keys []string, s string) bool {
	for _, k := range keys {
		if k == s {
			return true
		}
	}
	return false
}

// ValidateAliases checks that every alias points at a known key.
func ValidateAliases(aliases map[string]string, keys []string) []string {
	var bad []string
	for from, to := range aliases {
		if !contains(keys, to) {
			bad = append(bad, from+" -> "+to)
		}
	}
	return bad
}
