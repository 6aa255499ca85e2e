// Package scoring implements the string-similarity metrics used to compare
// normalized record fields.
package scoring

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Reusable metric instances shared by all comparisons.
var (
	levenshtein = metrics.NewLevenshtein()
	jaroWinkler = metrics.NewJaroWinkler()
)

func init() {
	levenshtein.CaseSensitive = false
	jaroWinkler.CaseSensitive = false
}

// nicknames folds common given-name variants to a canonical form so that
// "Bill Smith" and "William Smith" score as the same person.
var nicknames = map[string]string{
	"will": "william", "bill": "william", "billy": "william", "liam": "william",
	"rob": "robert", "bob": "robert", "bobby": "robert",
	"rick": "richard", "rich": "richard", "richie": "richard",
	"jim": "james", "jimmy": "james",
	"jack": "john", "johnny": "john",
	"mike": "michael", "mikey": "michael",
	"liz": "elizabeth", "beth": "elizabeth", "eliza": "elizabeth", "betsy": "elizabeth",
	"meg": "margaret", "peggy": "margaret", "maggie": "margaret",
	"kate": "katherine", "katie": "katherine", "kathy": "katherine",
	"tom": "thomas", "tommy": "thomas",
	"chris": "christopher",
	"jen": "jennifer", "jenny": "jennifer",
	"dave": "david",
	"dan": "daniel", "danny": "daniel",
	"ed": "edward", "eddie": "edward", "ted": "edward",
	"steve": "steven",
	"joe": "joseph", "joey": "joseph",
	"sam": "samuel",
	"ben": "benjamin",
	"matt": "matthew",
	"nick": "nicholas",
	"greg": "gregory",
	"andy": "andrew", "drew": "andrew",
	"tony": "anthony",
	"sue": "susan", "susie": "susan",
	"trish": "patricia", "patty": "patricia",
}

// EditDistance returns the Levenshtein similarity of two strings in [0, 1].
// Order-sensitive: good at catching typos and small spelling drift.
func EditDistance(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return ratio(a, b)
}

// TokenSort compares the space-joined sorted token lists of both strings,
// making the score insensitive to word order.
func TokenSort(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSet compares both strings through their shared-token core: the sorted
// token intersection alone and extended with each side's remainder. The best
// of those ratios (and the plain token-sort ratio) wins. The score is 1.0
// exactly when both strings contain the same set of distinct tokens; when one
// token set merely contains the other, the shared-core shortcut is skipped so
// a shorter name cannot score as a perfect duplicate of a longer one.
func TokenSet(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	shared, onlyA, onlyB := splitShared(uniqueTokens(a), uniqueTokens(b))

	t0 := strings.Join(shared, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	best := TokenSort(a, b)
	if s := ratio(t1, t2); s > best {
		best = s
	}
	if t0 != "" && len(onlyA) > 0 && len(onlyB) > 0 {
		if s := ratio(t0, t1); s > best {
			best = s
		}
		if s := ratio(t0, t2); s > best {
			best = s
		}
	}
	return best
}

// Combined blends the order-insensitive and order-sensitive views evenly.
func Combined(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return (TokenSet(a, b) + EditDistance(a, b)) / 2
}

// PersonName scores two normalized person names with Jaro-Winkler, which
// rewards the shared prefixes human name variants usually keep. Common
// given-name nicknames are folded to one form before comparison.
func PersonName(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return strutil.Similarity(foldGivenName(a), foldGivenName(b), jaroWinkler)
}

// Exact scores strict equality: 1.0 for identical nonempty strings, else 0.0.
func Exact(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// ratio is the Levenshtein similarity of two strings.
func ratio(a, b string) float64 {
	return strutil.Similarity(a, b, levenshtein)
}

// sortedTokens returns the string's tokens sorted and re-joined.
func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// uniqueTokens returns the string's distinct tokens, sorted.
func uniqueTokens(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)
	return tokens
}

// splitShared partitions two sorted token sets into the shared tokens and
// each side's remainder. All results stay sorted.
func splitShared(a, b []string) (shared, onlyA, onlyB []string) {
	inB := make(map[string]bool, len(b))
	for _, t := range b {
		inB[t] = true
	}
	inA := make(map[string]bool, len(a))
	for _, t := range a {
		inA[t] = true
	}

	for _, t := range a {
		if inB[t] {
			shared = append(shared, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range b {
		if !inA[t] {
			onlyB = append(onlyB, t)
		}
	}
	return shared, onlyA, onlyB
}

// foldGivenName maps a leading nickname token to its canonical given name.
func foldGivenName(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return name
	}
	if canonical, ok := nicknames[tokens[0]]; ok {
		tokens[0] = canonical
		return strings.Join(tokens, " ")
	}
	return name
}
