// Package normalization provides text canonicalization for contact and company fields.
package normalization

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// multipleSpacePattern matches multiple consecutive spaces
	multipleSpacePattern = regexp.MustCompile(`\s+`)

	// defaultSuffixes are corporate-entity tokens dropped from the end of a
	// company name (legal forms plus the structural tail words that vary
	// between exports of the same company)
	defaultSuffixes = []string{
		"inc", "incorporated", "corp", "corporation", "llc", "ltd", "limited",
		"co", "company", "plc", "lp", "llp", "gmbh", "sa", "ag", "nv", "bv",
		"pty", "holdings", "group",
	}

	// abbreviations maps compact company-name tokens to their expanded forms.
	// Every expansion is itself a fixed point so repeated passes cannot drift.
	abbreviations = map[string]string{
		"mfg":  "manufacturing",
		"intl": "international",
		"svcs": "services",
		"svc":  "service",
		"sys":  "systems",
		"grp":  "group",
		"hldg": "holdings",
		"univ": "university",
		"hosp": "hospital",
		"med":  "medical",
		"ctr":  "center",
		"tech": "technology",
	}

	// honorifics are person-name tokens carrying no identity information
	honorifics = map[string]bool{
		"dr": true, "mr": true, "mrs": true, "ms": true, "miss": true,
		"prof": true, "professor": true, "phd": true, "md": true, "mba": true,
		"esq": true, "cpa": true, "jr": true, "sr": true,
		"ii": true, "iii": true, "iv": true,
	}

	// titleAbbreviations maps job-title shorthand to full words
	titleAbbreviations = map[string]string{
		"sr":   "senior",
		"jr":   "junior",
		"vp":   "vice president",
		"svp":  "senior vice president",
		"evp":  "executive vice president",
		"ceo":  "chief executive officer",
		"cfo":  "chief financial officer",
		"cto":  "chief technology officer",
		"coo":  "chief operating officer",
		"cio":  "chief information officer",
		"cmo":  "chief marketing officer",
		"pres": "president",
		"exec": "executive",
		"mgr":  "manager",
		"dir":  "director",
		"eng":  "engineer",
		"dev":  "developer",
	}

	// titleFillers are connective tokens dropped from job titles
	titleFillers = map[string]bool{
		"of": true, "the": true, "and": true, "for": true,
		"to": true, "in": true, "at": true,
	}
)

// DefaultPunctuation is the punctuation set stripped from company names.
// Periods and apostrophes are deleted so initialisms stay joined ("J.P." ->
// "jp"); every other character in the set becomes a token boundary.
const DefaultPunctuation = ",.;:'\"()[]{}!?/\\|@#$%^*_+=~<>`-"

// CompanyOptions controls company-name canonicalization.
type CompanyOptions struct {
	// Punctuation is the set of characters stripped after ampersand expansion
	Punctuation string
	// Suffixes are the corporate-entity tokens stripped from the end of a name
	Suffixes []string
	// ExpandAbbreviations expands compact tokens like "mfg" and "intl"
	ExpandAbbreviations bool
}

// DefaultCompanyOptions returns the canonicalization applied when the caller
// does not override anything.
func DefaultCompanyOptions() CompanyOptions {
	return CompanyOptions{
		Punctuation:         DefaultPunctuation,
		Suffixes:            DefaultSuffixes(),
		ExpandAbbreviations: true,
	}
}

// DefaultSuffixes returns a copy of the built-in corporate suffix list.
func DefaultSuffixes() []string {
	out := make([]string, len(defaultSuffixes))
	copy(out, defaultSuffixes)
	return out
}

// CompanyNormalizer canonicalizes company names with a prepared option set.
type CompanyNormalizer struct {
	punctuation map[rune]bool
	suffixes    map[string]bool
	expand      bool
}

// NewCompanyNormalizer prepares a normalizer from the given options.
func NewCompanyNormalizer(opts CompanyOptions) *CompanyNormalizer {
	n := &CompanyNormalizer{
		punctuation: make(map[rune]bool, len(opts.Punctuation)),
		suffixes:    make(map[string]bool, len(opts.Suffixes)),
		expand:      opts.ExpandAbbreviations,
	}
	for _, r := range opts.Punctuation {
		n.punctuation[r] = true
	}
	for _, s := range opts.Suffixes {
		n.suffixes[strings.ToLower(s)] = true
	}
	return n
}

// Normalize canonicalizes a company name for comparison.
// The result is lowercase, accent-free, stripped of punctuation and trailing
// corporate suffixes, with whitespace collapsed. Normalize is idempotent:
// feeding its output back in returns the same string.
func (n *CompanyNormalizer) Normalize(name string) string {
	if hasNonASCII(name) {
		name = removeAccents(name)
	}
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "&", " and ")
	name = n.stripPunctuation(name)

	tokens := strings.Fields(name)
	if n.expand {
		for i, tok := range tokens {
			if expanded, ok := abbreviations[tok]; ok {
				tokens[i] = expanded
			}
		}
	}
	if len(tokens) > 1 && tokens[0] == "the" {
		tokens = tokens[1:]
	}
	for len(tokens) > 1 && n.suffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, " ")
}

// stripPunctuation removes configured punctuation. Periods and apostrophes
// are deleted outright; everything else maps to a space.
func (n *CompanyNormalizer) stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if !n.punctuation[r] {
			return r
		}
		if r == '.' || r == '\'' {
			return -1
		}
		return ' '
	}, s)
}

// FullName canonicalizes a person name from its first/last parts.
// A "Last, First" value packed into the first part is reordered, honorifics
// and generation suffixes are dropped, and the result is a lowercase
// accent-free "first last" string. Empty input yields an empty string.
func FullName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)

	// "Doe, John" in the first-name column with no separate last name
	if last == "" && strings.Contains(first, ",") {
		parts := strings.SplitN(first, ",", 2)
		first = strings.TrimSpace(parts[1])
		last = strings.TrimSpace(parts[0])
	}

	full := strings.TrimSpace(first + " " + last)
	if full == "" {
		return ""
	}
	if hasNonASCII(full) {
		full = removeAccents(full)
	}
	full = strings.ToLower(full)
	full = strings.Map(func(r rune) rune {
		if r == '.' || r == '\'' {
			return -1
		}
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, full)

	tokens := strings.Fields(full)
	kept := tokens[:0]
	for _, tok := range tokens {
		if honorifics[tok] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// JobTitle canonicalizes a job title or department name.
// Rank abbreviations are expanded and connective filler words dropped so
// "Sr. Engineer" and "Senior Engineer" compare equal.
func JobTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	if hasNonASCII(title) {
		title = removeAccents(title)
	}
	title = strings.ToLower(title)
	title = strings.ReplaceAll(title, "&", " and ")
	title = strings.Map(func(r rune) rune {
		if r == '.' || r == '\'' {
			return -1
		}
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, title)

	tokens := strings.Fields(title)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if titleFillers[tok] {
			continue
		}
		if expanded, ok := titleAbbreviations[tok]; ok {
			kept = append(kept, strings.Fields(expanded)...)
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// EmailDomain extracts the lowercased domain from an email address.
// Returns an empty string when the input has no usable domain part.
func EmailDomain(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

// CollapseWhitespace reduces internal whitespace runs to single spaces.
func CollapseWhitespace(s string) string {
	return multipleSpacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

// hasNonASCII checks if the string contains non-ASCII characters.
func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}

// removeAccents removes diacritical marks from Unicode characters.
func removeAccents(s string) string {
	normalized := norm.NFD.String(s)

	var result strings.Builder
	for _, r := range normalized {
		if !unicode.Is(unicode.Mn, r) { // Mn = Mark, Nonspacing
			result.WriteRune(r)
		}
	}

	return result.String()
}
