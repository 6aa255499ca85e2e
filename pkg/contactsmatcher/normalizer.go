package contactsmatcher

import (
	"strings"

	"github.com/jrsherlock/contacts-matcher5000/pkg/internal/memo"
	"github.com/jrsherlock/contacts-matcher5000/pkg/internal/normalization"
)

// defaultCacheSize bounds the memo of recently normalized names. Contact
// lists repeat employers heavily, so most rows hit the memo.
const defaultCacheSize = 4096

// Normalizer canonicalizes raw company names into comparison-ready form.
// It memoizes recent results and is safe for concurrent use.
type Normalizer struct {
	company *normalization.CompanyNormalizer
	cache   *memo.Cache
}

// normalizerOptions collects the adjustable canonicalization settings.
type normalizerOptions struct {
	punctuation string
	suffixes    []string
	extra       []string
	expand      bool
	cacheSize   int
}

// NormalizerOption adjusts how company names are canonicalized.
type NormalizerOption func(*normalizerOptions)

// WithSuffixes replaces the corporate suffix list.
func WithSuffixes(suffixes ...string) NormalizerOption {
	return func(o *normalizerOptions) {
		o.suffixes = suffixes
	}
}

// WithExtraSuffixes extends the corporate suffix list.
func WithExtraSuffixes(suffixes ...string) NormalizerOption {
	return func(o *normalizerOptions) {
		o.extra = append(o.extra, suffixes...)
	}
}

// WithPunctuation replaces the punctuation set stripped from names.
func WithPunctuation(set string) NormalizerOption {
	return func(o *normalizerOptions) {
		o.punctuation = set
	}
}

// WithoutAbbreviations disables expansion of compact tokens like "mfg".
func WithoutAbbreviations() NormalizerOption {
	return func(o *normalizerOptions) {
		o.expand = false
	}
}

// WithCacheSize bounds the memo of recently normalized names. Zero disables
// memoization.
func WithCacheSize(size int) NormalizerOption {
	return func(o *normalizerOptions) {
		o.cacheSize = size
	}
}

// NewNormalizer builds a Normalizer. Without options it lowercases, folds
// accents, turns ampersands into "and", strips the default punctuation set,
// expands common abbreviations, and drops trailing corporate suffixes.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	settings := normalizerOptions{
		punctuation: normalization.DefaultPunctuation,
		suffixes:    normalization.DefaultSuffixes(),
		expand:      true,
		cacheSize:   defaultCacheSize,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	return &Normalizer{
		company: normalization.NewCompanyNormalizer(normalization.CompanyOptions{
			Punctuation:         settings.punctuation,
			Suffixes:            append(settings.suffixes, settings.extra...),
			ExpandAbbreviations: settings.expand,
		}),
		cache: memo.New(settings.cacheSize),
	}
}

// Name canonicalizes a raw company name. It fails with an InputError when
// the raw value is empty or whitespace-only; callers must supply a fallback
// before invoking. The result is deterministic and re-normalizing it is a
// no-op. Suffix stripping never consumes the entire name: a name that is
// nothing but a suffix token survives as-is.
func (n *Normalizer) Name(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &InputError{Field: "name", Reason: "empty company name"}
	}
	if cached, ok := n.cache.Get(raw); ok {
		return cached, nil
	}

	name := n.company.Normalize(raw)
	n.cache.Set(raw, name)
	return name, nil
}

// defaultNormalizer backs the package-level Normalize.
var defaultNormalizer = NewNormalizer()

// Normalize canonicalizes a company name with the default settings.
func Normalize(raw string) (string, error) {
	return defaultNormalizer.Name(raw)
}

// DefaultSuffixes returns the built-in corporate suffix list.
func DefaultSuffixes() []string {
	return normalization.DefaultSuffixes()
}
