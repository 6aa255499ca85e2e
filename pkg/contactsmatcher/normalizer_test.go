package contactsmatcher

import (
	"errors"
	"testing"
)

func TestNormalizerName(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lowercases and trims", raw: "  Acme Widgets  ", want: "acme widgets"},
		{name: "strips trailing suffix", raw: "Acme Inc.", want: "acme"},
		{name: "strips comma and suffix", raw: "ACME, INC", want: "acme"},
		{name: "corporation suffix", raw: "Globex Corporation", want: "globex"},
		{name: "ampersand becomes and", raw: "Johnson & Johnson", want: "johnson and johnson"},
		{name: "stacked suffixes all stripped", raw: "Initech Holdings LLC", want: "initech"},
		{name: "suffix alone survives", raw: "Inc.", want: "inc"},
		{name: "suffix pair keeps head", raw: "Corp, Inc.", want: "corp"},
		{name: "interior suffix kept", raw: "Co Op Market", want: "co op market"},
		{name: "abbreviation expanded", raw: "Acme Mfg", want: "acme manufacturing"},
		{name: "leading article dropped", raw: "The Acme Company", want: "acme"},
		{name: "article alone survives", raw: "The", want: "the"},
		{name: "accents folded", raw: "Café Société", want: "cafe societe"},
		{name: "whitespace collapsed", raw: "Acme   Widget \t Co", want: "acme widget"},
		{name: "hyphen becomes boundary", raw: "Smith-Jones Ltd", want: "smith jones"},
		{name: "periods deleted not split", raw: "J.P. Morgan & Co.", want: "jp morgan and"},
		{name: "apostrophe deleted", raw: "O'Brien Consulting", want: "obrien consulting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Name(tt.raw)
			if err != nil {
				t.Fatalf("Name(%q) returned %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.raw, got, tt.want)
			}

			// normalizing an already normalized name is a no-op
			again, err := n.Name(got)
			if err != nil {
				t.Fatalf("Name(%q) returned %v", got, err)
			}
			if again != got {
				t.Errorf("Name is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizerNameEmpty(t *testing.T) {
	n := NewNormalizer()

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := n.Name(raw)
		if err == nil {
			t.Fatalf("Name(%q) returned nil error", raw)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Name(%q) error should wrap ErrInvalidInput, got %v", raw, err)
		}
		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("Name(%q) error should be *InputError, got %v", raw, err)
		}
		if inputErr.Field != "name" {
			t.Errorf("InputError.Field = %q, want %q", inputErr.Field, "name")
		}
	}
}

func TestNormalizerOptions(t *testing.T) {
	tests := []struct {
		name       string
		normalizer *Normalizer
		raw        string
		want       string
	}{
		{
			name:       "replaced suffixes keep defaults off",
			normalizer: NewNormalizer(WithSuffixes("gmbh")),
			raw:        "Acme Inc",
			want:       "acme inc",
		},
		{
			name:       "replaced suffixes strip",
			normalizer: NewNormalizer(WithSuffixes("gmbh")),
			raw:        "Beta GmbH",
			want:       "beta",
		},
		{
			name:       "extra suffixes extend defaults",
			normalizer: NewNormalizer(WithExtraSuffixes("industries")),
			raw:        "Stark Industries Inc",
			want:       "stark",
		},
		{
			name:       "custom punctuation leaves the rest",
			normalizer: NewNormalizer(WithPunctuation(",")),
			raw:        "A.B. Widgets, Ltd",
			want:       "a.b. widgets",
		},
		{
			name:       "abbreviations disabled",
			normalizer: NewNormalizer(WithoutAbbreviations()),
			raw:        "Acme Mfg Co",
			want:       "acme mfg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.normalizer.Name(tt.raw)
			if err != nil {
				t.Fatalf("Name(%q) returned %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizePackageLevel(t *testing.T) {
	got, err := Normalize("Acme, Inc.")
	if err != nil {
		t.Fatalf("Normalize() returned %v", err)
	}
	if got != "acme" {
		t.Errorf("Normalize() = %q, want %q", got, "acme")
	}

	if _, err := Normalize("   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Normalize on blank input = %v, want ErrInvalidInput", err)
	}
}

func TestNormalizerMemoization(t *testing.T) {
	for _, n := range []*Normalizer{NewNormalizer(), NewNormalizer(WithCacheSize(0))} {
		first, err := n.Name("Acme Widgets, Inc.")
		if err != nil {
			t.Fatalf("Name: %v", err)
		}
		second, err := n.Name("Acme Widgets, Inc.")
		if err != nil {
			t.Fatalf("Name: %v", err)
		}
		if first != second || first != "acme widgets" {
			t.Errorf("repeated Name = %q then %q, want %q both times", first, second, "acme widgets")
		}
	}
}

func TestDefaultSuffixesCopy(t *testing.T) {
	suffixes := DefaultSuffixes()
	if len(suffixes) == 0 {
		t.Fatal("DefaultSuffixes() returned no entries")
	}

	suffixes[0] = "mutated"
	if DefaultSuffixes()[0] == "mutated" {
		t.Error("DefaultSuffixes() must return a copy")
	}
}
