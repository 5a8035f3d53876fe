package session

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackSlug names the file when the page has no usable title.
const FallbackSlug = "extracted-text"

// slugWords is how many title words make it into the default filename.
const slugWords = 3

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SlugifyTitle turns a page title into a short filename stem: diacritics
// folded, lowercased, punctuation dropped, first three words joined by '-'.
func SlugifyTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return FallbackSlug
	}
	folded, _, err := transform.String(foldMarks, title)
	if err != nil {
		folded = title
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	parts := strings.Fields(b.String())
	if len(parts) > slugWords {
		parts = parts[:slugWords]
	}
	if len(parts) == 0 {
		return FallbackSlug
	}
	return strings.Join(parts, "-")
}

// DefaultFilename is the name offered when nothing has been saved before.
func DefaultFilename(title string) string {
	return SlugifyTitle(title) + ".txt"
}

// NormalizeFilename applies the save rules to a user answer. It returns ""
// when the answer amounts to a cancellation. Names without a dot get .txt.
func NormalizeFilename(answer string) string {
	name := strings.TrimSpace(answer)
	if name == "" {
		return ""
	}
	if !strings.Contains(name, ".") {
		name += ".txt"
	}
	return name
}
