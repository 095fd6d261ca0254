package content

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases value, folds accented characters to their base form,
// and collapses everything that is not a letter or digit into single dashes.
func Slugify(value string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, value)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// NewID builds a normalized "<series>/<slug>" identifier.
func NewID(series, slug string) (string, error) {
	s := Slugify(series)
	e := Slugify(slug)
	if s == "" || e == "" {
		return "", fmt.Errorf("item id: series %q and slug %q must both contain letters or digits", series, slug)
	}
	return s + "/" + e, nil
}

// SplitID returns the series and slug segments of id.
func SplitID(id string) (string, string, error) {
	series, slug, ok := strings.Cut(strings.TrimSpace(id), "/")
	if !ok || series == "" || slug == "" || strings.Contains(slug, "/") {
		return "", "", fmt.Errorf("item id %q: expected <series>/<slug>", id)
	}
	if Slugify(series) != series || Slugify(slug) != slug {
		return "", "", fmt.Errorf("item id %q: segments must be normalized slugs", id)
	}
	return series, slug, nil
}

// NormalizeID accepts loosely formatted identifiers ("My Show/Pilot Ep") and
// returns the canonical form.
func NormalizeID(id string) (string, error) {
	series, slug, ok := strings.Cut(strings.TrimSpace(id), "/")
	if !ok {
		return "", fmt.Errorf("item id %q: expected <series>/<slug>", id)
	}
	return NewID(series, slug)
}
