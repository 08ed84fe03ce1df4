// Package filter derives the admin console's report view: status partition,
// filter options, selection reconciliation, filtering and pagination.
package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key folds s for option comparison: trimmed, case-folded, diacritics stripped.
// "Região" and "regiao" share a key.
func Key(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return cases.Fold().String(folded)
}

// SameText reports whether a and b are the same option.
func SameText(a, b string) bool {
	return Key(a) == Key(b)
}

// sortLabels orders labels by Brazilian Portuguese collation, ignoring case and accents.
// Collators keep internal buffers, so one is built per call.
func sortLabels(labels []string) {
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.IgnoreDiacritics)
	c.SortStrings(labels)
}

// distinct collects the non-empty values in first-seen casing, deduplicated by Key, sorted.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		k := Key(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, strings.TrimSpace(v))
	}
	sortLabels(out)
	return out
}

// Labels returns the display labels of values, deduplicated and sorted the same way
// as filter options.
func Labels(values []string) []string {
	return distinct(values)
}

func containsText(list []string, v string) bool {
	k := Key(v)
	for _, item := range list {
		if Key(item) == k {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
