// Package geo provides offline coordinate resolution and distance math for
// the partner fleet: country/city name normalization, a static gazetteer of
// known city centroids and great-circle distances.
package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips combining diacritical marks (ü -> u, é -> e). ß is left alone;
// gazetteer city keys handle it separately.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize folds diacritics, trims and lowercases for case-insensitive
// matching across filter dimensions and owner names.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(Fold(s)))
}

// countryRules maps localized country-name substrings to 2-letter codes.
// First match wins; probes run in this order.
var countryRules = []struct {
	substr string
	code   string
}{
	{"deutsch", "de"},
	{"germany", "de"},
	{"austria", "at"},
	{"österreich", "at"},
	{"schweiz", "ch"},
	{"switzerland", "ch"},
	{"united kingdom", "uk"},
	{"uk", "uk"},
	{"united arab emirates", "ae"},
	{"uae", "ae"},
	{"australien", "au"},
	{"australia", "au"},
	{"usa", "us"},
	{"vereinigte staaten", "us"},
	{"united states", "us"},
}

// NormalizeCountry reduces a localized country spelling to a 2-letter code.
// Unknown names degrade to their first two characters so that inputs that
// already are codes ("de", "at") pass through.
func NormalizeCountry(country string) string {
	value := strings.ToLower(strings.TrimSpace(country))
	for _, rule := range countryRules {
		if strings.Contains(value, rule.substr) {
			return rule.code
		}
	}
	if runes := []rune(value); len(runes) > 2 {
		return string(runes[:2])
	}
	return value
}

// normalizeCity canonicalizes a city spelling for gazetteer lookup:
// ß -> ss, everything outside ASCII [a-z0-9_ -] removed, whitespace
// collapsed, lowercased. Deliberately ASCII-only: umlaut spellings do not
// resolve, the gazetteer carries plain-ASCII aliases for reachable cities.
func normalizeCity(city string) string {
	value := strings.ToLower(strings.TrimSpace(city))
	value = strings.ReplaceAll(value, "ß", "ss")

	var b strings.Builder
	for _, r := range value {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
