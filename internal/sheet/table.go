// Package sheet maps raw spreadsheet matrices (header row + string cells)
// into typed entities, independent of column order. Fields are located by
// probing normalized header names against synonym lists, with fixed
// positional fallbacks for the legacy sheet layout. Malformed cells degrade
// to zero values; mapping never fails.
package sheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/ChrisDrivar/drivar-dashboard/internal/geo"
)

// NormalizeKey canonicalizes a header label: diacritics folded, trimmed,
// lowercased, a leading BOM stripped and runs of non-alphanumerics collapsed
// to a single underscore ("Straße / Hausnummer" -> "stra_e_hausnummer").
func NormalizeKey(label string) string {
	if label == "" {
		return ""
	}
	value := strings.ToLower(strings.TrimSpace(geo.Fold(label)))
	value = strings.TrimPrefix(value, "\uFEFF")

	var b strings.Builder
	pendingSep := false
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			pendingSep = true
		}
	}
	if pendingSep {
		b.WriteByte('_')
	}
	return b.String()
}

// headerLookup resolves logical fields against a concrete header row.
type headerLookup struct {
	normalized []string
}

func newHeaderLookup(header []string) headerLookup {
	normalized := make([]string, len(header))
	for i, label := range header {
		normalized[i] = NormalizeKey(label)
	}
	return headerLookup{normalized: normalized}
}

// find returns the column index of the first candidate present in the
// header, or -1.
func (h headerLookup) find(candidates ...string) int {
	for _, candidate := range candidates {
		key := NormalizeKey(candidate)
		for i, label := range h.normalized {
			if label == key {
				return i
			}
		}
	}
	return -1
}

// pick reads the cell for a logical field: header match first, then the
// fixed positional fallback if it is within the row's bounds, else "".
func (h headerLookup) pick(row []string, fallbackIndex int, candidates ...string) string {
	if index := h.find(candidates...); index != -1 {
		if index < len(row) {
			return row[index]
		}
		return ""
	}
	if fallbackIndex >= 0 && fallbackIndex < len(row) {
		return row[fallbackIndex]
	}
	return ""
}

// parseCount parses a best-effort counter cell. Empty and malformed cells
// degrade to 0.
func parseCount(raw string) int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0
	}
	return int(parsed)
}

// parseCoordinate parses a latitude/longitude cell, tolerating a comma as
// the decimal separator. Returns nil when the cell is empty or malformed so
// "absent" stays distinct from 0.
func parseCoordinate(raw string) *float64 {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return nil
	}
	return &parsed
}
