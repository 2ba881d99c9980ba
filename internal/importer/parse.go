package importer

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
)

var (
	vehicleSeparator = regexp.MustCompile(`\r?\n|;|,|•|·`)
	quoteRunes       = strings.NewReplacer(`"`, "", "'", "")
	phoneJunk        = regexp.MustCompile(`[^\d+]`)
	postalCity       = regexp.MustCompile(`\b\d{4,5}\s+([A-Za-zÄÖÜäöüß\- ]+)`)
	locationBreak    = regexp.MustCompile(`\n|;| / | {2,}`)
)

// splitVehicles breaks the free-form vehicle list of the legacy export
// into individual labels.
func splitVehicles(field string) []string {
	var labels []string
	for _, part := range vehicleSeparator.Split(field, -1) {
		label := strings.TrimSpace(quoteRunes.Replace(part))
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// vehicleTypeHints maps model-name fragments to the segment used on the
// dashboard. Lookup order matters: the first matching hint wins.
var vehicleTypeHints = []struct {
	fragments   []string
	vehicleType string
}{
	{[]string{"g63", "urus", "x7"}, "SUV"},
	{[]string{"cabr", "cab"}, "Cabriolet"},
	{[]string{"spyder", "spider", "huracan"}, "Sportwagen"},
	{[]string{"rs6", "rs4"}, "Kombi"},
	{[]string{"panamera", "aventador", "bmw 7"}, "Limousine"},
}

// guessVehicleType infers the segment from well-known model names, empty
// when nothing matches.
func guessVehicleType(label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return ""
	}
	for _, hint := range vehicleTypeHints {
		for _, fragment := range hint.fragments {
			if strings.Contains(lower, fragment) {
				return hint.vehicleType
			}
		}
	}
	return ""
}

// normalizePhone strips everything but digits and a leading plus, turning
// the 00 international prefix into +.
func normalizePhone(phone string) string {
	digits := phoneJunk.ReplaceAllString(phone, "")
	if strings.HasPrefix(digits, "00") {
		return "+" + digits[2:]
	}
	return digits
}

// normalizeDomain reduces a website field to its bare hostname. Values
// that do not parse as URLs pass through unchanged.
func normalizeDomain(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := raw
	if !strings.HasPrefix(cleaned, "http") {
		cleaned = "https://" + cleaned
	}
	parsed, err := url.Parse(cleaned)
	if err != nil || parsed.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// parseCity extracts the city from a free-form location blob: the postal
// code line wins, otherwise the last comma segment of the first line.
func parseCity(location string) string {
	if location == "" {
		return ""
	}
	first := locationBreak.Split(location, 2)[0]
	if first == "" {
		first = location
	}
	if match := postalCity.FindStringSubmatch(first); match != nil {
		return strings.TrimSpace(match[1])
	}
	segments := strings.Split(first, ",")
	return strings.TrimSpace(segments[len(segments)-1])
}

// formatDate renders any parsable date as yyyy-mm-dd, empty otherwise.
func formatDate(value string) string {
	parsed := model.ParseDate(value)
	if parsed == nil {
		return ""
	}
	return parsed.Format("2006-01-02")
}

type field struct {
	label string
	value string
}

// combineFields renders labeled values as "Label: value | Label: value",
// skipping blanks.
func combineFields(fields ...field) string {
	var parts []string
	for _, f := range fields {
		if v := strings.TrimSpace(f.value); v != "" {
			parts = append(parts, f.label+": "+v)
		}
	}
	return strings.Join(parts, " | ")
}

func joinNonEmpty(sep string, values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
