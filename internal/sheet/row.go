package sheet

// Synonym tables for the write path: when building a row against a live
// header, each canonical field may appear in the sheet under any of these
// normalized spellings. Extend these tables when operators rename columns.

// InventorySynonyms maps canonical inventory fields to accepted headers.
var InventorySynonyms = map[string][]string{
	"vermieter_name": {"vermieter", "vermietername", "partner"},
	"fahrzeug_label": {"fahrzeug", "fahrzeugname", "fahrzeug_name", "modell"},
	"manufacturer":   {"hersteller", "marke", "brand"},
	"fahrzeugtyp":    {"typ", "segment"},
	"stadt":          {"city", "ort"},
	"region":         {"bundesland", "staat", "province"},
	"standort":       {"adresse", "anschrift", "adresszeile"},
	"land":           {"country"},
	"status":         {"state"},
	"notizen":        {"notes", "kommentar", "comment"},
	"latitude":       {"lat", "breitengrad"},
	"longitude":      {"lng", "laengengrad", "längengrad"},
	"plz":            {"postal_code", "postleitzahl", "zip", "zip_code"},
	"strasse":        {"strasse", "straße", "stra_e", "street", "straße_hausnummer", "stra_e_hausnummer"},
	"listed_at":      {"listed_at", "online_seit", "onboarded_at"},
	"letzte_aenderung": {"letzte_änderung", "last_change", "last_update"},
}

// OwnerSynonyms maps canonical owner fields to accepted headers.
var OwnerSynonyms = map[string][]string{
	"vermieter_name":       {"vermieter", "partner", "name"},
	"land":                 {"country"},
	"region":               {"bundesland", "staat", "province"},
	"stadt":                {"city", "ort"},
	"latitude":             {"lat", "breitengrad"},
	"longitude":            {"lng", "laengengrad", "längengrad"},
	"adresse":              {"standort", "anschrift"},
	"telefon":              {"phone"},
	"email":                {"mail"},
	"domain":               {"website", "url"},
	"plz":                  {"postal_code", "postleitzahl", "zip", "zip_code"},
	"strasse":              {"street", "straße", "stra_e", "straße_hausnummer", "stra_e_hausnummer"},
	"internationale_kunden": {"international", "intl_kunden", "international_customers"},
	"provision":            {"commission", "provision_satze", "provision_satz"},
	"ranking":              {"bewertung"},
	"erfahrung_jahre":      {"erfahrung", "experience_years"},
	"notizen":              {"notes", "kommentar", "comment"},
	"letzte_aenderung":     {"letzte_änderung", "last_change", "last_update"},
}

// MissingInventorySynonyms maps canonical demand-gap fields to headers.
var MissingInventorySynonyms = map[string][]string{
	"stadt":          {"city", "ort"},
	"region":         {"bundesland", "state", "region"},
	"land":           {"country"},
	"fahrzeugtyp":    {"fahrzeug_typ", "typ", "segment"},
	"anzahl_fehlend": {"anzahl", "missing", "anzahl_missing"},
	"prio":           {"prioritaet", "priorität", "priority"},
	"kommentar":      {"notes", "bemerkung", "note"},
}

// LeadSynonyms maps canonical pending-lead fields to headers.
var LeadSynonyms = map[string][]string{
	"datum":             {"date"},
	"kanal":             {"channel", "quelle"},
	"region":            {"bundesland", "state"},
	"vermieter_name":    {"vermieter", "name", "partner"},
	"fahrzeug_label":    {"fahrzeug", "modell"},
	"manufacturer":      {"hersteller", "marke", "brand"},
	"fahrzeugtyp":       {"typ", "segment"},
	"stadt":             {"city", "ort"},
	"land":              {"country"},
	"kommentar":         {"notes", "bemerkung"},
	"status":            {},
	"status_updated_at": {"status_geaendert", "status_date"},
}

// BuildRow lays out canonical field values against a live header row.
// For each header column the canonical key is resolved directly or through
// the synonym table; columns with no matching value stay empty, so the row
// always fits the sheet exactly.
func BuildRow(header []string, values map[string]string, synonyms map[string][]string) []string {
	row := make([]string, len(header))
	for i, original := range header {
		normalized := NormalizeKey(original)

		if v, ok := values[normalized]; ok {
			row[i] = v
			continue
		}
	aliasMatch:
		for canonical, aliases := range synonyms {
			v, ok := values[canonical]
			if !ok {
				continue
			}
			for _, alias := range aliases {
				if NormalizeKey(alias) == normalized {
					row[i] = v
					break aliasMatch
				}
			}
		}
	}
	return row
}

// ResolveColumn finds the index of the first candidate header present in a
// header row, or -1. Used by delete paths to locate key columns.
func ResolveColumn(header []string, candidates ...string) int {
	return newHeaderLookup(header).find(candidates...)
}
