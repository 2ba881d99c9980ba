// Package importer loads the legacy "import" tab of a partner workbook
// into the owners and inventory tables: one owner row per distinct name,
// one inventory row per listed vehicle.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ChrisDrivar/drivar-dashboard/internal/config"
	"github.com/ChrisDrivar/drivar-dashboard/internal/sheet"
	"github.com/ChrisDrivar/drivar-dashboard/pkg/geocode"
	"github.com/ChrisDrivar/drivar-dashboard/pkg/sheets"
)

// Source column labels of the legacy export. Matched against the source
// header after key normalization, so punctuation and case differences in
// the spreadsheet do not matter.
var sourceColumns = map[string]string{
	"ownerName":      "Vermieter-Name",
	"website":        "Webseite",
	"description":    "Beschreibung",
	"changeLog":      "Change Log Time",
	"locked":         "Locked",
	"notes":          "Notizen",
	"email":          "EMail",
	"location":       "Standort",
	"vehicles":       "Fahrzeuge",
	"intlCustomers":  "Internationale Kunden",
	"interactiveMap": "Interaktive Karte",
	"commission":     "wie viel Provision bekommen wir?",
	"metroArea":      "Großstadt Raum",
	"ranking":        "Vermieter Ranking A / B / C",
	"phone":          "Telefon Nr.",
	"experience":     "Erfahrung (in Jahre)",
}

// Summary reports what an import run wrote.
type Summary struct {
	BatchID  string
	Owners   int
	Vehicles int
	Geocoded int
}

// Importer rewrites the owners and inventory tables from a source tab.
type Importer struct {
	store    sheets.TableStore
	geocoder geocode.Client
	tables   config.SheetsConfig
}

// New creates an Importer. geocoder may be nil; owners then keep whatever
// coordinates the gazetteer can supply at read time.
func New(store sheets.TableStore, geocoder geocode.Client, tables config.SheetsConfig) *Importer {
	return &Importer{store: store, geocoder: geocoder, tables: tables}
}

type importedOwner struct {
	values map[string]string
	city   string
}

// Run imports the source tab. The owners and inventory table bodies are
// replaced, not appended to, mirroring the legacy import script.
func (imp *Importer) Run(ctx context.Context, sourceSheet string) (Summary, error) {
	batchID := uuid.NewString()
	summary := Summary{BatchID: batchID}

	rows, err := imp.store.FetchTable(ctx, sourceSheet, "")
	if err != nil {
		return summary, eris.Wrapf(err, "importer: fetch %q", sourceSheet)
	}
	if len(rows) < 2 {
		return summary, eris.Errorf("importer: tab %q has no data rows", sourceSheet)
	}

	header := rows[0]
	column := func(row []string, key string) string {
		idx := sheet.ResolveColumn(header, sourceColumns[key])
		if idx == -1 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	ownerOrder := make([]string, 0, len(rows))
	owners := make(map[string]importedOwner)
	var vehicles []map[string]string

	for _, row := range rows[1:] {
		name := column(row, "ownerName")
		if name == "" {
			continue
		}

		location := column(row, "location")
		city := parseCity(location)
		changeDate := formatDate(column(row, "changeLog"))

		key := strings.ToLower(name)
		if _, seen := owners[key]; !seen {
			notes := combineFields(
				field{"Beschreibung", column(row, "description")},
				field{"Notizen", column(row, "notes")},
				field{"Interaktive Karte", column(row, "interactiveMap")},
			)
			extra := combineFields(
				field{"Locked", column(row, "locked")},
				field{"Internationale Kunden", column(row, "intlCustomers")},
			)
			owners[key] = importedOwner{
				city: city,
				values: map[string]string{
					"vermieter_name":        name,
					"email":                 column(row, "email"),
					"telefon":               normalizePhone(column(row, "phone")),
					"domain":                normalizeDomain(column(row, "website")),
					"adresse":               location,
					"stadt":                 city,
					"land":                  "Deutschland",
					"grossstadt_raum":       column(row, "metroArea"),
					"internationale_kunden": column(row, "intlCustomers"),
					"provision":             column(row, "commission"),
					"ranking":               column(row, "ranking"),
					"erfahrung_jahre":       column(row, "experience"),
					"letzte_aenderung":      changeDate,
					"notizen":               joinNonEmpty(" | ", notes, extra),
				},
			}
			ownerOrder = append(ownerOrder, key)
		}

		for _, label := range splitVehicles(column(row, "vehicles")) {
			vehicles = append(vehicles, map[string]string{
				"vermieter_name": name,
				"fahrzeug_label": label,
				"fahrzeugtyp":    guessVehicleType(label),
				"stadt":          city,
				"standort":       location,
				"land":           "Deutschland",
				"status":         "aktiv",
				"notizen":        strings.TrimSpace("Quelle: Sheet-Import " + changeDate),
			})
		}
	}

	if imp.geocoder != nil {
		for _, key := range ownerOrder {
			owner := owners[key]
			if owner.city == "" {
				continue
			}
			result, err := imp.geocoder.Geocode(ctx, geocode.AddressInput{
				City:    owner.city,
				Country: "Deutschland",
			})
			if err != nil {
				zap.L().Warn("importer: geocode",
					zap.String("batch_id", batchID),
					zap.String("city", owner.city),
					zap.Error(err),
				)
				continue
			}
			if result == nil || !result.Matched {
				continue
			}
			owner.values["latitude"] = fmt.Sprintf("%g", result.Latitude)
			owner.values["longitude"] = fmt.Sprintf("%g", result.Longitude)
			summary.Geocoded++
		}
	}

	ownerRows := make([]map[string]string, 0, len(ownerOrder))
	for _, key := range ownerOrder {
		ownerRows = append(ownerRows, owners[key].values)
	}

	if err := imp.replaceTable(ctx, imp.tables.Owners.Sheet, ownerRows, sheet.OwnerSynonyms); err != nil {
		return summary, err
	}
	if err := imp.replaceTable(ctx, imp.tables.Inventory.Sheet, vehicles, sheet.InventorySynonyms); err != nil {
		return summary, err
	}

	summary.Owners = len(ownerRows)
	summary.Vehicles = len(vehicles)
	zap.L().Info("import complete",
		zap.String("batch_id", batchID),
		zap.Int("owners", summary.Owners),
		zap.Int("vehicles", summary.Vehicles),
		zap.Int("geocoded", summary.Geocoded),
	)
	return summary, nil
}

// replaceTable clears the data rows of a table and appends the new rows
// laid out against its live header.
func (imp *Importer) replaceTable(ctx context.Context, sheetName string, rows []map[string]string, synonyms map[string][]string) error {
	header, err := imp.store.HeaderRow(ctx, sheetName)
	if err != nil {
		return eris.Wrapf(err, "importer: header of %q", sheetName)
	}
	if len(header) == 0 {
		return eris.Errorf("importer: tab %q has no header row", sheetName)
	}

	existing, err := imp.store.FetchTable(ctx, sheetName, "")
	if err != nil {
		return eris.Wrapf(err, "importer: fetch %q", sheetName)
	}
	if len(existing) > 1 {
		indices := make([]int, 0, len(existing)-1)
		for i := len(existing); i >= 2; i-- {
			indices = append(indices, i)
		}
		if err := imp.store.DeleteRows(ctx, sheetName, indices); err != nil {
			return eris.Wrapf(err, "importer: clear %q", sheetName)
		}
	}

	built := make([][]string, 0, len(rows))
	for _, values := range rows {
		built = append(built, sheet.BuildRow(header, values, synonyms))
	}
	if len(built) == 0 {
		return nil
	}
	if err := imp.store.AppendRows(ctx, sheetName, built); err != nil {
		return eris.Wrapf(err, "importer: append %q", sheetName)
	}
	return nil
}
