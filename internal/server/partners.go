package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ChrisDrivar/drivar-dashboard/internal/sheet"
	"github.com/ChrisDrivar/drivar-dashboard/pkg/geocode"
)

type partnerOwner struct {
	Name                   string `json:"name"`
	Country                string `json:"country"`
	Region                 string `json:"region"`
	City                   string `json:"city"`
	Street                 string `json:"street"`
	PostalCode             string `json:"postalCode"`
	Address                string `json:"address"`
	Phone                  string `json:"phone"`
	Email                  string `json:"email"`
	Website                string `json:"website"`
	InternationalCustomers string `json:"internationalCustomers"`
	Commission             string `json:"commission"`
	Ranking                string `json:"ranking"`
	ExperienceYears        string `json:"experienceYears"`
	Notes                  string `json:"notes"`
	LastChangeISO          string `json:"lastChangeIso"`
}

type partnerVehicle struct {
	Label        string `json:"label"`
	VehicleType  string `json:"vehicleType"`
	Manufacturer string `json:"manufacturer"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

type coordinatePayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// handleCreatePartner appends inventory rows for a new partner's vehicles
// and an owner row when the name is not yet known. Coordinates come from
// the live geocoder with the offline gazetteer as backstop; a partner
// without resolvable coordinates is still created.
func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req struct {
		Owner    partnerOwner     `json:"owner"`
		Vehicles []partnerVehicle `json:"vehicles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Ungültige Anfrage")
		return
	}

	owner := trimOwner(req.Owner)
	vehicles := prepareVehicles(req.Vehicles)
	if owner.Name == "" || owner.Country == "" || owner.City == "" || len(vehicles) == 0 {
		respondError(w, http.StatusBadRequest,
			"Bitte Vermietername, Land, Stadt und mindestens ein Fahrzeug ausfüllen.")
		return
	}

	coords := s.resolveCoordinates(r.Context(), owner)
	if err := s.appendPartner(r.Context(), owner, vehicles, coords); err != nil {
		zap.L().Error("partners: create", zap.String("owner", owner.Name), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Vorgang fehlgeschlagen")
		return
	}

	if coords == nil {
		zap.L().Warn("partners: geocoding failed, creating without coordinates",
			zap.String("owner", owner.Name),
			zap.String("city", owner.City),
			zap.String("country", owner.Country),
		)
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "coordinates": coords})
}

// handleDeletePartner removes every inventory and owner row whose owner
// name matches the request, case-insensitively.
func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req struct {
		OwnerName string `json:"ownerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.OwnerName) == "" {
		respondError(w, http.StatusBadRequest, "Vermietername fehlt")
		return
	}
	target := strings.ToLower(strings.TrimSpace(req.OwnerName))

	inventoryRows, err := s.source.FetchTable(r.Context(), s.tables.Inventory.Sheet, s.tables.Inventory.Range)
	if err != nil || len(inventoryRows) == 0 {
		respondError(w, http.StatusInternalServerError, "Inventar-Tab konnte nicht geladen werden.")
		return
	}
	ownerRows, err := s.source.FetchTable(r.Context(), s.tables.Owners.Sheet, s.tables.Owners.Range)
	if err != nil || len(ownerRows) == 0 {
		respondError(w, http.StatusInternalServerError, "Vermieter-Tab konnte nicht geladen werden.")
		return
	}

	inventoryCol := sheet.ResolveColumn(inventoryRows[0], "vermieter_name", "vermieter", "partner", "name")
	ownerCol := sheet.ResolveColumn(ownerRows[0], "vermieter_name", "vermieter", "name", "partner")
	if inventoryCol == -1 || ownerCol == -1 {
		respondError(w, http.StatusInternalServerError, `Spalte "Vermieter" nicht gefunden.`)
		return
	}

	inventoryIndices := matchingRowIndices(inventoryRows[1:], inventoryCol, target)
	ownerIndices := matchingRowIndices(ownerRows[1:], ownerCol, target)
	if len(inventoryIndices) == 0 && len(ownerIndices) == 0 {
		respondError(w, http.StatusNotFound, "Kein passender Vermieter gefunden.")
		return
	}

	if err := s.store.DeleteRows(r.Context(), s.tables.Inventory.Sheet, inventoryIndices); err != nil {
		zap.L().Error("partners: delete inventory rows", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Vorgang fehlgeschlagen")
		return
	}
	if err := s.store.DeleteRows(r.Context(), s.tables.Owners.Sheet, ownerIndices); err != nil {
		zap.L().Error("partners: delete owner rows", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Vorgang fehlgeschlagen")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"removedInventoryRows": len(inventoryIndices),
		"removedOwnerRows":     len(ownerIndices),
	})
}

// resolveCoordinates geocodes the partner address, nil when unresolvable
// or no geocoder is configured.
func (s *Server) resolveCoordinates(ctx context.Context, owner partnerOwner) *coordinatePayload {
	if s.geocoder == nil {
		return nil
	}

	street := strings.TrimSpace(strings.Join(nonEmpty(owner.Street, owner.PostalCode), " "))
	if street == "" {
		street = owner.Address
	}
	result, err := s.geocoder.Geocode(ctx, geocode.AddressInput{
		Street:  street,
		City:    owner.City,
		Region:  owner.Region,
		Country: owner.Country,
	})
	if err != nil {
		zap.L().Warn("partners: geocode", zap.String("city", owner.City), zap.Error(err))
		return nil
	}
	if result == nil || !result.Matched {
		return nil
	}
	return &coordinatePayload{
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
		Label:     result.DisplayName,
	}
}

// appendPartner writes the vehicle rows and, for an unknown owner name,
// the owner row, each laid out against the live sheet header.
func (s *Server) appendPartner(ctx context.Context, owner partnerOwner, vehicles []partnerVehicle, coords *coordinatePayload) error {
	header, err := s.store.HeaderRow(ctx, s.tables.Inventory.Sheet)
	if err != nil {
		return eris.Wrap(err, "server: inventory header")
	}
	if len(header) == 0 {
		return eris.New("server: inventory sheet has no header row")
	}

	address := owner.Address
	if address == "" {
		address = strings.Join(nonEmpty(owner.Street, owner.PostalCode, owner.City), ", ")
	}
	today := time.Now().UTC().Format("2006-01-02")

	var latitude, longitude string
	if coords != nil {
		latitude = strconv.FormatFloat(coords.Latitude, 'f', -1, 64)
		longitude = strconv.FormatFloat(coords.Longitude, 'f', -1, 64)
	}

	inventoryRows := make([][]string, 0, len(vehicles))
	for _, vehicle := range vehicles {
		inventoryRows = append(inventoryRows, sheet.BuildRow(header, map[string]string{
			"vermieter_name":   owner.Name,
			"fahrzeug_label":   vehicle.Label,
			"manufacturer":     vehicle.Manufacturer,
			"fahrzeugtyp":      vehicle.VehicleType,
			"stadt":            owner.City,
			"region":           owner.Region,
			"standort":         address,
			"land":             owner.Country,
			"status":           vehicle.Status,
			"notizen":          vehicle.Notes,
			"latitude":         latitude,
			"longitude":        longitude,
			"plz":              owner.PostalCode,
			"strasse":          owner.Street,
			"listed_at":        today,
			"letzte_aenderung": today,
		}, sheet.InventorySynonyms))
	}
	if err := s.store.AppendRows(ctx, s.tables.Inventory.Sheet, inventoryRows); err != nil {
		return eris.Wrap(err, "server: append inventory rows")
	}

	ownerRows, err := s.source.FetchTable(ctx, s.tables.Owners.Sheet, s.tables.Owners.Range)
	if err != nil {
		return eris.Wrap(err, "server: fetch owners")
	}
	target := strings.ToLower(strings.TrimSpace(owner.Name))
	for _, existing := range sheet.MapOwners(ownerRows) {
		if strings.ToLower(strings.TrimSpace(existing.OwnerName)) == target {
			return nil
		}
	}

	ownersHeader, err := s.store.HeaderRow(ctx, s.tables.Owners.Sheet)
	if err != nil {
		return eris.Wrap(err, "server: owners header")
	}
	if len(ownersHeader) == 0 {
		return nil
	}

	lastChange := today
	if owner.LastChangeISO != "" {
		lastChange = strings.SplitN(owner.LastChangeISO, "T", 2)[0]
	}
	ownerRow := sheet.BuildRow(ownersHeader, map[string]string{
		"vermieter_name":        owner.Name,
		"land":                  owner.Country,
		"region":                owner.Region,
		"stadt":                 owner.City,
		"adresse":               address,
		"telefon":               owner.Phone,
		"email":                 owner.Email,
		"domain":                owner.Website,
		"plz":                   owner.PostalCode,
		"strasse":               owner.Street,
		"internationale_kunden": owner.InternationalCustomers,
		"provision":             owner.Commission,
		"ranking":               owner.Ranking,
		"erfahrung_jahre":       owner.ExperienceYears,
		"notizen":               owner.Notes,
		"letzte_aenderung":      lastChange,
	}, sheet.OwnerSynonyms)
	if err := s.store.AppendRows(ctx, s.tables.Owners.Sheet, [][]string{ownerRow}); err != nil {
		return eris.Wrap(err, "server: append owner row")
	}
	return nil
}

func trimOwner(owner partnerOwner) partnerOwner {
	owner.Name = strings.TrimSpace(owner.Name)
	owner.Country = strings.TrimSpace(owner.Country)
	owner.Region = strings.TrimSpace(owner.Region)
	owner.City = strings.TrimSpace(owner.City)
	owner.Street = strings.TrimSpace(owner.Street)
	owner.PostalCode = strings.TrimSpace(owner.PostalCode)
	owner.Address = strings.TrimSpace(owner.Address)
	owner.Phone = strings.TrimSpace(owner.Phone)
	owner.Email = strings.TrimSpace(owner.Email)
	owner.Website = strings.TrimSpace(owner.Website)
	owner.InternationalCustomers = strings.TrimSpace(owner.InternationalCustomers)
	owner.Commission = strings.TrimSpace(owner.Commission)
	owner.Ranking = strings.TrimSpace(owner.Ranking)
	owner.ExperienceYears = strings.TrimSpace(owner.ExperienceYears)
	owner.Notes = strings.TrimSpace(owner.Notes)
	return owner
}

// prepareVehicles trims input vehicles, defaults the status to "aktiv" and
// drops entries without a label.
func prepareVehicles(vehicles []partnerVehicle) []partnerVehicle {
	var prepared []partnerVehicle
	for _, vehicle := range vehicles {
		vehicle.Label = strings.TrimSpace(vehicle.Label)
		if vehicle.Label == "" {
			continue
		}
		vehicle.VehicleType = strings.TrimSpace(vehicle.VehicleType)
		vehicle.Manufacturer = strings.TrimSpace(vehicle.Manufacturer)
		vehicle.Status = strings.TrimSpace(vehicle.Status)
		if vehicle.Status == "" {
			vehicle.Status = "aktiv"
		}
		vehicle.Notes = strings.TrimSpace(vehicle.Notes)
		prepared = append(prepared, vehicle)
	}
	return prepared
}

// matchingRowIndices returns 1-based sheet row indices (header row is 1) of
// data rows whose cell matches the lowercased target, descending so deletes
// do not shift later indices.
func matchingRowIndices(rows [][]string, column int, target string) []int {
	var indices []int
	for i, row := range rows {
		var cell string
		if column < len(row) {
			cell = row[column]
		}
		if strings.ToLower(strings.TrimSpace(cell)) == target {
			indices = append(indices, i+2)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	return indices
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
