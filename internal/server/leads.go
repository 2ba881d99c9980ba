package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
	"github.com/ChrisDrivar/drivar-dashboard/internal/sheet"
)

type leadInput struct {
	Date                   string `json:"date"`
	Channel                string `json:"channel"`
	Region                 string `json:"region"`
	City                   string `json:"city"`
	Country                string `json:"country"`
	Landlord               string `json:"landlord"`
	Street                 string `json:"street"`
	PostalCode             string `json:"postalCode"`
	Phone                  string `json:"phone"`
	Email                  string `json:"email"`
	Website                string `json:"website"`
	InternationalCustomers string `json:"internationalCustomers"`
	Commission             string `json:"commission"`
	Ranking                string `json:"ranking"`
	ExperienceYears        string `json:"experienceYears"`
	Comment                string `json:"comment"`
	OwnerNotes             string `json:"ownerNotes"`
}

type leadVehicle struct {
	VehicleLabel string `json:"vehicleLabel"`
	Manufacturer string `json:"manufacturer"`
	VehicleType  string `json:"vehicleType"`
	Comment      string `json:"comment"`
}

// handleCreateLead records a pending lead, one row per vehicle. The body
// carries either a lead object plus a vehicles array, or a flat single
// vehicle form.
func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req struct {
		Lead         *leadInput    `json:"lead"`
		Vehicles     []leadVehicle `json:"vehicles"`
		Landlord     string        `json:"landlord"`
		City         string        `json:"city"`
		Country      string        `json:"country"`
		Region       string        `json:"region"`
		Channel      string        `json:"channel"`
		Date         string        `json:"date"`
		VehicleLabel string        `json:"vehicleLabel"`
		Manufacturer string        `json:"manufacturer"`
		VehicleType  string        `json:"vehicleType"`
		Comment      string        `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Ungültige Anfrage")
		return
	}

	lead := req.Lead
	if lead == nil {
		lead = &leadInput{
			Date: req.Date, Channel: req.Channel, Region: req.Region,
			City: req.City, Country: req.Country, Landlord: req.Landlord,
			Comment: req.Comment,
		}
	}
	vehicles := req.Vehicles
	if len(vehicles) == 0 && (req.VehicleType != "" || req.VehicleLabel != "") {
		vehicles = []leadVehicle{{
			VehicleLabel: req.VehicleLabel,
			Manufacturer: req.Manufacturer,
			VehicleType:  req.VehicleType,
			Comment:      req.Comment,
		}}
	}

	landlord := strings.TrimSpace(lead.Landlord)
	city := strings.TrimSpace(lead.City)
	if city == "" {
		city = strings.TrimSpace(req.City)
	}
	prepared := prepareLeadVehicles(vehicles)
	if landlord == "" || city == "" || len(prepared) == 0 {
		respondError(w, http.StatusBadRequest,
			"Bitte Vermieter, Stadt und mindestens ein Fahrzeug angeben.")
		return
	}

	header, err := s.store.HeaderRow(r.Context(), s.tables.Leads.Sheet)
	if err != nil || len(header) == 0 {
		respondError(w, http.StatusInternalServerError,
			`Tab "listing_requests" hat keine Kopfzeile. Bitte Sheet prüfen.`)
		return
	}

	date := strings.TrimSpace(lead.Date)
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	rows := make([][]string, 0, len(prepared))
	for _, vehicle := range prepared {
		comment := vehicle.Comment
		if comment == "" {
			comment = strings.TrimSpace(lead.Comment)
		}
		rows = append(rows, sheet.BuildRow(header, map[string]string{
			"datum":          date,
			"kanal":          strings.TrimSpace(lead.Channel),
			"region":         strings.TrimSpace(lead.Region),
			"vermieter_name": landlord,
			"fahrzeug_label": vehicle.VehicleLabel,
			"manufacturer":   vehicle.Manufacturer,
			"fahrzeugtyp":    vehicle.VehicleType,
			"stadt":          city,
			"land":           strings.TrimSpace(lead.Country),
			"kommentar":      comment,
		}, sheet.LeadSynonyms))
	}

	if err := s.store.AppendRows(r.Context(), s.tables.Leads.Sheet, rows); err != nil {
		zap.L().Error("leads: append", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Vorgang fehlgeschlagen")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleUpdateLead rewrites a lead row in place after an edit or a status
// change. A move to "Vertrag unterschrieben" creates the partner (vehicle
// and owner rows) before the lead row is updated, so the lead card also
// disappears once the owner shows up in inventory.
func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req struct {
		RowIndex      int           `json:"rowIndex"`
		Status        string        `json:"status"`
		CreatePartner bool          `json:"createPartner"`
		Lead          leadInput     `json:"lead"`
		Vehicles      []leadVehicle `json:"vehicles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Ungültige Anfrage")
		return
	}
	if req.RowIndex < 2 {
		respondError(w, http.StatusBadRequest, "Ungültiger Zeilenindex")
		return
	}
	status := model.LeadStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "Ungültiger Status")
		return
	}

	landlord := strings.TrimSpace(req.Lead.Landlord)
	if landlord == "" {
		respondError(w, http.StatusBadRequest, "Vermietername fehlt")
		return
	}

	if req.CreatePartner {
		owner := trimOwner(partnerOwner{
			Name:                   landlord,
			Country:                req.Lead.Country,
			Region:                 req.Lead.Region,
			City:                   req.Lead.City,
			Street:                 req.Lead.Street,
			PostalCode:             req.Lead.PostalCode,
			Phone:                  req.Lead.Phone,
			Email:                  req.Lead.Email,
			Website:                req.Lead.Website,
			InternationalCustomers: req.Lead.InternationalCustomers,
			Commission:             req.Lead.Commission,
			Ranking:                req.Lead.Ranking,
			ExperienceYears:        req.Lead.ExperienceYears,
			Notes:                  req.Lead.OwnerNotes,
		})
		vehicles := make([]partnerVehicle, 0, len(req.Vehicles))
		for _, vehicle := range req.Vehicles {
			vehicles = append(vehicles, partnerVehicle{
				Label:        vehicle.VehicleLabel,
				VehicleType:  vehicle.VehicleType,
				Manufacturer: vehicle.Manufacturer,
				Notes:        vehicle.Comment,
			})
		}
		vehicles = prepareVehicles(vehicles)
		if owner.Country == "" || owner.City == "" || len(vehicles) == 0 {
			respondError(w, http.StatusBadRequest,
				"Bitte Land, Stadt und mindestens ein Fahrzeug für die Übernahme angeben.")
			return
		}
		coords := s.resolveCoordinates(r.Context(), owner)
		if err := s.appendPartner(r.Context(), owner, vehicles, coords); err != nil {
			zap.L().Error("leads: create partner from lead", zap.String("owner", landlord), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Vermieter konnte nicht angelegt werden.")
			return
		}
	}

	header, err := s.store.HeaderRow(r.Context(), s.tables.Leads.Sheet)
	if err != nil || len(header) == 0 {
		respondError(w, http.StatusInternalServerError,
			`Tab "listing_requests" hat keine Kopfzeile. Bitte Sheet prüfen.`)
		return
	}

	var vehicle leadVehicle
	if len(req.Vehicles) > 0 {
		vehicle = req.Vehicles[0]
	}
	row := sheet.BuildRow(header, map[string]string{
		"datum":                 strings.TrimSpace(req.Lead.Date),
		"kanal":                 strings.TrimSpace(req.Lead.Channel),
		"region":                strings.TrimSpace(req.Lead.Region),
		"vermieter_name":        landlord,
		"fahrzeug_label":        strings.TrimSpace(vehicle.VehicleLabel),
		"manufacturer":          strings.TrimSpace(vehicle.Manufacturer),
		"fahrzeugtyp":           strings.TrimSpace(vehicle.VehicleType),
		"stadt":                 strings.TrimSpace(req.Lead.City),
		"land":                  strings.TrimSpace(req.Lead.Country),
		"kommentar":             strings.TrimSpace(req.Lead.Comment),
		"strasse":               strings.TrimSpace(req.Lead.Street),
		"plz":                   strings.TrimSpace(req.Lead.PostalCode),
		"telefon":               strings.TrimSpace(req.Lead.Phone),
		"email":                 strings.TrimSpace(req.Lead.Email),
		"domain":                strings.TrimSpace(req.Lead.Website),
		"internationale_kunden": strings.TrimSpace(req.Lead.InternationalCustomers),
		"provision":             strings.TrimSpace(req.Lead.Commission),
		"ranking":               strings.TrimSpace(req.Lead.Ranking),
		"erfahrung_jahre":       strings.TrimSpace(req.Lead.ExperienceYears),
		"notizen":               strings.TrimSpace(req.Lead.OwnerNotes),
		"status":                string(status),
		"status_updated_at":     time.Now().UTC().Format("2006-01-02"),
	}, sheet.LeadSynonyms)

	if err := s.store.UpdateRow(r.Context(), s.tables.Leads.Sheet, req.RowIndex, row); err != nil {
		zap.L().Error("leads: update row", zap.Int("row", req.RowIndex), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Status konnte nicht aktualisiert werden.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// prepareLeadVehicles keeps vehicles that carry at least a type or a label.
func prepareLeadVehicles(vehicles []leadVehicle) []leadVehicle {
	var prepared []leadVehicle
	for _, vehicle := range vehicles {
		vehicle.VehicleLabel = strings.TrimSpace(vehicle.VehicleLabel)
		vehicle.Manufacturer = strings.TrimSpace(vehicle.Manufacturer)
		vehicle.VehicleType = strings.TrimSpace(vehicle.VehicleType)
		vehicle.Comment = strings.TrimSpace(vehicle.Comment)
		if vehicle.VehicleType == "" && vehicle.VehicleLabel == "" {
			continue
		}
		prepared = append(prepared, vehicle)
	}
	return prepared
}
