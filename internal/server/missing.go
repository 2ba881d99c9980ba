package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ChrisDrivar/drivar-dashboard/internal/sheet"
)

// handleCreateMissingInventory records a demand gap: a vehicle type that is
// requested in a city but not covered by the fleet.
func (s *Server) handleCreateMissingInventory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req struct {
		City        string          `json:"city"`
		Region      string          `json:"region"`
		Country     string          `json:"country"`
		VehicleType string          `json:"vehicleType"`
		Count       json.RawMessage `json:"count"`
		Priority    string          `json:"priority"`
		Comment     string          `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Ungültige Anfrage")
		return
	}

	city := strings.TrimSpace(req.City)
	vehicleType := strings.TrimSpace(req.VehicleType)
	count := parseCountValue(req.Count)
	if city == "" || vehicleType == "" || count <= 0 {
		respondError(w, http.StatusBadRequest,
			"Bitte Stadt, Fahrzeugtyp und eine positive Anzahl angeben.")
		return
	}

	header, err := s.store.HeaderRow(r.Context(), s.tables.Missing.Sheet)
	if err != nil || len(header) == 0 {
		respondError(w, http.StatusInternalServerError,
			`Tab "missing inventory" hat keine Kopfzeile. Bitte Sheet prüfen.`)
		return
	}

	row := sheet.BuildRow(header, map[string]string{
		"stadt":          city,
		"region":         strings.TrimSpace(req.Region),
		"land":           strings.TrimSpace(req.Country),
		"fahrzeugtyp":    vehicleType,
		"anzahl_fehlend": strconv.Itoa(count),
		"prio":           strings.TrimSpace(req.Priority),
		"kommentar":      strings.TrimSpace(req.Comment),
	}, sheet.MissingInventorySynonyms)

	if err := s.store.AppendRows(r.Context(), s.tables.Missing.Sheet, [][]string{row}); err != nil {
		zap.L().Error("missing-inventory: append", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Vorgang fehlgeschlagen")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleDeleteMissingInventory removes a demand-gap row by its sheet row
// index.
func (s *Server) handleDeleteMissingInventory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req struct {
		RowIndex int `json:"rowIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RowIndex < 2 {
		respondError(w, http.StatusBadRequest, "Ungültiger Zeilenindex")
		return
	}

	if err := s.store.DeleteRows(r.Context(), s.tables.Missing.Sheet, []int{req.RowIndex}); err != nil {
		zap.L().Error("missing-inventory: delete", zap.Int("row", req.RowIndex), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Vorgang fehlgeschlagen")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// parseCountValue accepts the count either as JSON number or as string.
func parseCountValue(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return int(asNumber)
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(asString), 64); err == nil {
			return int(n)
		}
	}
	return 0
}
