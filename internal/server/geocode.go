package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ChrisDrivar/drivar-dashboard/pkg/geocode"
)

// handleGeocode resolves a city for the custom-location radius picker.
func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	if s.geocoder == nil {
		respondError(w, http.StatusServiceUnavailable, "Geocoding ist nicht konfiguriert.")
		return
	}

	var req struct {
		Country    string `json:"country"`
		City       string `json:"city"`
		PostalCode string `json:"postalCode"`
		Region     string `json:"region"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Ungültige Anfrage")
		return
	}

	country := strings.TrimSpace(req.Country)
	city := strings.TrimSpace(req.City)
	postalCode := strings.TrimSpace(req.PostalCode)
	region := strings.TrimSpace(req.Region)
	if country == "" || city == "" {
		respondError(w, http.StatusBadRequest, "Bitte Land und Stadt angeben.")
		return
	}

	result, err := s.geocoder.Geocode(r.Context(), geocode.AddressInput{
		Street:  postalCode,
		City:    city,
		Region:  region,
		Country: country,
	})
	if err != nil {
		zap.L().Error("geocode: resolve", zap.String("city", city), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Geocoding fehlgeschlagen")
		return
	}
	if result == nil || !result.Matched {
		respondError(w, http.StatusNotFound, "Ort wurde nicht gefunden.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"latitude":   result.Latitude,
		"longitude":  result.Longitude,
		"label":      result.DisplayName,
		"city":       city,
		"postalCode": postalCode,
		"country":    country,
		"region":     region,
	})
}
