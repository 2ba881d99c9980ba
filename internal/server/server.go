// Package server exposes the dashboard HTTP API: the aggregated KPI read
// route plus the write routes the UI uses to manage partners, demand gaps
// and pending leads.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChrisDrivar/drivar-dashboard/internal/config"
	"github.com/ChrisDrivar/drivar-dashboard/pkg/geocode"
	"github.com/ChrisDrivar/drivar-dashboard/pkg/sheets"
)

// Server holds the collaborators of the HTTP API. Reads go through source;
// writes need a store, which may be absent when serving from a read-only
// backend, in which case the write routes answer 503.
type Server struct {
	source   sheets.TableSource
	store    sheets.TableStore
	geocoder geocode.Client
	tables   config.SheetsConfig
}

// New creates a Server. store and geocoder may be nil; the routes that
// need them report the missing capability instead of panicking.
func New(source sheets.TableSource, store sheets.TableStore, geocoder geocode.Client, tables config.SheetsConfig) *Server {
	return &Server{source: source, store: store, geocoder: geocoder, tables: tables}
}

// Router builds the chi router with CORS for the browser UI.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/kpis", s.handleKpis)
		r.Post("/partners", s.handleCreatePartner)
		r.Delete("/partners", s.handleDeletePartner)
		r.Post("/missing-inventory", s.handleCreateMissingInventory)
		r.Delete("/missing-inventory", s.handleDeleteMissingInventory)
		r.Post("/listing-requests", s.handleCreateLead)
		r.Patch("/listing-requests", s.handleUpdateLead)
		r.Post("/geocode", s.handleGeocode)
	})

	return r
}

// requireStore guards write routes against a read-only backend.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Schreibzugriff ist nicht konfiguriert.")
		return false
	}
	return true
}

// requestLogger tags each request with an id and logs method, path and
// duration on completion.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		zap.L().Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
