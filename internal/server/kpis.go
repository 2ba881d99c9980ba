package server

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ChrisDrivar/drivar-dashboard/internal/config"
	"github.com/ChrisDrivar/drivar-dashboard/internal/kpi"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
	"github.com/ChrisDrivar/drivar-dashboard/internal/sheet"
)

// tableSet holds the raw matrices of the five dashboard tables.
type tableSet struct {
	inventory [][]string
	inquiries [][]string
	owners    [][]string
	missing   [][]string
	leads     [][]string
}

// handleKpis serves the aggregated dashboard payload for the requested
// filter. The five tables are fetched concurrently; a failure on any of
// them fails the whole request, the UI retries via its polling loop.
func (s *Server) handleKpis(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)

	tables, err := s.fetchTables(r.Context())
	if err != nil {
		zap.L().Error("kpis: fetch tables", zap.Error(err))
		respondError(w, http.StatusBadGateway, "Daten konnten nicht geladen werden.")
		return
	}

	payload := kpi.Build(
		sheet.MapInventory(tables.inventory),
		sheet.MapInquiries(tables.inquiries),
		sheet.MapOwners(tables.owners),
		sheet.MapMissingInventory(tables.missing),
		sheet.MapPendingLeads(tables.leads),
		filter,
	)

	w.Header().Set("Cache-Control", "s-maxage=300, stale-while-revalidate=60")
	respondJSON(w, http.StatusOK, payload)
}

// fetchTables loads all five tables concurrently.
func (s *Server) fetchTables(ctx context.Context) (tableSet, error) {
	var tables tableSet

	eg, egCtx := errgroup.WithContext(ctx)
	fetch := func(dst *[][]string, table config.TableConfig) func() error {
		return func() error {
			rows, err := s.source.FetchTable(egCtx, table.Sheet, table.Range)
			if err != nil {
				return err
			}
			*dst = rows
			return nil
		}
	}

	eg.Go(fetch(&tables.inventory, s.tables.Inventory))
	eg.Go(fetch(&tables.inquiries, s.tables.Inquiries))
	eg.Go(fetch(&tables.owners, s.tables.Owners))
	eg.Go(fetch(&tables.missing, s.tables.Missing))
	eg.Go(fetch(&tables.leads, s.tables.Leads))

	if err := eg.Wait(); err != nil {
		return tableSet{}, err
	}
	return tables, nil
}

// parseFilter reads the filter dimensions off the query string. Malformed
// numeric parameters are treated as absent.
func parseFilter(r *http.Request) model.FilterSpec {
	q := r.URL.Query()

	filter := model.FilterSpec{
		Country:      q.Get("country"),
		Region:       q.Get("region"),
		City:         q.Get("city"),
		VehicleType:  q.Get("vehicleType"),
		Manufacturer: q.Get("manufacturer"),
	}

	if radius, err := strconv.ParseFloat(q.Get("radius"), 64); err == nil {
		filter.RadiusKm = radius
	}

	lat, latErr := strconv.ParseFloat(q.Get("customLat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("customLng"), 64)
	if latErr == nil && lngErr == nil {
		filter.CustomLocation = &model.CustomLocation{
			Latitude:  lat,
			Longitude: lng,
			Label:     q.Get("customLabel"),
		}
	}

	return filter
}
