package main

import (
	"go.uber.org/zap"

	"github.com/ChrisDrivar/drivar-dashboard/pkg/geocode"
	"github.com/ChrisDrivar/drivar-dashboard/pkg/sheets"
)

// newTableBackend wires the configured datastore: a local xlsx workbook
// when one is set, otherwise the hosted spreadsheet. The store return is
// nil for the hosted backend, which is read-only.
func newTableBackend() (sheets.TableSource, sheets.TableStore) {
	if cfg.Sheets.Workbook != "" {
		store := sheets.NewWorkbookStore(cfg.Sheets.Workbook)
		return store, store
	}
	return sheets.NewGVizClient(cfg.Sheets.DocumentID, sheets.WithBaseURL(cfg.Sheets.BaseURL)), nil
}

// newGeocoder builds the live geocoder with its persistent cache. The
// returned cleanup closes the cache and is safe to call always.
func newGeocoder() (geocode.Client, func()) {
	opts := []geocode.Option{
		geocode.WithBaseURL(cfg.Geocoder.BaseURL),
		geocode.WithUserAgent(cfg.Geocoder.UserAgent),
		geocode.WithRateLimit(cfg.Geocoder.RatePerSec),
	}

	cleanup := func() {}
	if cfg.Geocoder.CachePath != "" {
		cache, err := geocode.OpenCache(cfg.Geocoder.CachePath)
		if err != nil {
			zap.L().Warn("geocode cache unavailable",
				zap.String("path", cfg.Geocoder.CachePath),
				zap.Error(err),
			)
		} else {
			opts = append(opts, geocode.WithCache(cache))
			cleanup = func() { _ = cache.Close() }
		}
	}

	return geocode.NewClient(opts...), cleanup
}
