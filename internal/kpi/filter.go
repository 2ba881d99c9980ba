package kpi

import (
	"math"

	"github.com/ChrisDrivar/drivar-dashboard/internal/geo"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
)

// matches is the equality test for one filter dimension: an empty filter
// value matches everything, otherwise case- and diacritic-insensitive
// comparison.
func matches(source, target string) bool {
	if target == "" {
		return true
	}
	return geo.Normalize(source) == geo.Normalize(target)
}

// itemCoordinates resolves an entry's position: explicit coordinates when
// both are present, else the gazetteer keyed by the entry's city against its
// own country and the fallback country list.
func itemCoordinates(item model.InventoryEntry, fallbackCountries []string) (geo.Coordinate, bool) {
	if item.Latitude != nil && item.Longitude != nil {
		return geo.Coordinate{Latitude: *item.Latitude, Longitude: *item.Longitude}, true
	}
	if item.City != "" {
		candidates := append([]string{item.Country}, fallbackCountries...)
		return geo.ResolveCityFallback(item.City, candidates)
	}
	return geo.Coordinate{}, false
}

// resolveRadiusCenter resolves the anchor point of an active radius filter:
// an explicit custom location wins; otherwise, with a city filter active,
// the first inventory entry matching the selected country+city that has
// resolvable coordinates; last the gazetteer for the city itself. Returns
// false when no anchor resolves; the caller then treats the radius filter
// as unset so a missing anchor never empties the result.
func resolveRadiusCenter(inventory []model.InventoryEntry, filter model.FilterSpec, fallbackCountries []string) (geo.Coordinate, bool) {
	if filter.RadiusKm <= 0 {
		return geo.Coordinate{}, false
	}
	if filter.CustomLocation != nil {
		return geo.Coordinate{
			Latitude:  filter.CustomLocation.Latitude,
			Longitude: filter.CustomLocation.Longitude,
		}, true
	}
	if filter.City == "" {
		return geo.Coordinate{}, false
	}

	var candidateCountry string
	for _, item := range inventory {
		if !matches(item.City, filter.City) {
			continue
		}
		if filter.Country != "" && !matches(item.Country, filter.Country) {
			continue
		}
		if c, ok := itemCoordinates(item, fallbackCountries); ok {
			return c, true
		}
		if candidateCountry == "" {
			candidateCountry = item.Country
		}
	}

	candidates := append([]string{candidateCountry}, fallbackCountries...)
	return geo.ResolveCityFallback(filter.City, candidates)
}

// filterInventory reduces the reconciled inventory to the requested view.
// The plain city-equality test is skipped while a radius filter with a
// resolved anchor is active; the radius test supersedes it.
func filterInventory(inventory []model.InventoryEntry, filter model.FilterSpec, center geo.Coordinate, radiusActive bool, fallbackCountries []string) []model.InventoryEntry {
	out := make([]model.InventoryEntry, 0, len(inventory))
	for _, item := range inventory {
		if !matches(item.Country, filter.Country) {
			continue
		}
		if !matches(item.Region, filter.Region) {
			continue
		}
		if !matches(item.VehicleType, filter.VehicleType) {
			continue
		}
		if !matches(item.Manufacturer, filter.Manufacturer) {
			continue
		}
		if filter.City != "" && !radiusActive && !matches(item.City, filter.City) {
			continue
		}
		out = append(out, item)
	}

	if !radiusActive {
		return out
	}

	within := make([]model.InventoryEntry, 0, len(out))
	for _, item := range out {
		coords, ok := itemCoordinates(item, fallbackCountries)
		if !ok {
			continue
		}
		distance := geo.DistanceKm(coords, center)
		if math.IsNaN(distance) || distance > filter.RadiusKm {
			continue
		}
		within = append(within, item)
	}
	return within
}

// filterInquiries applies the vehicle-type filter and, while no radius
// anchor is active, the city filter. Country, region and manufacturer do
// not apply to inquiry rows; they carry neither.
func filterInquiries(inquiries []model.InquiryEntry, filter model.FilterSpec, radiusActive bool) []model.InquiryEntry {
	out := make([]model.InquiryEntry, 0, len(inquiries))
	for _, item := range inquiries {
		if !matches(item.VehicleType, filter.VehicleType) {
			continue
		}
		if filter.City != "" && !radiusActive && !matches(item.City, filter.City) {
			continue
		}
		out = append(out, item)
	}
	return out
}
