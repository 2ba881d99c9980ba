package kpi

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ChrisDrivar/drivar-dashboard/internal/geo"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
)

// unknownBucket labels rows with no country/region/type in breakdowns.
const unknownBucket = "Unbekannt"

// onboardingWindowDays is the exclusive upper bound of the recency window:
// vehicles listed [0, 31) calendar days ago count as onboarding.
const onboardingWindowDays = 31

// countryBreakdown groups the radius-filtered inventory by country label:
// vehicle counts, distinct owner counts, per-region vehicle counts and the
// vehicles-per-owner average (2 decimals, 0 without owners). The averages
// list is ordered by first appearance so the payload stays deterministic.
func countryBreakdown(inventory []model.InventoryEntry) (model.ByCountry, int) {
	vehicles := make(map[string]int)
	vehiclesByRegion := make(map[string]map[string]int)
	ownersByCountry := make(map[string]map[string]struct{})
	allOwners := make(map[string]struct{})
	var countryOrder []string

	for _, item := range inventory {
		country := item.Country
		if country == "" {
			country = unknownBucket
		}
		region := item.Region
		if region == "" {
			region = unknownBucket
		}
		key := ownerKey(item)

		if _, seen := vehicles[country]; !seen {
			countryOrder = append(countryOrder, country)
		}
		vehicles[country]++

		if vehiclesByRegion[country] == nil {
			vehiclesByRegion[country] = make(map[string]int)
		}
		vehiclesByRegion[country][region]++

		if ownersByCountry[country] == nil {
			ownersByCountry[country] = make(map[string]struct{})
		}
		ownersByCountry[country][key] = struct{}{}
		allOwners[key] = struct{}{}
	}

	owners := make(map[string]int, len(ownersByCountry))
	averages := make([]model.CountryAverage, 0, len(countryOrder))
	for _, country := range countryOrder {
		ownerCount := len(ownersByCountry[country])
		owners[country] = ownerCount

		average := 0.0
		if ownerCount > 0 {
			average = math.Round(float64(vehicles[country])/float64(ownerCount)*100) / 100
		}
		averages = append(averages, model.CountryAverage{Country: country, Average: average})
	}

	return model.ByCountry{
		Vehicles:                vehicles,
		Owners:                  owners,
		AverageVehiclesPerOwner: averages,
		VehiclesByRegion:        vehiclesByRegion,
	}, len(allOwners)
}

// onboardingRows lists vehicles whose listing age in whole calendar days is
// within [0, 31), sorted ascending by age (newest first).
func onboardingRows(inventory []model.InventoryEntry, now time.Time) []model.OnboardingRow {
	rows := make([]model.OnboardingRow, 0)
	for _, item := range inventory {
		if item.ListedAt == nil {
			continue
		}
		age := model.CalendarDaysBetween(now, *item.ListedAt)
		if age < 0 || age >= onboardingWindowDays {
			continue
		}
		rows = append(rows, model.OnboardingRow{
			VehicleID:    item.VehicleID,
			VehicleLabel: item.VehicleLabel,
			OwnerName:    item.OwnerName,
			Country:      item.Country,
			City:         item.City,
			VehicleType:  item.VehicleType,
			Manufacturer: item.Manufacturer,
			AgeDays:      age,
			ListedAt:     item.ListedAt.UTC().Format(time.RFC3339),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AgeDays < rows[j].AgeDays })
	return rows
}

// inquirySums groups request/rental sums by vehicle type label.
func inquirySums(inquiries []model.InquiryEntry) model.Inquiries {
	byType := make(map[string]model.InquirySums)
	for _, item := range inquiries {
		key := item.VehicleType
		if key == "" {
			key = unknownBucket
		}
		sums := byType[key]
		sums.Requests += item.Requests
		sums.Bookings += item.Bookings
		byType[key] = sums
	}
	return model.Inquiries{ByVehicleType: byType}
}

// locationBucket accumulates one map cluster while folding vehicles in.
type locationBucket struct {
	point      model.GeoLocationPoint
	ownerOrder []string
	owners     map[string]model.GeoOwner
}

// geoLocations buckets entries carrying explicit coordinates by the
// coordinate pair rounded to 4 decimals (~11 m). Each bucket counts vehicles
// and collects a deduplicated owner roster; the displayed city/country is
// the last contributing entry's non-empty value. Buckets and rosters keep
// first-seen order.
func geoLocations(inventory []model.InventoryEntry) []model.GeoLocationPoint {
	buckets := make(map[string]*locationBucket)
	var order []string

	for _, item := range inventory {
		if item.Latitude == nil || item.Longitude == nil {
			continue
		}
		key := fmt.Sprintf("%.4f|%.4f", *item.Latitude, *item.Longitude)

		bucket, ok := buckets[key]
		if !ok {
			bucket = &locationBucket{
				point: model.GeoLocationPoint{
					Latitude:  *item.Latitude,
					Longitude: *item.Longitude,
					City:      item.City,
					Country:   item.Country,
				},
				owners: make(map[string]model.GeoOwner),
			}
			buckets[key] = bucket
			order = append(order, key)
		}

		bucket.point.Vehicles++
		if item.City != "" {
			bucket.point.City = item.City
		}
		if item.Country != "" {
			bucket.point.Country = item.Country
		}

		owner := ownerKey(item)
		displayName := strings.TrimSpace(item.OwnerName)
		if displayName == "" {
			displayName = "Unbekannter Vermieter"
		}
		if _, seen := bucket.owners[owner]; !seen {
			bucket.ownerOrder = append(bucket.ownerOrder, owner)
		}
		bucket.owners[owner] = model.GeoOwner{
			Key:  owner,
			ID:   strings.TrimSpace(item.OwnerID),
			Name: displayName,
		}
	}

	points := make([]model.GeoLocationPoint, 0, len(order))
	for _, key := range order {
		bucket := buckets[key]
		bucket.point.Owners = lo.Map(bucket.ownerOrder, func(ownerKey string, _ int) model.GeoOwner {
			return bucket.owners[ownerKey]
		})
		bucket.point.OwnerCount = len(bucket.point.Owners)
		points = append(points, bucket.point)
	}
	return points
}

// facetValues dedups the non-blank values of one dimension and sorts them
// with German collation for the filter dropdowns.
func facetValues(values []string) []string {
	kept := lo.Filter(values, func(v string, _ int) bool {
		return strings.TrimSpace(v) != ""
	})
	unique := lo.Uniq(kept)

	c := collate.New(language.German)
	sort.SliceStable(unique, func(i, j int) bool {
		return c.CompareString(unique[i], unique[j]) < 0
	})
	return unique
}

// buildMeta computes the available filter facets. Scoping is asymmetric:
// regions narrow by the selected country only, cities by country+region,
// types and manufacturers by country, and countries not at all, so the
// cascading filter UI never depends on its own selection.
func buildMeta(full, reconciled []model.InventoryEntry, filter model.FilterSpec, filteredRows int) model.Meta {
	countryScoped := reconciled
	if filter.Country != "" {
		countryScoped = lo.Filter(reconciled, func(item model.InventoryEntry, _ int) bool {
			return geo.Normalize(item.Country) == geo.Normalize(filter.Country)
		})
	}
	regionScoped := countryScoped
	if filter.Region != "" {
		regionScoped = lo.Filter(countryScoped, func(item model.InventoryEntry, _ int) bool {
			return geo.Normalize(item.Region) == geo.Normalize(filter.Region)
		})
	}

	pluck := func(items []model.InventoryEntry, f func(model.InventoryEntry) string) []string {
		return lo.Map(items, func(item model.InventoryEntry, _ int) string { return f(item) })
	}

	return model.Meta{
		AvailableCountries:     facetValues(pluck(full, func(i model.InventoryEntry) string { return i.Country })),
		AvailableRegions:       facetValues(pluck(countryScoped, func(i model.InventoryEntry) string { return i.Region })),
		AvailableCities:        facetValues(pluck(regionScoped, func(i model.InventoryEntry) string { return i.City })),
		AvailableVehicleTypes:  facetValues(pluck(countryScoped, func(i model.InventoryEntry) string { return i.VehicleType })),
		AvailableManufacturers: facetValues(pluck(countryScoped, func(i model.InventoryEntry) string { return i.Manufacturer })),
		TotalInventoryRows:     len(full),
		FilteredInventoryRows:  filteredRows,
		CustomLocation:         filter.CustomLocation,
	}
}
