package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
)

func TestCountryBreakdown(t *testing.T) {
	t.Parallel()

	inventory := []model.InventoryEntry{
		{Country: "Deutschland", Region: "Bayern", OwnerName: "A"},
		{Country: "Deutschland", Region: "Bayern", OwnerName: "A"},
		{Country: "Deutschland", Region: "Berlin", OwnerName: "B"},
		{Country: "Schweiz", Region: "Zurich", OwnerName: "C"},
		{Country: "", Region: "", OwnerName: "A"},
	}

	byCountry, distinctOwners := countryBreakdown(inventory)

	assert.Equal(t, map[string]int{"Deutschland": 3, "Schweiz": 1, "Unbekannt": 1}, byCountry.Vehicles)
	assert.Equal(t, map[string]int{"Deutschland": 2, "Schweiz": 1, "Unbekannt": 1}, byCountry.Owners)
	assert.Equal(t, 3, distinctOwners, "owner A spans two country buckets but counts once overall")

	assert.Equal(t, map[string]int{"Bayern": 2, "Berlin": 1}, byCountry.VehiclesByRegion["Deutschland"])
	assert.Equal(t, map[string]int{"Unbekannt": 1}, byCountry.VehiclesByRegion["Unbekannt"])

	require.Len(t, byCountry.AverageVehiclesPerOwner, 3)
	assert.Equal(t, "Deutschland", byCountry.AverageVehiclesPerOwner[0].Country, "first appearance order")
	assert.Equal(t, 1.5, byCountry.AverageVehiclesPerOwner[0].Average)
	assert.Equal(t, "Schweiz", byCountry.AverageVehiclesPerOwner[1].Country)
	assert.Equal(t, "Unbekannt", byCountry.AverageVehiclesPerOwner[2].Country)
}

func TestCountryBreakdownAverageRounding(t *testing.T) {
	t.Parallel()

	// 4 vehicles, 3 owners: 1.333... rounds to 1.33.
	inventory := []model.InventoryEntry{
		{Country: "Deutschland", OwnerName: "A"},
		{Country: "Deutschland", OwnerName: "A"},
		{Country: "Deutschland", OwnerName: "B"},
		{Country: "Deutschland", OwnerName: "C"},
	}

	byCountry, _ := countryBreakdown(inventory)
	require.Len(t, byCountry.AverageVehiclesPerOwner, 1)
	assert.Equal(t, 1.33, byCountry.AverageVehiclesPerOwner[0].Average)
}

func TestOnboardingRowsWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	day := func(daysAgo int) *time.Time {
		d := now.AddDate(0, 0, -daysAgo)
		return &d
	}

	inventory := []model.InventoryEntry{
		{VehicleLabel: "Alt", ListedAt: day(31)},
		{VehicleLabel: "Grenze", ListedAt: day(30), OwnerName: "A", Country: "Deutschland", City: "Berlin"},
		{VehicleLabel: "Frisch", ListedAt: day(2)},
		{VehicleLabel: "Heute", ListedAt: day(0)},
		{VehicleLabel: "Zukunft", ListedAt: day(-1)},
		{VehicleLabel: "Undatiert"},
	}

	rows := onboardingRows(inventory, now)
	require.Len(t, rows, 3)

	assert.Equal(t, "Heute", rows[0].VehicleLabel, "sorted ascending by age")
	assert.Equal(t, 0, rows[0].AgeDays)
	assert.Equal(t, "Frisch", rows[1].VehicleLabel)
	assert.Equal(t, "Grenze", rows[2].VehicleLabel, "30 days is still inside the window")
	assert.Equal(t, 30, rows[2].AgeDays)
	assert.Equal(t, "2026-02-13T14:00:00Z", rows[2].ListedAt)
}

func TestInquirySums(t *testing.T) {
	t.Parallel()

	inquiries := []model.InquiryEntry{
		{VehicleType: "SUV", Requests: 3, Bookings: 1},
		{VehicleType: "SUV", Requests: 2, Bookings: 2},
		{VehicleType: "", Requests: 1},
	}

	sums := inquirySums(inquiries)
	assert.Equal(t, model.InquirySums{Requests: 5, Bookings: 3}, sums.ByVehicleType["SUV"])
	assert.Equal(t, model.InquirySums{Requests: 1}, sums.ByVehicleType["Unbekannt"])
}

func TestGeoLocationsBucketsAndRoster(t *testing.T) {
	t.Parallel()

	inventory := []model.InventoryEntry{
		{Latitude: fptr(52.520008), Longitude: fptr(13.404954), City: "Berlin", Country: "Deutschland", OwnerName: "A"},
		// Same bucket after rounding to 4 decimals.
		{Latitude: fptr(52.520017), Longitude: fptr(13.404980), City: "", Country: "", OwnerName: "A"},
		{Latitude: fptr(52.520008), Longitude: fptr(13.404954), City: "Berlin-Mitte", Country: "Deutschland", OwnerName: "B", OwnerID: "P-2"},
		{Latitude: fptr(48.137154), Longitude: fptr(11.576124), City: "Munchen", Country: "Deutschland", OwnerName: ""},
		{City: "Hamburg", Country: "Deutschland", OwnerName: "C"},
	}

	points := geoLocations(inventory)
	require.Len(t, points, 2, "coordinate-less entries never reach the map")

	berlin := points[0]
	assert.Equal(t, 3, berlin.Vehicles)
	assert.Equal(t, "Berlin-Mitte", berlin.City, "the last non-empty city wins")
	assert.Equal(t, "Deutschland", berlin.Country)
	require.Len(t, berlin.Owners, 2, "the roster is deduplicated")
	assert.Equal(t, 2, berlin.OwnerCount)
	assert.Equal(t, "A", berlin.Owners[0].Name)
	assert.Equal(t, "B", berlin.Owners[1].Name)
	assert.Equal(t, "P-2", berlin.Owners[1].ID)

	munich := points[1]
	assert.Equal(t, 1, munich.Vehicles)
	require.Len(t, munich.Owners, 1)
	assert.Equal(t, "Unbekannter Vermieter", munich.Owners[0].Name)
}

func TestFacetValues(t *testing.T) {
	t.Parallel()

	values := facetValues([]string{"Zürich", "Österreich", "", "Berlin", "Österreich", "  "})
	assert.Equal(t, []string{"Berlin", "Österreich", "Zürich"}, values, "German collation sorts umlauts with their base letters")

	assert.Empty(t, facetValues(nil))
}

func TestBuildMetaScoping(t *testing.T) {
	t.Parallel()

	full := []model.InventoryEntry{
		{Country: "Deutschland", Region: "Bayern", City: "Munchen", VehicleType: "SUV", Manufacturer: "BMW"},
		{Country: "Deutschland", Region: "Berlin", City: "Berlin", VehicleType: "Cabriolet", Manufacturer: "Audi"},
		{Country: "Schweiz", Region: "Zurich", City: "Zurich", VehicleType: "Limousine", Manufacturer: "Mercedes"},
	}
	filter := model.FilterSpec{Country: "Deutschland", Region: "Bayern"}

	meta := buildMeta(full, full, filter, 1)

	assert.Equal(t, []string{"Deutschland", "Schweiz"}, meta.AvailableCountries, "countries never narrow")
	assert.Equal(t, []string{"Bayern", "Berlin"}, meta.AvailableRegions, "regions narrow by country only")
	assert.Equal(t, []string{"Munchen"}, meta.AvailableCities, "cities narrow by country and region")
	assert.Equal(t, []string{"Cabriolet", "SUV"}, meta.AvailableVehicleTypes, "types narrow by country only")
	assert.Equal(t, []string{"Audi", "BMW"}, meta.AvailableManufacturers)
	assert.Equal(t, 3, meta.TotalInventoryRows)
	assert.Equal(t, 1, meta.FilteredInventoryRows)
	assert.Nil(t, meta.CustomLocation)
}
