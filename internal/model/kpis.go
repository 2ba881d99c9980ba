package model

// FilterSpec selects the slice of the fleet a KPI request is about.
// Zero values mean "no constraint" for that dimension.
type FilterSpec struct {
	Country      string
	Region       string
	City         string
	VehicleType  string
	Manufacturer string
	RadiusKm     float64
	// CustomLocation, when set, anchors the radius filter instead of the
	// city centroid.
	CustomLocation *CustomLocation
}

// CustomLocation is an explicit radius anchor chosen on the map.
type CustomLocation struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Totals holds the headline counters of the payload.
type Totals struct {
	Vehicles  int `json:"vehicles"`
	Owners    int `json:"owners"`
	Inquiries int `json:"inquiries"`
	Rentals   int `json:"rentals"`
}

// CountryAverage is the vehicles-per-owner ratio for one country.
type CountryAverage struct {
	Country string  `json:"land"`
	Average float64 `json:"average"`
}

// ByCountry holds the per-country breakdowns.
type ByCountry struct {
	Vehicles                map[string]int            `json:"vehicles"`
	Owners                  map[string]int            `json:"owners"`
	AverageVehiclesPerOwner []CountryAverage          `json:"averageVehiclesPerOwner"`
	VehiclesByRegion        map[string]map[string]int `json:"vehiclesByRegion"`
}

// Deltas is a placeholder trend block the UI renders; trend computation is
// not backed by historical data yet, so both values stay 0.
type Deltas struct {
	Vehicles int `json:"vehicles"`
	Owners   int `json:"owners"`
}

// OnboardingRow is one freshly listed vehicle (age < 31 days).
type OnboardingRow struct {
	VehicleID    string `json:"fahrzeugId,omitempty"`
	VehicleLabel string `json:"fahrzeugLabel"`
	OwnerName    string `json:"vermieterName"`
	Country      string `json:"land"`
	City         string `json:"stadt"`
	VehicleType  string `json:"fahrzeugtyp"`
	Manufacturer string `json:"manufacturer,omitempty"`
	AgeDays      int    `json:"ageDays"`
	ListedAt     string `json:"listedAt"`
}

// InquirySums accumulates request/rental counts for one vehicle type.
type InquirySums struct {
	Requests int `json:"anfragen"`
	Bookings int `json:"mieten"`
}

// Inquiries groups inquiry sums by vehicle type.
type Inquiries struct {
	ByVehicleType map[string]InquirySums `json:"byVehicleType"`
}

// GeoOwner is one roster entry of a map location bucket.
type GeoOwner struct {
	Key  string `json:"key"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// GeoLocationPoint is a map bucket keyed by coordinates rounded to four
// decimal places (~11m).
type GeoLocationPoint struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	City       string     `json:"stadt"`
	Country    string     `json:"land"`
	Vehicles   int        `json:"vehicles"`
	Owners     []GeoOwner `json:"owners"`
	OwnerCount int        `json:"ownerCount"`
}

// Geo wraps the clustered map locations.
type Geo struct {
	Locations []GeoLocationPoint `json:"locations"`
}

// Meta describes the filter facets available under the current selection,
// plus row-count diagnostics.
type Meta struct {
	AvailableCountries     []string        `json:"availableCountries"`
	AvailableRegions       []string        `json:"availableRegions"`
	AvailableCities        []string        `json:"availableCities"`
	AvailableVehicleTypes  []string        `json:"availableVehicleTypes"`
	AvailableManufacturers []string        `json:"availableManufacturers"`
	TotalInventoryRows     int             `json:"totalInventoryRows"`
	FilteredInventoryRows  int             `json:"filteredInventoryRows"`
	CustomLocation         *CustomLocation `json:"customLocation"`
}

// KpiPayload is the full dashboard response for one filter spec.
type KpiPayload struct {
	Totals           Totals                  `json:"totals"`
	ByCountry        ByCountry               `json:"byCountry"`
	Deltas           Deltas                  `json:"deltas"`
	Onboarding       []OnboardingRow         `json:"onboarding"`
	Inquiries        Inquiries               `json:"inquiries"`
	Inventory        []InventoryEntry        `json:"inventory"`
	Geo              Geo                     `json:"geo"`
	MissingInventory []MissingInventoryEntry `json:"missingInventory"`
	PendingLeads     []PendingLeadEntry      `json:"pendingLeads"`
	Meta             Meta                    `json:"meta"`
}
