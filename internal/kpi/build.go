package kpi

import (
	"time"

	"github.com/ChrisDrivar/drivar-dashboard/internal/geo"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
)

// Build computes the full KPI payload for one filter spec as of time.Now.
// See BuildAt.
func Build(
	inventory []model.InventoryEntry,
	inquiries []model.InquiryEntry,
	owners []model.OwnerContact,
	missingInventory []model.MissingInventoryEntry,
	pendingLeads []model.PendingLeadEntry,
	filter model.FilterSpec,
) model.KpiPayload {
	return BuildAt(inventory, inquiries, owners, missingInventory, pendingLeads, filter, time.Now())
}

// BuildAt is the aggregation entry point: reconcile, filter, reduce.
// Pure function of its inputs; safe to call concurrently for different
// filter specs over the same slices.
func BuildAt(
	inventory []model.InventoryEntry,
	inquiries []model.InquiryEntry,
	owners []model.OwnerContact,
	missingInventory []model.MissingInventoryEntry,
	pendingLeads []model.PendingLeadEntry,
	filter model.FilterSpec,
	now time.Time,
) model.KpiPayload {
	fallbackCountries := geo.FallbackCountries(filter.Country)

	ownerIdx := newOwnerIndex(owners)
	reconciled := reconcile(inventory, ownerIdx)

	center, anchored := resolveRadiusCenter(reconciled, filter, fallbackCountries)
	radiusActive := filter.RadiusKm > 0 && anchored

	filtered := filterInventory(reconciled, filter, center, radiusActive, fallbackCountries)
	filteredInquiries := filterInquiries(inquiries, filter, radiusActive)

	byCountry, distinctOwners := countryBreakdown(filtered)

	totalRequests, totalBookings := 0, 0
	for _, item := range filteredInquiries {
		totalRequests += item.Requests
		totalBookings += item.Bookings
	}

	inventoryNames := make(map[string]struct{}, len(inventory))
	for _, item := range inventory {
		if name := geo.Normalize(item.OwnerName); name != "" {
			inventoryNames[name] = struct{}{}
		}
	}

	return model.KpiPayload{
		Totals: model.Totals{
			Vehicles:  len(filtered),
			Owners:    distinctOwners,
			Inquiries: totalRequests,
			Rentals:   totalBookings,
		},
		ByCountry:        byCountry,
		Deltas:           model.Deltas{},
		Onboarding:       onboardingRows(filtered, now),
		Inquiries:        inquirySums(filteredInquiries),
		Inventory:        filtered,
		Geo:              model.Geo{Locations: geoLocations(filtered)},
		MissingInventory: missingInventory,
		PendingLeads:     openLeads(pendingLeads, ownerIdx, inventoryNames, now),
		Meta:             buildMeta(inventory, reconciled, filter, len(filtered)),
	}
}
