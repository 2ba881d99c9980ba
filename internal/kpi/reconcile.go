// Package kpi is the aggregation core of the dashboard: it reconciles
// vehicle listings with partner records, applies the multi-dimensional
// filter spec including great-circle radius queries, and reduces the result
// into the KPI payload the UI renders. Everything here is a pure function of
// already-fetched tables; no I/O, no caching, inputs are never mutated.
package kpi

import (
	"strings"

	"github.com/ChrisDrivar/drivar-dashboard/internal/geo"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
)

// ownerIndex resolves inventory rows to partner records: by raw trimmed id
// first, by normalized name second.
type ownerIndex struct {
	byID   map[string]model.OwnerContact
	byName map[string]model.OwnerContact
}

func newOwnerIndex(owners []model.OwnerContact) ownerIndex {
	idx := ownerIndex{
		byID:   make(map[string]model.OwnerContact, len(owners)),
		byName: make(map[string]model.OwnerContact, len(owners)),
	}
	for _, owner := range owners {
		if id := strings.TrimSpace(owner.OwnerID); id != "" {
			idx.byID[id] = owner
		}
		idx.byName[geo.Normalize(owner.OwnerName)] = owner
	}
	return idx
}

// resolve returns the matching owner for an inventory entry, or false.
// An id match wins over a name match.
func (idx ownerIndex) resolve(item model.InventoryEntry) (model.OwnerContact, bool) {
	if item.OwnerID != "" {
		if owner, ok := idx.byID[item.OwnerID]; ok {
			return owner, true
		}
	}
	owner, ok := idx.byName[geo.Normalize(item.OwnerName)]
	return owner, ok
}

// hasName reports whether a normalized owner name exists in the index.
func (idx ownerIndex) hasName(normalized string) bool {
	_, ok := idx.byName[normalized]
	return ok
}

// reconcile attaches the owner contact snapshot to each inventory entry and
// resolves the effective region: the owner's region when non-empty, else the
// entry's own. Entries without an owner match are kept unchanged; the
// aggregator still counts them under their own name. The input slice is not
// modified; reconciling twice yields identical entries.
func reconcile(inventory []model.InventoryEntry, idx ownerIndex) []model.InventoryEntry {
	out := make([]model.InventoryEntry, len(inventory))
	for i, item := range inventory {
		entry := item
		entry.Region = strings.TrimSpace(item.Region)

		owner, ok := idx.resolve(item)
		if !ok {
			out[i] = entry
			continue
		}
		if ownerRegion := strings.TrimSpace(owner.Region); ownerRegion != "" {
			entry.Region = ownerRegion
		}
		entry.OwnerPhone = owner.Phone
		entry.OwnerEmail = owner.Email
		entry.OwnerWebsite = owner.Website
		entry.OwnerAddress = owner.Address
		entry.OwnerInternational = owner.InternationalCustomers
		entry.OwnerCommission = owner.Commission
		entry.OwnerRanking = owner.Ranking
		entry.OwnerExperienceYears = owner.ExperienceYears
		entry.OwnerNotes = owner.Notes
		entry.OwnerLastChange = owner.LastChange
		entry.OwnerRegion = owner.Region
		entry.OwnerCity = owner.City
		entry.OwnerPostalCode = owner.PostalCode
		entry.OwnerStreet = owner.Street
		entry.OwnerSheetRowIndex = owner.SheetRowIndex
		out[i] = entry
	}
	return out
}

// ownerKey is the grouping key for distinct-owner counts: the trimmed id
// when present, else the normalized owner name.
func ownerKey(item model.InventoryEntry) string {
	if id := strings.TrimSpace(item.OwnerID); id != "" {
		return id
	}
	return geo.Normalize(item.OwnerName)
}
