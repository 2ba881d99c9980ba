package sheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/ChrisDrivar/drivar-dashboard/internal/geo"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
)

// Positional fallback columns of the legacy sheet layouts, used when a
// header probe finds nothing. -1 means the field has no legacy column.
var inventoryFallback = struct {
	country, region, ownerID, ownerName, vehicleID, vehicleLabel,
	vehicleType, city, status, listedAt, offboardedAt,
	latitude, longitude, manufacturer, street, postalCode int
}{
	country: 6, region: 5, ownerID: -1, ownerName: 0, vehicleID: -1,
	vehicleLabel: 1, vehicleType: 3, city: 4, status: 7, listedAt: -1,
	offboardedAt: -1, latitude: -1, longitude: -1, manufacturer: 2,
	street: -1, postalCode: -1,
}

// MapInventory maps the inventory table into vehicle listings. Rows without
// any label, id or type get a synthesized "Fahrzeug {n}" label; rows where
// even that stays empty are dropped. Missing coordinates are back-filled
// from the offline gazetteer using the row's own country plus the supported
// country fallback order.
func MapInventory(rows [][]string) []model.InventoryEntry {
	if len(rows) == 0 {
		return nil
	}
	lookup := newHeaderLookup(rows[0])

	var entries []model.InventoryEntry
	for i, row := range rows[1:] {
		fb := inventoryFallback

		vehicleID := lookup.pick(row, fb.vehicleID, "fahrzeug_id", "id")
		vehicleLabel := lookup.pick(row, fb.vehicleLabel, "fahrzeug_label", "fahrzeug_name", "fahrzeug", "modell")
		if vehicleLabel == "" {
			vehicleLabel = vehicleID
		}
		if vehicleLabel == "" {
			vehicleLabel = lookup.pick(row, fb.vehicleType, "fahrzeugtyp")
		}
		if vehicleLabel == "" {
			vehicleLabel = fmt.Sprintf("Fahrzeug %d", i+1)
		}

		ownerName := strings.TrimSpace(lookup.pick(row, fb.ownerName, "vermieter_name", "vermieter", "partner"))
		if ownerName == "" {
			ownerName = fmt.Sprintf("Unbekannter Vermieter %d", i+1)
		}

		country := strings.TrimSpace(lookup.pick(row, fb.country, "land", "country"))
		city := strings.TrimSpace(lookup.pick(row, fb.city, "stadt", "city"))

		latitude := parseCoordinate(lookup.pick(row, fb.latitude, "latitude", "lat", "breitengrad"))
		longitude := parseCoordinate(lookup.pick(row, fb.longitude, "longitude", "lng", "laengengrad", "längengrad"))
		if latitude == nil || longitude == nil {
			if c, ok := geo.ResolveCityFallback(city, geo.FallbackCountries(country)); ok {
				lat, lng := c.Latitude, c.Longitude
				latitude, longitude = &lat, &lng
			}
		}

		entry := model.InventoryEntry{
			Country:       country,
			Region:        strings.TrimSpace(lookup.pick(row, fb.region, "region", "bundesland", "staat")),
			OwnerID:       lookup.pick(row, fb.ownerID, "vermieter_id", "partner_id"),
			OwnerName:     ownerName,
			VehicleID:     vehicleID,
			VehicleLabel:  strings.TrimSpace(vehicleLabel),
			VehicleType:   strings.TrimSpace(lookup.pick(row, fb.vehicleType, "fahrzeugtyp", "typ", "segment")),
			City:          city,
			Manufacturer:  strings.TrimSpace(lookup.pick(row, fb.manufacturer, "hersteller", "manufacturer", "marke", "brand")),
			ListedAt:      model.ParseDate(lookup.pick(row, fb.listedAt, "listed_at", "online_seit", "onboarded_at", "letzte_aenderung", "letzte_änderung")),
			OffboardedAt:  model.ParseDate(lookup.pick(row, fb.offboardedAt, "offboarded_at", "offline_seit")),
			Status:        strings.TrimSpace(lookup.pick(row, fb.status, "status", "state")),
			Latitude:      latitude,
			Longitude:     longitude,
			Street:        strings.TrimSpace(lookup.pick(row, fb.street, "strasse", "straße", "stra_e", "street", "straße_hausnummer", "stra_e_hausnummer")),
			PostalCode:    strings.TrimSpace(lookup.pick(row, fb.postalCode, "plz", "postal_code", "postleitzahl", "zip", "zip_code")),
			OwnerAddress:  strings.TrimSpace(lookup.pick(row, -1, "standort", "adresse", "address")),
			SheetRowIndex: i + 2,
		}
		if entry.VehicleLabel == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

var ownerFallback = struct {
	ownerID, ownerName, country, region, phone, email, website, partnerSince,
	status, address, city, postalCode, street, international, commission,
	ranking, experience, notes, lastChange int
}{
	ownerID: 0, ownerName: 1, country: 2, region: 3, phone: 3, email: 4,
	website: 5, partnerSince: 6, status: 7, address: 8, city: 9,
	postalCode: 10, street: 11, international: 12, commission: 13,
	ranking: 14, experience: 15, notes: 16, lastChange: 17,
}

// MapOwners maps the owners table into partner contact records. Rows without
// a name are dropped.
func MapOwners(rows [][]string) []model.OwnerContact {
	if len(rows) == 0 {
		return nil
	}
	lookup := newHeaderLookup(rows[0])

	var owners []model.OwnerContact
	for i, row := range rows[1:] {
		fb := ownerFallback
		owner := model.OwnerContact{
			OwnerID:                lookup.pick(row, fb.ownerID, "vermieter_id", "partner_id"),
			OwnerName:              lookup.pick(row, fb.ownerName, "vermieter_name", "name", "vermieter"),
			Country:                lookup.pick(row, fb.country, "land", "country"),
			Region:                 lookup.pick(row, fb.region, "region", "bundesland", "staat", "province"),
			City:                   lookup.pick(row, fb.city, "stadt", "city"),
			Phone:                  lookup.pick(row, fb.phone, "telefon", "phone"),
			Email:                  lookup.pick(row, fb.email, "email"),
			Website:                lookup.pick(row, fb.website, "domain", "website"),
			PartnerSince:           lookup.pick(row, fb.partnerSince, "partner_since", "seit"),
			Status:                 lookup.pick(row, fb.status, "status"),
			Address:                lookup.pick(row, fb.address, "adresse", "address", "standort"),
			PostalCode:             lookup.pick(row, fb.postalCode, "plz", "postal_code", "postleitzahl", "zip", "zip_code"),
			Street:                 lookup.pick(row, fb.street, "strasse", "straße", "street", "stra_e"),
			InternationalCustomers: lookup.pick(row, fb.international, "internationale_kunden", "international", "intl_kunden"),
			Commission:             lookup.pick(row, fb.commission, "provision", "commission"),
			Ranking:                lookup.pick(row, fb.ranking, "ranking", "bewertung"),
			ExperienceYears:        lookup.pick(row, fb.experience, "erfahrung_jahre", "erfahrung", "experience"),
			Notes:                  lookup.pick(row, fb.notes, "notizen", "notes", "kommentar"),
			LastChange:             lookup.pick(row, fb.lastChange, "letzte_aenderung", "letzte_änderung", "last_change", "last_update"),
			SheetRowIndex:          i + 2,
		}
		if owner.OwnerName == "" {
			continue
		}
		owners = append(owners, owner)
	}
	return owners
}

var inquiryFallback = struct {
	vehicleID, vehicleType, city, requests, bookings, createdAt int
}{vehicleID: 0, vehicleType: 2, city: 2, requests: -1, bookings: -1, createdAt: -1}

// MapInquiries maps the inquiries table. Rows are kept when they carry a
// vehicle type or a vehicle id.
func MapInquiries(rows [][]string) []model.InquiryEntry {
	if len(rows) == 0 {
		return nil
	}
	lookup := newHeaderLookup(rows[0])

	var inquiries []model.InquiryEntry
	for _, row := range rows[1:] {
		fb := inquiryFallback
		entry := model.InquiryEntry{
			VehicleID:   lookup.pick(row, fb.vehicleID, "fahrzeug_id", "id"),
			VehicleType: lookup.pick(row, fb.vehicleType, "fahrzeugtyp", "typ", "segment"),
			City:        lookup.pick(row, fb.city, "stadt", "city"),
			Requests:    parseCount(lookup.pick(row, fb.requests, "anfragen", "requests")),
			Bookings:    parseCount(lookup.pick(row, fb.bookings, "mieten", "bookings")),
			CreatedAt:   model.ParseDate(lookup.pick(row, fb.createdAt, "datum", "created_at")),
		}
		if entry.VehicleType == "" && entry.VehicleID == "" {
			continue
		}
		inquiries = append(inquiries, entry)
	}
	return inquiries
}

var missingInventoryFallback = struct {
	country, region, city, vehicleType, count, priority, comment int
}{country: -1, region: -1, city: 0, vehicleType: 1, count: 2, priority: 3, comment: 4}

// MapMissingInventory maps the demand-gap table. Rows need a vehicle type
// and a positive count; country and city default to "Deutschland" and
// "Unbekannt".
func MapMissingInventory(rows [][]string) []model.MissingInventoryEntry {
	if len(rows) == 0 {
		return nil
	}
	lookup := newHeaderLookup(rows[0])

	var entries []model.MissingInventoryEntry
	for _, row := range rows[1:] {
		fb := missingInventoryFallback
		entry := model.MissingInventoryEntry{
			Country:     lookup.pick(row, fb.country, "land", "country"),
			Region:      lookup.pick(row, fb.region, "region", "bundesland"),
			City:        lookup.pick(row, fb.city, "stadt", "city"),
			VehicleType: lookup.pick(row, fb.vehicleType, "fahrzeugtyp", "typ"),
			Count:       parseCount(lookup.pick(row, fb.count, "anzahl_fehlend", "anzahl")),
			Priority:    lookup.pick(row, fb.priority, "prio", "priorität", "priority"),
			Comment:     lookup.pick(row, fb.comment, "kommentar", "notes"),
		}
		if entry.Country == "" {
			entry.Country = "Deutschland"
		}
		if entry.City == "" {
			entry.City = "Unbekannt"
		}
		if entry.VehicleType == "" {
			entry.VehicleType = "Unbekannt"
		}
		if entry.Count <= 0 {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

var listingRequestFallback = struct {
	date, channel, region, vehicleType, requests, listings int
}{date: 0, channel: 1, region: 2, vehicleType: 3, requests: 4, listings: 5}

// MapListingRequests maps the acquisition-funnel table. Rows are kept when
// they carry a channel, region or vehicle type.
func MapListingRequests(rows [][]string) []model.ListingRequestEntry {
	if len(rows) == 0 {
		return nil
	}
	lookup := newHeaderLookup(rows[0])

	var entries []model.ListingRequestEntry
	for _, row := range rows[1:] {
		fb := listingRequestFallback
		entry := model.ListingRequestEntry{
			Date:        lookup.pick(row, fb.date, "datum", "date"),
			Channel:     lookup.pick(row, fb.channel, "kanal", "source"),
			Region:      lookup.pick(row, fb.region, "region", "bundesland"),
			VehicleType: lookup.pick(row, fb.vehicleType, "fahrzeugtyp", "typ"),
			Requests:    parseCount(lookup.pick(row, fb.requests, "anfragen_total", "anfragen")),
			Listings:    parseCount(lookup.pick(row, fb.listings, "inserate_entstanden", "inserate")),
		}
		if entry.Channel == "" && entry.Region == "" && entry.VehicleType == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

var pendingLeadFallback = struct {
	date, channel, region, ownerName, vehicleLabel, manufacturer,
	vehicleType, city, country, comment, street, postalCode, status,
	statusUpdatedAt int
}{
	date: 0, channel: 1, region: 2, ownerName: 3, vehicleLabel: 4,
	manufacturer: 5, vehicleType: 6, city: 7, country: 8, comment: 9,
	street: 10, postalCode: 11, status: 12, statusUpdatedAt: 13,
}

// MapPendingLeads maps the pending-lead table as of time.Now. See
// MapPendingLeadsAt.
func MapPendingLeads(rows [][]string) []model.PendingLeadEntry {
	return MapPendingLeadsAt(rows, time.Now())
}

// MapPendingLeadsAt maps the pending-lead table. Rows without an owner name
// are dropped. Closed leads (contract signed / rejected) whose reference
// date is more than 7 calendar days before now are aged out here already;
// leads with absent or unparsable reference dates are kept.
func MapPendingLeadsAt(rows [][]string, now time.Time) []model.PendingLeadEntry {
	if len(rows) == 0 {
		return nil
	}
	lookup := newHeaderLookup(rows[0])

	var leads []model.PendingLeadEntry
	for i, row := range rows[1:] {
		fb := pendingLeadFallback
		status := model.LeadStatus(lookup.pick(row, fb.status, "status"))
		if status == "" {
			status = model.LeadStatusRequested
		}
		lead := model.PendingLeadEntry{
			Date:            lookup.pick(row, fb.date, "datum", "date"),
			Channel:         lookup.pick(row, fb.channel, "kanal", "channel", "quelle"),
			Region:          lookup.pick(row, fb.region, "region", "bundesland"),
			OwnerName:       lookup.pick(row, fb.ownerName, "vermieter_name", "vermieter", "name"),
			VehicleLabel:    lookup.pick(row, fb.vehicleLabel, "fahrzeug_label", "fahrzeug", "modell"),
			Manufacturer:    lookup.pick(row, fb.manufacturer, "manufacturer", "marke"),
			VehicleType:     lookup.pick(row, fb.vehicleType, "fahrzeugtyp", "typ"),
			City:            lookup.pick(row, fb.city, "stadt", "city"),
			Country:         lookup.pick(row, fb.country, "land", "country"),
			Comment:         lookup.pick(row, fb.comment, "kommentar", "notes", "bemerkung"),
			Street:          lookup.pick(row, fb.street, "strasse", "street"),
			PostalCode:      lookup.pick(row, fb.postalCode, "plz", "postal_code", "zip"),
			Phone:           lookup.pick(row, -1, "telefon", "phone"),
			Email:           lookup.pick(row, -1, "email", "mail"),
			Website:         lookup.pick(row, -1, "website", "domain", "url"),
			International:   lookup.pick(row, -1, "internationale_kunden", "international", "intl_kunden"),
			Commission:      lookup.pick(row, -1, "provision", "commission"),
			Ranking:         lookup.pick(row, -1, "ranking"),
			ExperienceYears: lookup.pick(row, -1, "erfahrung_jahre", "erfahrung", "experience_years"),
			OwnerNotes:      lookup.pick(row, -1, "notizen", "vermieter_notizen"),
			Status:          status,
			StatusUpdatedAt: lookup.pick(row, fb.statusUpdatedAt, "status_updated_at", "status_geaendert", "status_date"),
			SheetRowIndex:   i + 2,
		}
		if strings.TrimSpace(lead.OwnerName) == "" {
			continue
		}
		if lead.Status.Closed() {
			reference := lead.StatusUpdatedAt
			if reference == "" {
				reference = lead.Date
			}
			if parsed := model.ParseDate(reference); parsed != nil &&
				model.CalendarDaysBetween(now, *parsed) > 7 {
				continue
			}
		}
		leads = append(leads, lead)
	}
	return leads
}
