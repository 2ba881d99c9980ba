package model

import "time"

// LeadStatus is the lifecycle state of a pending acquisition lead.
type LeadStatus string

const (
	LeadStatusRequested     LeadStatus = "Angefragt"
	LeadStatusInNegotiation LeadStatus = "In Verhandlung"
	LeadStatusSigned        LeadStatus = "Vertrag unterschrieben"
	LeadStatusRejected      LeadStatus = "Abgelehnt"
)

// LeadStatusValues lists all valid lead statuses in display order.
var LeadStatusValues = []LeadStatus{
	LeadStatusRequested,
	LeadStatusInNegotiation,
	LeadStatusSigned,
	LeadStatusRejected,
}

// Closed reports whether the status terminates the lead lifecycle.
// Closed leads stay visible for a short retention window, then age out.
func (s LeadStatus) Closed() bool {
	return s == LeadStatusSigned || s == LeadStatusRejected
}

// Valid reports whether s is one of the known statuses.
func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatusValues {
		if s == v {
			return true
		}
	}
	return false
}

// InventoryEntry is one fielded vehicle listing. The owner* fields are a
// denormalized snapshot attached by the reconciler; they are empty until then.
// JSON keys match the sheet-era payload the dashboard UI consumes.
type InventoryEntry struct {
	Country      string     `json:"land"`
	Region       string     `json:"region"`
	OwnerID      string     `json:"vermieterId,omitempty"`
	OwnerName    string     `json:"vermieterName"`
	VehicleID    string     `json:"fahrzeugId,omitempty"`
	VehicleLabel string     `json:"fahrzeugLabel"`
	VehicleType  string     `json:"fahrzeugtyp"`
	City         string     `json:"stadt"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	ListedAt     *time.Time `json:"listedAt"`
	OffboardedAt *time.Time `json:"offboardedAt"`
	Status       string     `json:"status"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Street       string     `json:"street,omitempty"`
	PostalCode   string     `json:"postalCode,omitempty"`

	// SheetRowIndex is the 1-based row in the backing table (header row = 1),
	// kept so later updates and deletes can address the row.
	SheetRowIndex int `json:"sheetRowIndex"`

	// Owner snapshot, populated by the reconciler.
	OwnerPhone              string `json:"ownerPhone,omitempty"`
	OwnerEmail              string `json:"ownerEmail,omitempty"`
	OwnerWebsite            string `json:"ownerDomain,omitempty"`
	OwnerAddress            string `json:"ownerAddress,omitempty"`
	OwnerInternational      string `json:"ownerInternationalCustomers,omitempty"`
	OwnerCommission         string `json:"ownerCommission,omitempty"`
	OwnerRanking            string `json:"ownerRanking,omitempty"`
	OwnerExperienceYears    string `json:"ownerExperienceYears,omitempty"`
	OwnerNotes              string `json:"ownerNotes,omitempty"`
	OwnerLastChange         string `json:"ownerLastChange,omitempty"`
	OwnerRegion             string `json:"ownerRegion,omitempty"`
	OwnerCity               string `json:"ownerCity,omitempty"`
	OwnerPostalCode         string `json:"ownerPostalCode,omitempty"`
	OwnerStreet             string `json:"ownerStreet,omitempty"`
	OwnerSheetRowIndex      int    `json:"ownerSheetRowIndex,omitempty"`
}

// OwnerContact is one rental-partner record from the owners table.
type OwnerContact struct {
	OwnerID                string `json:"vermieterId,omitempty"`
	OwnerName              string `json:"vermieterName"`
	Country                string `json:"land"`
	Region                 string `json:"region,omitempty"`
	City                   string `json:"stadt,omitempty"`
	Phone                  string `json:"telefon,omitempty"`
	Email                  string `json:"email,omitempty"`
	Website                string `json:"domain,omitempty"`
	PartnerSince           string `json:"partnerSince,omitempty"`
	Status                 string `json:"status,omitempty"`
	Address                string `json:"adresse,omitempty"`
	PostalCode             string `json:"plz,omitempty"`
	Street                 string `json:"strasse,omitempty"`
	InternationalCustomers string `json:"internationaleKunden,omitempty"`
	Commission             string `json:"provision,omitempty"`
	Ranking                string `json:"ranking,omitempty"`
	ExperienceYears        string `json:"erfahrungJahre,omitempty"`
	Notes                  string `json:"notizen,omitempty"`
	LastChange             string `json:"letzteAenderung,omitempty"`
	SheetRowIndex          int    `json:"sheetRowIndex"`
}

// InquiryEntry is one demand row (requests and completed rentals).
type InquiryEntry struct {
	VehicleID   string     `json:"fahrzeugId"`
	VehicleType string     `json:"fahrzeugtyp"`
	City        string     `json:"stadt"`
	Requests    int        `json:"anfragen"`
	Bookings    int        `json:"mieten"`
	CreatedAt   *time.Time `json:"createdAt"`
}

// MissingInventoryEntry is an unmet-demand signal.
type MissingInventoryEntry struct {
	Country     string `json:"land"`
	Region      string `json:"region"`
	City        string `json:"stadt"`
	VehicleType string `json:"fahrzeugtyp"`
	Count       int    `json:"anzahl"`
	Priority    string `json:"prio,omitempty"`
	Comment     string `json:"kommentar,omitempty"`
}

// ListingRequestEntry is one acquisition-funnel metric row.
type ListingRequestEntry struct {
	Date        string `json:"datum,omitempty"`
	Channel     string `json:"kanal"`
	Region      string `json:"region"`
	VehicleType string `json:"fahrzeugtyp"`
	Requests    int    `json:"anfragen"`
	Listings    int    `json:"inserate"`
}

// PendingLeadEntry is a prospective owner still in acquisition.
type PendingLeadEntry struct {
	Date            string     `json:"datum,omitempty"`
	Channel         string     `json:"kanal,omitempty"`
	Region          string     `json:"region,omitempty"`
	OwnerName       string     `json:"vermieterName"`
	VehicleLabel    string     `json:"fahrzeugLabel,omitempty"`
	Manufacturer    string     `json:"manufacturer,omitempty"`
	VehicleType     string     `json:"fahrzeugtyp,omitempty"`
	City            string     `json:"stadt,omitempty"`
	Country         string     `json:"land,omitempty"`
	Comment         string     `json:"kommentar,omitempty"`
	Street          string     `json:"street,omitempty"`
	PostalCode      string     `json:"postalCode,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Website         string     `json:"website,omitempty"`
	International   string     `json:"internationalCustomers,omitempty"`
	Commission      string     `json:"commission,omitempty"`
	Ranking         string     `json:"ranking,omitempty"`
	ExperienceYears string     `json:"experienceYears,omitempty"`
	OwnerNotes      string     `json:"ownerNotes,omitempty"`
	Status          LeadStatus `json:"status"`
	StatusUpdatedAt string     `json:"statusUpdatedAt,omitempty"`
	SheetRowIndex   int        `json:"sheetRowIndex"`
}
