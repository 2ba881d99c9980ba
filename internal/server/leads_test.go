package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLead(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/listing-requests", map[string]any{
		"lead": map[string]string{
			"landlord": "Neuer Kontakt",
			"city":     "Stuttgart",
			"country":  "Deutschland",
			"channel":  "Empfehlung",
			"date":     "2026-03-14",
		},
		"vehicles": []map[string]string{
			{"vehicleLabel": "RS6", "vehicleType": "Kombi", "manufacturer": "Audi"},
			{"vehicleLabel": "Panamera", "vehicleType": "Limousine"},
		},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	leads := store.tables["listing_requests"]
	require.Len(t, leads, 3, "one row per vehicle")
	first := leads[1]
	assert.Equal(t, "2026-03-14", first[0])
	assert.Equal(t, "Empfehlung", first[1])
	assert.Equal(t, "Neuer Kontakt", first[3])
	assert.Equal(t, "RS6", first[4])
	assert.Equal(t, "Kombi", first[5])
	assert.Equal(t, "Stuttgart", first[6])
	assert.Equal(t, "Panamera", leads[2][4])
}

func TestCreateLeadFlatBody(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/listing-requests", map[string]string{
		"landlord":    "Altmodisch",
		"city":        "Bremen",
		"vehicleType": "SUV",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "the flat single-vehicle form is accepted")
	require.Len(t, store.tables["listing_requests"], 2)
	assert.Equal(t, "Altmodisch", store.tables["listing_requests"][1][3])
}

func TestCreateLeadValidation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/listing-requests", map[string]any{
		"lead":     map[string]string{"landlord": "Ohne Fahrzeug", "city": "Bremen"},
		"vehicles": []map[string]string{{"comment": "nur Text"}},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode,
		"a vehicle needs at least a label or a type")
}

func TestUpdateLeadStatus(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	store.tables["listing_requests"] = append(store.tables["listing_requests"],
		[]string{"2026-03-01", "Messe", "Bayern", "Heisser Kandidat", "GT3", "Sportwagen", "Munchen", "Deutschland", "Angefragt", ""})
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/listing-requests", map[string]any{
		"rowIndex": 2,
		"status":   "In Verhandlung",
		"lead": map[string]string{
			"landlord": "Heisser Kandidat",
			"city":     "Munchen",
			"country":  "Deutschland",
			"date":     "2026-03-01",
		},
		"vehicles": []map[string]string{{"vehicleLabel": "GT3", "vehicleType": "Sportwagen"}},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	row := store.tables["listing_requests"][1]
	assert.Equal(t, "In Verhandlung", row[8])
	assert.NotEmpty(t, row[9], "the status change date is recorded")
	assert.Len(t, store.tables["inventory"], 3, "no partner is created without the flag")
}

func TestUpdateLeadCreatesPartner(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	store.tables["listing_requests"] = append(store.tables["listing_requests"],
		[]string{"2026-03-01", "Messe", "Bayern", "Frisch unterschrieben", "GT3", "Sportwagen", "Munchen", "Deutschland", "In Verhandlung", ""})
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/listing-requests", map[string]any{
		"rowIndex":      2,
		"status":        "Vertrag unterschrieben",
		"createPartner": true,
		"lead": map[string]string{
			"landlord": "Frisch unterschrieben",
			"city":     "Munchen",
			"country":  "Deutschland",
			"phone":    "+49 89 9",
		},
		"vehicles": []map[string]string{{"vehicleLabel": "GT3", "vehicleType": "Sportwagen"}},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, store.tables["inventory"], 4, "the signed lead's vehicle lands in inventory")
	assert.Equal(t, "Frisch unterschrieben", store.tables["inventory"][3][0])
	require.Len(t, store.tables["owners"], 3)
	assert.Equal(t, "Frisch unterschrieben", store.tables["owners"][2][1])
	assert.Equal(t, "Vertrag unterschrieben", store.tables["listing_requests"][1][8])
}

func TestUpdateLeadValidation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/listing-requests", map[string]any{
		"rowIndex": 1,
		"status":   "Angefragt",
		"lead":     map[string]string{"landlord": "X"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "the header row cannot be updated")

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/listing-requests", map[string]any{
		"rowIndex": 2,
		"status":   "Offen",
		"lead":     map[string]string{"landlord": "X"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unknown statuses are rejected")
}
