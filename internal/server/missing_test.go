package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMissingInventory(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/missing-inventory", map[string]any{
		"city":        "Leipzig",
		"region":      "Sachsen",
		"country":     "Deutschland",
		"vehicleType": "Cabriolet",
		"count":       3,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := store.tables["missing inventory"]
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Leipzig", "Sachsen", "Deutschland", "Cabriolet", "3"}, rows[1])
}

func TestCreateMissingInventoryStringCount(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/missing-inventory", map[string]any{
		"city":        "Dresden",
		"vehicleType": "SUV",
		"count":       "2",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "the count may arrive as a string")
	require.Len(t, store.tables["missing inventory"], 2)
}

func TestCreateMissingInventoryValidation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	for _, body := range []map[string]any{
		{"city": "", "vehicleType": "SUV", "count": 1},
		{"city": "Leipzig", "vehicleType": "", "count": 1},
		{"city": "Leipzig", "vehicleType": "SUV", "count": 0},
		{"city": "Leipzig", "vehicleType": "SUV", "count": "viele"},
	} {
		resp := postJSON(t, srv.URL+"/api/missing-inventory", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
	assert.Len(t, store.tables["missing inventory"], 1)
}

func TestDeleteMissingInventory(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	store.tables["missing inventory"] = append(store.tables["missing inventory"],
		[]string{"Leipzig", "Sachsen", "Deutschland", "SUV", "2"},
		[]string{"Dresden", "Sachsen", "Deutschland", "Kombi", "1"},
	)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/missing-inventory", map[string]int{"rowIndex": 2})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := store.tables["missing inventory"]
	require.Len(t, rows, 2)
	assert.Equal(t, "Dresden", rows[1][0])
}

func TestDeleteMissingInventoryRejectsHeaderRow(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/missing-inventory", map[string]int{"rowIndex": 1})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
