package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisDrivar/drivar-dashboard/internal/config"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
	"github.com/ChrisDrivar/drivar-dashboard/pkg/geocode"
)

// fakeStore is an in-memory TableStore for handler tests.
type fakeStore struct {
	mu       sync.Mutex
	tables   map[string][][]string
	fetchErr map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string][][]string), fetchErr: make(map[string]error)}
}

func (f *fakeStore) FetchTable(_ context.Context, sheet, _ string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fetchErr[sheet]; err != nil {
		return nil, err
	}
	rows, ok := f.tables[sheet]
	if !ok {
		return nil, eris.Errorf("sheet %q not found", sheet)
	}
	out := make([][]string, len(rows))
	copy(out, rows)
	return out, nil
}

func (f *fakeStore) HeaderRow(ctx context.Context, sheet string) ([]string, error) {
	rows, err := f.FetchTable(ctx, sheet, "")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (f *fakeStore) AppendRows(_ context.Context, sheet string, rows [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[sheet] = append(f.tables[sheet], rows...)
	return nil
}

func (f *fakeStore) DeleteRows(_ context.Context, sheet string, rowIndices []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := make(map[int]struct{}, len(rowIndices))
	for _, index := range rowIndices {
		drop[index] = struct{}{}
	}
	var kept [][]string
	for i, row := range f.tables[sheet] {
		if _, gone := drop[i+1]; gone {
			continue
		}
		kept = append(kept, row)
	}
	f.tables[sheet] = kept
	return nil
}

func (f *fakeStore) UpdateRow(_ context.Context, sheet string, rowIndex int, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.tables[sheet]
	if rowIndex < 1 || rowIndex > len(rows) {
		return eris.Errorf("row %d out of range in %q", rowIndex, sheet)
	}
	rows[rowIndex-1] = row
	return nil
}

// fakeGeocoder returns a fixed result.
type fakeGeocoder struct {
	result *geocode.Result
	err    error
}

func (f *fakeGeocoder) Geocode(context.Context, geocode.AddressInput) (*geocode.Result, error) {
	return f.result, f.err
}

func testTables() config.SheetsConfig {
	return config.SheetsConfig{
		Inventory: config.TableConfig{Sheet: "inventory"},
		Inquiries: config.TableConfig{Sheet: "inquiries"},
		Owners:    config.TableConfig{Sheet: "owners"},
		Missing:   config.TableConfig{Sheet: "missing inventory"},
		Leads:     config.TableConfig{Sheet: "listing_requests"},
	}
}

// seedTables fills in the five dashboard tabs with a minimal fixture.
func seedTables(store *fakeStore) {
	store.tables["inventory"] = [][]string{
		{"Vermieter-Name", "Fahrzeug Label", "Hersteller", "Fahrzeugtyp", "Stadt", "Region", "Land", "Status"},
		{"Luxusflotte GmbH", "Urus", "Lamborghini", "SUV", "Munchen", "Bayern", "Deutschland", "aktiv"},
		{"Citycars", "G63", "Mercedes", "SUV", "Berlin", "Berlin", "Deutschland", "aktiv"},
	}
	store.tables["inquiries"] = [][]string{
		{"Fahrzeug ID", "Fahrzeugtyp", "Stadt", "Anfragen", "Mieten"},
		{"V-1", "SUV", "Munchen", "4", "2"},
	}
	store.tables["owners"] = [][]string{
		{"Vermieter ID", "Vermieter-Name", "Land", "Region"},
		{"P-1", "Luxusflotte GmbH", "Deutschland", "Bayern"},
	}
	store.tables["missing inventory"] = [][]string{
		{"Stadt", "Region", "Land", "Fahrzeugtyp", "Anzahl fehlend"},
	}
	store.tables["listing_requests"] = [][]string{
		{"Datum", "Kanal", "Region", "Vermieter-Name", "Fahrzeug Label", "Fahrzeugtyp", "Stadt", "Land", "Status", "Status updated at"},
	}
}

func newTestServer(store *fakeStore, geocoder geocode.Client) *httptest.Server {
	srv := New(store, store, geocoder, testTables())
	return httptest.NewServer(srv.Router())
}

func decodeBody(resp *http.Response, dst any) error {
	return json.NewDecoder(resp.Body).Decode(dst)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet,
		"/api/kpis?country=Deutschland&region=Bayern&city=Munchen&vehicleType=SUV&manufacturer=BMW&radius=50&customLat=48.1&customLng=11.5&customLabel=Depot", nil)

	filter := parseFilter(r)
	assert.Equal(t, "Deutschland", filter.Country)
	assert.Equal(t, "Bayern", filter.Region)
	assert.Equal(t, "Munchen", filter.City)
	assert.Equal(t, "SUV", filter.VehicleType)
	assert.Equal(t, "BMW", filter.Manufacturer)
	assert.Equal(t, 50.0, filter.RadiusKm)
	require.NotNil(t, filter.CustomLocation)
	assert.Equal(t, 48.1, filter.CustomLocation.Latitude)
	assert.Equal(t, "Depot", filter.CustomLocation.Label)
}

func TestParseFilterMalformedNumbers(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/kpis?radius=viel&customLat=48.1&customLng=abc", nil)

	filter := parseFilter(r)
	assert.Zero(t, filter.RadiusKm, "a malformed radius is treated as absent")
	assert.Nil(t, filter.CustomLocation, "a custom location needs both coordinates")
}

func TestKpisEndpoint(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/kpis?country=Deutschland")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "s-maxage=300, stale-while-revalidate=60", resp.Header.Get("Cache-Control"))

	var payload model.KpiPayload
	require.NoError(t, decodeBody(resp, &payload))

	assert.Equal(t, 2, payload.Totals.Vehicles)
	assert.Equal(t, 2, payload.Totals.Owners)
	assert.Equal(t, 4, payload.Totals.Inquiries)
	assert.Equal(t, 2, payload.Totals.Rentals)
	assert.Equal(t, 2, payload.Meta.FilteredInventoryRows)
	assert.Equal(t, []string{"Deutschland"}, payload.Meta.AvailableCountries)
}

func TestKpisEndpointFetchFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	store.fetchErr["inventory"] = eris.New("quota exceeded")
	srv := newTestServer(store, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/kpis")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestWriteRoutesNeedStore(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedTables(store)
	srv := httptest.NewServer(New(store, nil, nil, testTables()).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/partners", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
