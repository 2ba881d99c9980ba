package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gvizFixture = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","table":{
"cols":[{"id":"A","label":"Vermieter-Name"},{"id":"B","label":"Fahrzeug Label"},{"id":"C","label":""}],
"rows":[
{"c":[{"v":"Luxusflotte GmbH"},{"v":"Urus"},{"v":3}]},
{"c":[{"v":"Citycars"},null,{"v":true}]},
{"c":[{"v":"Kurz"}]}
]}});`

func TestGVizFetchTable(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "inventory", r.URL.Query().Get("sheet"))
		assert.Equal(t, "out:json", r.URL.Query().Get("tqx"))
		_, _ = w.Write([]byte(gvizFixture))
	}))
	defer srv.Close()

	client := NewGVizClient("doc-123", WithBaseURL(srv.URL))
	matrix, err := client.FetchTable(context.Background(), "inventory", "")
	require.NoError(t, err)

	assert.Equal(t, "/spreadsheets/d/doc-123/gviz/tq", gotPath)
	require.Len(t, matrix, 4)
	assert.Equal(t, []string{"Vermieter-Name", "Fahrzeug Label", "C"}, matrix[0], "unlabeled columns fall back to the column id")
	assert.Equal(t, []string{"Luxusflotte GmbH", "Urus", "3"}, matrix[1])
	assert.Equal(t, []string{"Citycars", "", "true"}, matrix[2], "null cells become empty strings")
	assert.Equal(t, []string{"Kurz", "", ""}, matrix[3], "short rows are padded to the table width")
}

func TestGVizFetchTableRangeParam(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "A1:C10", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(gvizFixture))
	}))
	defer srv.Close()

	client := NewGVizClient("doc-123", WithBaseURL(srv.URL))
	_, err := client.FetchTable(context.Background(), "inventory", "A1:C10")
	require.NoError(t, err)
}

func TestGVizFetchTableErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing document id", func(t *testing.T) {
		t.Parallel()
		client := NewGVizClient("")
		_, err := client.FetchTable(context.Background(), "inventory", "")
		require.Error(t, err)
	})

	t.Run("http error status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := NewGVizClient("doc-123", WithBaseURL(srv.URL))
		_, err := client.FetchTable(context.Background(), "inventory", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 403")
	})

	t.Run("broken envelope", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<!DOCTYPE html><html>sign in required</html>`))
		}))
		defer srv.Close()

		client := NewGVizClient("doc-123", WithBaseURL(srv.URL))
		_, err := client.FetchTable(context.Background(), "inventory", "")
		require.Error(t, err)
	})
}

func TestCellString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "Berlin", cellString("Berlin"))
	assert.Equal(t, "3", cellString(float64(3)))
	assert.Equal(t, "48.137154", cellString(48.137154))
	assert.Equal(t, "true", cellString(true))
}

func TestPadMatrix(t *testing.T) {
	t.Parallel()

	padded := PadMatrix([][]string{
		{"a", "b", "c"},
		{"d"},
		{},
	})
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"d", "", ""},
		{"", "", ""},
	}, padded)

	assert.Empty(t, PadMatrix(nil))
}
