package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Vermieter-Name", "vermieter_name"},
		{"Straße / Hausnummer", "stra_e_hausnummer"},
		{"Fahrzeugtyp", "fahrzeugtyp"},
		{"  Anzahl fehlend  ", "anzahl_fehlend"},
		{"Letzte Änderung", "letzte_anderung"},
		{"\uFEFFdatum", "datum"},
		{"wie viel Provision bekommen wir?", "wie_viel_provision_bekommen_wir"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestHeaderLookupPick(t *testing.T) {
	t.Parallel()

	lookup := newHeaderLookup([]string{"Vermieter-Name", "Fahrzeug Label", "Stadt"})
	row := []string{"Luxus GmbH", "911 Turbo", "Stuttgart"}

	assert.Equal(t, "911 Turbo", lookup.pick(row, -1, "fahrzeug_label"))
	assert.Equal(t, "Luxus GmbH", lookup.pick(row, -1, "unbekannt", "vermieter_name"))
	assert.Equal(t, "Stuttgart", lookup.pick(row, 2, "nicht_da"), "positional fallback")
	assert.Equal(t, "", lookup.pick(row, 9, "nicht_da"), "fallback out of row bounds")
	assert.Equal(t, "", lookup.pick(row[:1], -1, "stadt"), "matched column beyond short row")
}

func TestParseCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, parseCount("3"))
	assert.Equal(t, 3, parseCount("3.7"))
	assert.Equal(t, 0, parseCount(""))
	assert.Equal(t, 0, parseCount("viele"))
	assert.Equal(t, -2, parseCount("-2"))
}

func TestParseCoordinate(t *testing.T) {
	t.Parallel()

	got := parseCoordinate("48.137154")
	require.NotNil(t, got)
	assert.InDelta(t, 48.137154, *got, 1e-9)

	comma := parseCoordinate("11,576124")
	require.NotNil(t, comma)
	assert.InDelta(t, 11.576124, *comma, 1e-9)

	assert.Nil(t, parseCoordinate(""))
	assert.Nil(t, parseCoordinate("n/a"))
}
