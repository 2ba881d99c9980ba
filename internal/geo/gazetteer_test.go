package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCity(t *testing.T) {
	t.Parallel()

	c, ok := ResolveCity("Munchen", "Deutschland")
	require.True(t, ok)
	assert.InDelta(t, 48.137154, c.Latitude, 1e-6)
	assert.InDelta(t, 11.576124, c.Longitude, 1e-6)

	alias, ok := ResolveCity("Munich", "de")
	require.True(t, ok)
	assert.Equal(t, c, alias)

	_, ok = ResolveCity("München", "Deutschland")
	assert.False(t, ok, "umlaut spelling does not resolve")

	_, ok = ResolveCity("", "Deutschland")
	assert.False(t, ok)

	_, ok = ResolveCity("Atlantis", "Deutschland")
	assert.False(t, ok)
}

func TestResolveCityFallback(t *testing.T) {
	t.Parallel()

	c, ok := ResolveCityFallback("Zurich", []string{"de", "ch"})
	require.True(t, ok)
	assert.InDelta(t, 47.376887, c.Latitude, 1e-6)

	// Wien resolves through the full fallback order even without a country.
	c, ok = ResolveCityFallback("Wien", FallbackCountries())
	require.True(t, ok)
	assert.InDelta(t, 48.208174, c.Latitude, 1e-6)

	_, ok = ResolveCityFallback("Atlantis", FallbackCountries("Deutschland"))
	assert.False(t, ok)

	_, ok = ResolveCityFallback("", FallbackCountries())
	assert.False(t, ok)
}

func TestFallbackCountries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"de", "at", "ch", "uk", "us", "ae", "au"}, FallbackCountries())

	// The extra candidate leads, duplicates collapse on the normalized code.
	withCountry := FallbackCountries("Deutschland")
	assert.Equal(t, "Deutschland", withCountry[0])
	assert.Len(t, withCountry, 7)

	withForeign := FallbackCountries("Frankreich")
	assert.Equal(t, "Frankreich", withForeign[0])
	assert.Len(t, withForeign, 8)
}
