package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// nominatimPlace is one entry of the Nominatim /search JSON response.
// Coordinates come back as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// queryVariants builds the query ladder for an address, from most to least
// specific. Duplicate queries produced by empty fields are collapsed.
func queryVariants(addr AddressInput) []string {
	street := strings.TrimSpace(addr.Street)
	city := strings.TrimSpace(addr.City)
	region := strings.TrimSpace(addr.Region)
	country := strings.TrimSpace(addr.Country)

	candidates := [][]string{
		{street, city, region, country},
		{city, region, country},
		{city, country},
		{region, country},
	}

	var variants []string
	seen := make(map[string]struct{})
	for _, parts := range candidates {
		var nonEmpty []string
		for _, p := range parts {
			if p != "" {
				nonEmpty = append(nonEmpty, p)
			}
		}
		if len(nonEmpty) == 0 {
			continue
		}
		query := strings.Join(nonEmpty, ", ")
		if _, dup := seen[query]; dup {
			continue
		}
		seen[query] = struct{}{}
		variants = append(variants, query)
	}
	return variants
}

// searchNominatim runs a single /search query. An empty result set is
// returned as an unmatched Result, not an error.
func (g *geocoder) searchNominatim(ctx context.Context, query string) (*Result, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limit")
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	reqURL := strings.TrimSuffix(g.baseURL, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept-Language", "de,en")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrap(err, "geocode: parse response")
	}
	if len(places) == 0 {
		return &Result{Matched: false, Source: "nominatim"}, nil
	}

	place := places[0]
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: parse lat %q", place.Lat)
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: parse lon %q", place.Lon)
	}

	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: place.DisplayName,
		Source:      "nominatim",
		Matched:     true,
	}, nil
}
