// Package geocode resolves free-form addresses to coordinates via the
// Nominatim search API, with an offline city-centroid fallback.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ChrisDrivar/drivar-dashboard/internal/geo"
)

// DefaultBaseURL is the public Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client resolves addresses to coordinates.
type Client interface {
	// Geocode resolves a single address. An unmatched address is not an
	// error; callers check Result.Matched.
	Geocode(ctx context.Context, addr AddressInput) (*Result, error)
}

// AddressInput represents an address to geocode. All fields are optional;
// empty fields are dropped from the query.
type AddressInput struct {
	Street  string
	City    string
	Region  string
	Country string
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	Source      string // "nominatim", "fallback" or "cache"
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithBaseURL overrides the Nominatim endpoint, e.g. for a self-hosted
// instance or a test server.
func WithBaseURL(baseURL string) Option {
	return func(g *geocoder) {
		g.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for Nominatim calls.
// The public instance requires at most one request per second.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header sent to Nominatim. The public
// instance rejects requests without an identifying agent.
func WithUserAgent(agent string) Option {
	return func(g *geocoder) {
		g.userAgent = agent
	}
}

// WithCache attaches a persistent lookup cache.
func WithCache(cache *Cache) Option {
	return func(g *geocoder) {
		g.cache = cache
	}
}

type geocoder struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	cache      *Cache
}

// NewClient creates a geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(1, 1),
		userAgent:  "drivar-dashboard",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode resolves an address by trying progressively broader Nominatim
// queries, then the offline city-centroid table. Each variant result,
// including a miss, is cached so repeated lookups stay off the network.
func (g *geocoder) Geocode(ctx context.Context, addr AddressInput) (*Result, error) {
	for _, query := range queryVariants(addr) {
		if g.cache != nil {
			if cached, ok, err := g.cache.Get(ctx, query); err == nil && ok {
				if cached.Matched {
					return cached, nil
				}
				continue
			}
		}

		result, err := g.searchNominatim(ctx, query)
		if err != nil {
			return nil, err
		}
		if g.cache != nil {
			_ = g.cache.Put(ctx, query, result)
		}
		if result.Matched {
			return result, nil
		}
	}

	if coord, ok := geo.ResolveCityFallback(addr.City, geo.FallbackCountries(addr.Country)); ok {
		var parts []string
		for _, p := range []string{addr.City, addr.Country} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		return &Result{
			Latitude:    coord.Latitude,
			Longitude:   coord.Longitude,
			DisplayName: strings.Join(parts, ", "),
			Source:      "fallback",
			Matched:     true,
		}, nil
	}

	return &Result{Matched: false}, nil
}
