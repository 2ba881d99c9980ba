package geocode

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query_hash   TEXT PRIMARY KEY,
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	display_name TEXT NOT NULL,
	matched      INTEGER NOT NULL,
	cached_at    TEXT NOT NULL
)`

// Cache is a persistent geocode lookup cache backed by a local sqlite
// database. Misses are cached too so repeated unresolvable queries stay
// off the network.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: open cache")
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "geocode: create cache table")
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return eris.Wrap(err, "geocode: close cache")
	}
	return nil
}

// Get looks up a cached result for the query. The second return value
// reports whether an entry existed; a cached miss comes back with
// Matched=false.
func (c *Cache) Get(ctx context.Context, query string) (*Result, bool, error) {
	key := cacheKey(query)

	var lat, lon float64
	var displayName string
	var matched bool

	row := c.db.QueryRowContext(ctx,
		"SELECT latitude, longitude, display_name, matched FROM geocode_cache WHERE query_hash = ?", key)
	if err := row.Scan(&lat, &lon, &displayName, &matched); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, eris.Wrap(err, "geocode: read cache")
	}

	zap.L().Debug("geocode cache hit", zap.String("key", key[:12]), zap.Bool("matched", matched))
	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: displayName,
		Source:      "cache",
		Matched:     matched,
	}, true, nil
}

// Put stores a result (match or miss) for the query.
func (c *Cache) Put(ctx context.Context, query string, result *Result) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (query_hash, latitude, longitude, display_name, matched, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (query_hash) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			display_name = excluded.display_name,
			matched = excluded.matched,
			cached_at = excluded.cached_at`,
		cacheKey(query), result.Latitude, result.Longitude, result.DisplayName, result.Matched,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return eris.Wrap(err, "geocode: store cache")
	}
	return nil
}

// cacheKey returns SHA-256 hex of the normalized query.
func cacheKey(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}
