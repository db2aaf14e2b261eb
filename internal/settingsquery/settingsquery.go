// Package settingsquery implements the peripheral setting_key ->
// setting_value lookup (spec §1, §4.6) and a typed-settings loader built
// on top of it. Both absence and parse failure are silent: the caller
// always gets a usable value, falling back to a documented default.
package settingsquery

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
)

// MaxDescriptionSize is the default account-detail description size cap
// used when the "max_description_size" setting is absent or unparsable.
const MaxDescriptionSize = 64

// DefaultMaxPageSize is the default page size cap used when
// "max_page_size" is absent or unparsable.
const DefaultMaxPageSize = 100

const selectSettingSQL = `SELECT setting_value FROM setting WHERE setting_key = $1`

// Querier is the subset of a pgx connection or pool this package needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetSettingValue executes the single-row lookup. A missing key returns
// ("", false, nil) — absence is not an error at this layer.
func GetSettingValue(ctx context.Context, q Querier, key string) (string, bool, error) {
	var value string
	err := q.QueryRow(ctx, selectSettingSQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("settingsquery: get %q: %w", key, err)
	}
	return value, true, nil
}

// Typed holds the parsed settings this repo's dispatcher consults. Every
// field always carries a usable value: absence or a parse failure on
// its source key silently falls back to the documented default.
type Typed struct {
	MaxDescriptionSize uint32
	MaxPageSize        uint32
}

// LoadTyped loads and parses every known setting, substituting defaults
// on absence or parse failure without surfacing either as an error.
func LoadTyped(ctx context.Context, q Querier) Typed {
	return Typed{
		MaxDescriptionSize: loadUint32(ctx, q, "max_description_size", MaxDescriptionSize),
		MaxPageSize:        loadUint32(ctx, q, "max_page_size", DefaultMaxPageSize),
	}
}

func loadUint32(ctx context.Context, q Querier, key string, fallback uint32) uint32 {
	raw, ok, err := GetSettingValue(ctx, q, key)
	if err != nil || !ok {
		return fallback
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(n)
}

// Cache bounds repeated typed-settings lookups behind an LRU, since the
// settings table changes rarely relative to query volume (spec §4.6:
// "the settings cache ... is mutated elsewhere; this component only
// reads them and MUST tolerate concurrent writers").
type Cache struct {
	inner *lru.Cache[string, Typed]
}

// NewCache creates a bounded settings cache holding up to size entries.
// A single dispatcher process typically only ever populates one entry
// (there is one settings row set), but the cache is keyed by an
// arbitrary generation tag so callers can invalidate by bumping it.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, Typed](size)
	if err != nil {
		return nil, fmt.Errorf("settingsquery: new cache: %w", err)
	}
	return &Cache{inner: c}, nil
}

// Get returns the cached Typed settings for generation, loading and
// caching them via LoadTyped on a miss.
func (c *Cache) Get(ctx context.Context, q Querier, generation string) Typed {
	if v, ok := c.inner.Get(generation); ok {
		return v
	}
	v := LoadTyped(ctx, q)
	c.inner.Add(generation, v)
	return v
}

// Invalidate drops a cached generation, forcing the next Get to reload.
func (c *Cache) Invalidate(generation string) {
	c.inner.Remove(generation)
}
