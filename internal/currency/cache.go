package currency

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/tripledger/internal/metrics"
)

// DefaultTTL is how long a fetched rate table is considered fresh.
const DefaultTTL = time.Hour

// Snapshot is a rate table as returned by the cache.
type Snapshot struct {
	Base      string
	Rates     RateTable
	FetchedAt time.Time
	// Stale is set when the provider could not be reached and the table is
	// either an expired copy or empty.
	Stale bool
}

type cacheEntry struct {
	rates     RateTable
	fetchedAt time.Time
}

// Cache keeps one rate table per base currency and refreshes it from a
// Provider once it is older than the TTL. It is safe for concurrent use.
type Cache struct {
	provider Provider
	ttl      time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCache creates a cache backed by provider. A non-positive ttl uses DefaultTTL.
func NewCache(provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]cacheEntry),
	}
}

// Get returns the rate table for base. Fresh entries are served from memory;
// otherwise the table is refreshed. When the refresh fails the expired table
// is returned (or an empty one if none was ever fetched), marked Stale.
func (c *Cache) Get(ctx context.Context, base string) Snapshot {
	base = strings.ToUpper(base)

	c.mu.RLock()
	entry, ok := c.entries[base]
	c.mu.RUnlock()

	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		metrics.RateCacheResults.WithLabelValues("hit").Inc()
		return Snapshot{Base: base, Rates: entry.rates.Clone(), FetchedAt: entry.fetchedAt}
	}

	snap, err := c.refresh(ctx, base, false)
	if err == nil {
		return snap
	}

	if ok {
		slog.Warn("Using stale exchange rates", "base", base, "fetched_at", entry.fetchedAt, "error", err)
		metrics.RateCacheResults.WithLabelValues("stale").Inc()
		return Snapshot{Base: base, Rates: entry.rates.Clone(), FetchedAt: entry.fetchedAt, Stale: true}
	}

	slog.Error("No exchange rates available", "base", base, "error", err)
	metrics.RateCacheResults.WithLabelValues("empty").Inc()
	return Snapshot{Base: base, Rates: RateTable{}, Stale: true}
}

// Refresh fetches a new table for base and stores it. Concurrent refreshes
// of the same base share a single provider call.
func (c *Cache) Refresh(ctx context.Context, base string) (Snapshot, error) {
	return c.refresh(ctx, base, true)
}

func (c *Cache) refresh(ctx context.Context, base string, force bool) (Snapshot, error) {
	base = strings.ToUpper(base)

	v, err, _ := c.group.Do(base, func() (interface{}, error) {
		if !force {
			// another caller may have refreshed while we waited
			c.mu.RLock()
			entry, ok := c.entries[base]
			c.mu.RUnlock()
			if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
				return entry, nil
			}
		}

		// Waiters share this fetch, so one caller's cancellation must not
		// fail it. The provider's own timeout still bounds it.
		rates, err := c.provider.FetchRates(context.WithoutCancel(ctx), base)
		if err != nil {
			return nil, err
		}
		entry := cacheEntry{rates: rates, fetchedAt: c.now()}

		c.mu.Lock()
		c.entries[base] = entry
		c.mu.Unlock()

		slog.Info("Exchange rates refreshed", "base", base, "currencies", len(rates))
		metrics.RateCacheResults.WithLabelValues("refresh").Inc()
		return entry, nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	entry := v.(cacheEntry)
	return Snapshot{Base: base, Rates: entry.rates.Clone(), FetchedAt: entry.fetchedAt}, nil
}
