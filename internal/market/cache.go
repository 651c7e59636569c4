package market

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stockDashboard/internal/finance"
)

// PriceCache persists fetched tables; *storage.Store satisfies it.
type PriceCache interface {
	LoadPrices(ctx context.Context, key string, maxAge time.Duration, now time.Time) (*finance.PriceTable, bool, error)
	SavePrices(ctx context.Context, key string, t *finance.PriceTable, fetchedAt time.Time) error
}

// CachedStore is a read-through cache in front of another PriceStore. Cache
// errors are logged and never fail a fetch.
type CachedStore struct {
	next  PriceStore
	cache PriceCache
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

func NewCachedStore(next PriceStore, cache PriceCache, ttl time.Duration, log zerolog.Logger) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "price_cache").Logger(),
		now:   time.Now,
	}
}

func cacheKey(symbols []string, r Range) string {
	return strings.Join(symbols, ",") + "|" + r.Key()
}

// Fetch implements PriceStore.
func (c *CachedStore) Fetch(ctx context.Context, symbols []string, r Range) (*finance.PriceTable, error) {
	symbols = normalizeSymbols(symbols)
	key := cacheKey(symbols, r)
	now := c.now()

	if c.ttl > 0 {
		t, ok, err := c.cache.LoadPrices(ctx, key, c.ttl, now)
		if err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("price cache read failed")
		} else if ok {
			c.log.Debug().Str("key", key).Msg("price cache hit")
			return t, nil
		}
	}

	t, err := c.next.Fetch(ctx, symbols, r)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		if err := c.cache.SavePrices(ctx, key, t, now); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("price cache write failed")
		}
	}
	return t, nil
}
