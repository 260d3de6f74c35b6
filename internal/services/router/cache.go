package router

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hqminh2201/evm-route-engine/internal/domain"
	"github.com/hqminh2201/evm-route-engine/internal/metrics"
)

// Clock injects time into the cache so tests control staleness
// deterministically.
type Clock func() time.Time

type cacheEntry struct {
	at     time.Time
	mode   domain.TradeMode
	amount *big.Int
	quote  *domain.QuoteCandidate
}

// QuoteCache holds per-router best quotes keyed by
// (chainID, router, tokenIn, tokenOut, mode). An entry is served only while
// its age is under the TTL and the requested amount sits within the
// tolerance band of the cached amount. Size-bounded by LRU eviction.
type QuoteCache struct {
	entries      *lru.Cache[string, cacheEntry]
	ttl          time.Duration
	toleranceBps int64
	now          Clock
}

func NewQuoteCache(size int, ttl time.Duration, toleranceBps int64, now Clock) (*QuoteCache, error) {
	if now == nil {
		now = time.Now
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &QuoteCache{
		entries:      entries,
		ttl:          ttl,
		toleranceBps: toleranceBps,
		now:          now,
	}, nil
}

// CacheKey builds the canonical lowercase cache key.
func CacheKey(chainID int64, router, tokenIn, tokenOut common.Address, mode domain.TradeMode) string {
	return strings.ToLower(fmt.Sprintf("%d:%s:%s:%s:%s",
		chainID, router.Hex(), tokenIn.Hex(), tokenOut.Hex(), mode))
}

// Get returns the cached quote when it is fresh and the requested amount is
// within the tolerance band, nil otherwise. Stale entries are evicted on
// read.
func (c *QuoteCache) Get(key string, amount *big.Int) *domain.QuoteCandidate {
	e, ok := c.entries.Get(key)
	if !ok {
		metrics.QuoteCacheMisses.Inc()
		return nil
	}
	if c.now().Sub(e.at) >= c.ttl {
		c.entries.Remove(key)
		metrics.QuoteCacheSize.Set(float64(c.entries.Len()))
		metrics.QuoteCacheMisses.Inc()
		return nil
	}
	if amount == nil || !WithinTolerance(e.amount, amount, c.toleranceBps) {
		metrics.QuoteCacheMisses.Inc()
		return nil
	}
	metrics.QuoteCacheHits.Inc()
	return e.quote
}

// Put stores or overwrites the entry for key.
func (c *QuoteCache) Put(key string, amount *big.Int, mode domain.TradeMode, quote *domain.QuoteCandidate) {
	c.entries.Add(key, cacheEntry{
		at:     c.now(),
		mode:   mode,
		amount: new(big.Int).Set(amount),
		quote:  quote,
	})
	metrics.QuoteCacheSize.Set(float64(c.entries.Len()))
}

// Delete drops the entry for key, if any. Called when a router produced no
// viable quote so the next request goes back on-chain.
func (c *QuoteCache) Delete(key string) {
	c.entries.Remove(key)
	metrics.QuoteCacheSize.Set(float64(c.entries.Len()))
}

func (c *QuoteCache) Len() int {
	return c.entries.Len()
}
