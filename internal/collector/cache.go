package collector

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/ternarybob/arbor"

	"TWStockDesk/internal/metrics"
	"TWStockDesk/internal/model"
)

// Store is a byte cache with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// entry wraps a cached value with expiry and insertion order tracking.
type entry struct {
	value     []byte
	expiry    time.Time
	insertIdx int64
}

// MemoryStore is a process-local Store. Entries expire after ttl; when full,
// the oldest insertion is evicted. Safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given TTL and max entry count.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &MemoryStore{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a cached value if found and not expired.
func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(e.expiry) {
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && c.now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores a value. Evicts the oldest entry if at capacity.
func (c *MemoryStore) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		value:     value,
		expiry:    c.now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}
	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}
	c.items[key] = e
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

// RedisStore is a Store shared between processes through Redis key expiry.
type RedisStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	logger arbor.ILogger
}

// NewRedisStore connects to addr and verifies the connection with PING.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration, logger arbor.ILogger) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client, prefix: "twstockdesk:", ttl: ttl, logger: logger}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("redis cache get failed")
		}
		return nil, false
	}
	return val, true
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("redis cache set failed")
	}
}

// Close releases the Redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// CachingFetcher memoizes a Fetcher's successful results in a Store keyed by
// (kind, symbol, lookback). Errors and empty bar series are never cached, so a
// failed symbol is retried on the next request; entries expire with the store TTL.
type CachingFetcher struct {
	next    Fetcher
	store   Store
	metrics *metrics.Metrics
	logger  arbor.ILogger
}

// NewCachingFetcher wraps next with store.
func NewCachingFetcher(next Fetcher, store Store, m *metrics.Metrics, logger arbor.ILogger) *CachingFetcher {
	return &CachingFetcher{next: next, store: store, metrics: m, logger: logger}
}

func (c *CachingFetcher) Name() string { return c.next.Name() }

func cacheKey(kind, symbol, lookback string) string {
	return kind + ":" + symbol + ":" + lookback
}

func (c *CachingFetcher) FetchDailyBars(ctx context.Context, symbol, lookback string) ([]model.OHLCV, error) {
	key := cacheKey("bars", symbol, lookback)
	var bars []model.OHLCV
	if c.lookup(ctx, "bars", key, &bars) {
		return bars, nil
	}

	start := time.Now()
	bars, err := c.next.FetchDailyBars(ctx, symbol, lookback)
	c.metrics.ObserveFetch(c.next.Name(), "bars", start, err)
	if err != nil {
		return nil, err
	}
	if len(bars) > 0 {
		c.save(ctx, key, bars)
	}
	return bars, nil
}

func (c *CachingFetcher) FetchDividends(ctx context.Context, symbol, lookback string) ([]model.DividendPayment, error) {
	key := cacheKey("div", symbol, lookback)
	var payments []model.DividendPayment
	if c.lookup(ctx, "div", key, &payments) {
		return payments, nil
	}

	start := time.Now()
	payments, err := c.next.FetchDividends(ctx, symbol, lookback)
	c.metrics.ObserveFetch(c.next.Name(), "div", start, err)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, payments)
	return payments, nil
}

func (c *CachingFetcher) lookup(ctx context.Context, kind, key string, out interface{}) bool {
	data, ok := c.store.Get(ctx, key)
	if ok {
		if err := json.Unmarshal(data, out); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
			ok = false
		}
	}
	c.metrics.ObserveCache(kind, ok)
	return ok
}

func (c *CachingFetcher) save(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	c.store.Set(ctx, key, data)
}
