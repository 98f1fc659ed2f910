package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"quick-sums/internal/domain"
	"quick-sums/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// Backend is the store a CachedStore reads through to (e.g., Postgres).
type Backend interface {
	SaveRound(ctx context.Context, round domain.RoundResult) error
	Top(ctx context.Context, limit int) ([]domain.HallOfFameEntry, error)
}

// CachedStore caches Top results with TTL to avoid repeated DB hits.
type CachedStore struct {
	backend Backend
	ttl     time.Duration
	clock   func() time.Time
	metrics *metrics.Metrics
	sf      singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	gen   uint64 // bumped by Invalidate; fills started under an older gen are not stored
	cache map[int]cachedTop
}

type cachedTop struct {
	entries   []domain.HallOfFameEntry
	expiresAt time.Time
}

func NewCachedStore(backend Backend, ttl time.Duration, m *metrics.Metrics) *CachedStore {
	return &CachedStore{
		backend: backend,
		ttl:     ttl,
		clock:   time.Now,
		metrics: m,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[int]cachedTop),
	}
}

// SaveRound writes through and drops every cached page.
func (c *CachedStore) SaveRound(ctx context.Context, round domain.RoundResult) error {
	if err := c.backend.SaveRound(ctx, round); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *CachedStore) Top(ctx context.Context, limit int) ([]domain.HallOfFameEntry, error) {
	if limit < 1 {
		return nil, domain.ErrInvalidLimit
	}
	if entries, ok := c.lookup(limit); ok {
		c.metrics.CacheLookup(true)
		return entries, nil
	}
	c.metrics.CacheLookup(false)

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	// gen is part of the key so callers after an Invalidate never join an older fill.
	key := strconv.FormatUint(gen, 10) + ":" + strconv.Itoa(limit)
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		if entries, ok := c.lookup(limit); ok {
			return entries, nil
		}

		entries, err := c.backend.Top(ctx, limit)
		if err != nil {
			return nil, err
		}

		expiresAt := c.clock().Add(c.ttlWithJitter())
		c.mu.Lock()
		if c.gen == gen {
			c.cache[limit] = cachedTop{entries: entries, expiresAt: expiresAt}
		}
		c.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.HallOfFameEntry), nil
}

// Invalidate drops all cached results, e.g. after another process recorded a round.
func (c *CachedStore) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	clear(c.cache)
}

func (c *CachedStore) lookup(limit int) ([]domain.HallOfFameEntry, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[limit]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.entries, true
}

func (c *CachedStore) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
