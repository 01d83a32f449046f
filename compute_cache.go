package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	api "github.com/krisalay/compute-cache/api"
	"github.com/krisalay/compute-cache/engine"
	"github.com/krisalay/compute-cache/shard"
	"github.com/krisalay/compute-cache/types"
	"golang.org/x/sync/singleflight"
)

/*
ComputeCache maps keys to lazily computed, memoized values.

It connects:
- a storage backend (shard.Store)
- the policy engine (expiry, clock, metrics)
- a single-flight group so one key is never computed twice at once
*/
type ComputeCache struct {
	store  shard.Store
	engine *engine.CacheEngine

	// sf collapses concurrent misses for the same key into one computation.
	// Flights are keyed by epoch and key; Clear bumps epoch so no caller
	// arriving after it can join a computation started before it.
	sf    singleflight.Group
	epoch atomic.Uint64

	closed atomic.Bool

	hits          atomic.Int64
	misses        atomic.Int64
	computes      atomic.Int64
	computeErrors atomic.Int64
	invalidations atomic.Int64
	expirations   atomic.Int64
	evictions     atomic.Int64

	lastMu sync.Mutex
	last   types.Access
}

var _ api.Cache = (*ComputeCache)(nil)

// flight is what one computation hands back to everyone who waited on it.
type flight struct {
	value   any
	hit     bool
	latency time.Duration
}

// NewComputeCache wires a cache around store and engine.
func NewComputeCache(store shard.Store, engine *engine.CacheEngine) *ComputeCache {
	return &ComputeCache{store: store, engine: engine}
}

/*
GetOrCompute returns the live value for key or computes, stores and returns it.

If ctx ends while this caller waits, ctx.Err() is returned. The computation
keeps running and its result is still stored for later readers.
*/
func (c *ComputeCache) GetOrCompute(ctx context.Context, key string, fn types.ComputeFunc, ttl types.TTL) (types.Result, error) {
	if key == "" {
		return types.Result{}, types.ErrInvalidKey
	}
	if ttl < 0 {
		return types.Result{}, types.ErrInvalidTTL
	}
	if fn == nil {
		return types.Result{}, types.ErrNilCompute
	}
	if c.closed.Load() {
		return types.Result{}, types.ErrClosed
	}

	if ent, ok := c.lookup(key); ok {
		c.hits.Add(1)
		c.engine.Metrics.Hit()
		res := types.Result{Value: ent.Value, Hit: true}
		c.record(key, res)
		return res, nil
	}

	c.misses.Add(1)
	c.engine.Metrics.Miss()

	ch := c.sf.DoChan(c.flightKey(key), func() (any, error) {
		return c.compute(key, fn, ttl)
	})

	select {
	case <-ctx.Done():
		return types.Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return types.Result{}, r.Err
		}
		f := r.Val.(flight)
		res := types.Result{
			Value:   f.value,
			Hit:     f.hit,
			Latency: f.latency,
			Shared:  r.Shared,
		}
		c.record(key, res)
		return res, nil
	}
}

// compute runs inside the single flight for key.
func (c *ComputeCache) compute(key string, fn types.ComputeFunc, ttl types.TTL) (any, error) {
	// A flight that finished just before this one started may have stored the value already.
	if ent, ok := c.lookup(key); ok {
		return flight{value: ent.Value, hit: true}, nil
	}

	ticket := c.store.Begin(key)

	value, latency, finished, err := c.engine.Compute(fn)
	if err != nil {
		c.computeErrors.Add(1)
		c.store.Abandon(ticket)
		return nil, err
	}
	c.computes.Add(1)

	ent := c.engine.NewEntry(key, value, ttl, finished)
	if _, evicted := c.store.Commit(ticket, ent); len(evicted) > 0 {
		c.evictions.Add(int64(len(evicted)))
		for range evicted {
			c.engine.Metrics.Eviction()
		}
	}

	return flight{value: value, latency: latency}, nil
}

func (c *ComputeCache) flightKey(key string) string {
	return strconv.FormatUint(c.epoch.Load(), 10) + "\x00" + key
}

func (c *ComputeCache) lookup(key string) (types.CacheEntry, bool) {
	ent, st := c.store.Lookup(key, c.engine.IsExpired, c.engine.OnRead)
	if st == shard.Expired {
		c.expirations.Add(1)
		c.engine.Metrics.Expire()
	}
	return ent, st == shard.Found
}

/*
Invalidate removes key. Any computation of key already in progress is
forgotten: its callers still get its result, but it will not be stored.
*/
func (c *ComputeCache) Invalidate(key string) bool {
	if key == "" {
		return false
	}
	c.sf.Forget(c.flightKey(key))
	existed := c.store.Delete(key)
	if existed {
		c.invalidations.Add(1)
		c.engine.Metrics.Invalidate(1)
	}
	return existed
}

// Clear removes every entry and disowns every computation in progress.
func (c *ComputeCache) Clear() {
	c.epoch.Add(1)
	n := c.store.Clear()
	if n > 0 {
		c.invalidations.Add(int64(n))
		c.engine.Metrics.Invalidate(n)
	}
}

// Peek is a pure read: no computation, no stats, no expiry-timer movement.
func (c *ComputeCache) Peek(key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	ent, ok := c.store.Get(key)
	if !ok || c.engine.IsExpired(ent) {
		return nil, false
	}
	return ent.Value, true
}

// Len returns the number of stored entries.
func (c *ComputeCache) Len() int {
	return c.store.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *ComputeCache) Stats() types.Stats {
	s := types.Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Computes:      c.computes.Load(),
		ComputeErrors: c.computeErrors.Load(),
		Invalidations: c.invalidations.Load(),
		Expirations:   c.expirations.Load(),
		Evictions:     c.evictions.Load(),
		Entries:       c.store.Len(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}

	c.lastMu.Lock()
	s.LastAccess = c.last
	c.lastMu.Unlock()
	return s
}

// Close marks the cache closed and drops all entries.
func (c *ComputeCache) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.epoch.Add(1)
	c.store.Clear()
}

func (c *ComputeCache) record(key string, res types.Result) {
	c.lastMu.Lock()
	c.last = types.Access{Key: key, Hit: res.Hit, Latency: res.Latency, At: c.engine.Now()}
	c.lastMu.Unlock()
}
