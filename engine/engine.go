package engine

import (
	"fmt"
	"time"

	"github.com/krisalay/compute-cache/clock"
	"github.com/krisalay/compute-cache/expiration"
	"github.com/krisalay/compute-cache/types"
)

/*
CacheEngine is the policy layer of the compute cache.

It decides:
- When an entry is expired
- What a hit does to an entry's timers
- How a freshly computed value becomes an entry
- How a compute function is timed and guarded
- Where events are reported

It does NOT:
- Store data
- Lock anything
- Pick shards or eviction victims
*/
type CacheEngine struct {

	// Expiration decides when an entry stops being live. Absolute by default.
	Expiration expiration.Strategy

	// Clock is the only time source the cache uses, for expiry and latency alike.
	Clock clock.Clock

	// Metrics receives hit, miss, compute and removal events.
	Metrics types.Metrics
}

/*
NewCacheEngine creates a CacheEngine. Any nil argument falls back to its
default (Absolute expiration, the system clock, NoopMetrics).
*/
func NewCacheEngine(
	exp expiration.Strategy,
	clk clock.Clock,
	metrics types.Metrics,
) *CacheEngine {

	if exp == nil {
		exp = expiration.Absolute{}
	}
	if clk == nil {
		clk = clock.System{}
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine{
		Expiration: exp,
		Clock:      clk,
		Metrics:    metrics,
	}
}

// Now reads the engine clock.
func (e *CacheEngine) Now() time.Time {
	return e.Clock.Now()
}

// IsExpired checks an entry against the configured strategy at the current clock time.
func (e *CacheEngine) IsExpired(ent types.CacheEntry) bool {
	return e.Expiration.IsExpired(ent, e.Clock.Now())
}

// OnRead is called for every hit, with the shard lock held.
func (e *CacheEngine) OnRead(ent *types.CacheEntry) {
	e.Expiration.OnAccess(ent, e.Clock.Now())
}

// NewEntry turns a computed value into an entry stamped at computedAt.
func (e *CacheEngine) NewEntry(key string, value any, ttl types.TTL, computedAt time.Time) types.CacheEntry {
	ent := types.CacheEntry{
		Key:   key,
		Value: value,
		TTL:   ttl,
	}
	e.Expiration.OnWrite(&ent, computedAt)
	return ent
}

/*
Compute runs fn and measures how long it took.

A panic inside fn is recovered and returned as an error wrapping
types.ErrComputePanicked. Errors returned by fn come back untouched.
*/
func (e *CacheEngine) Compute(fn types.ComputeFunc) (value any, latency time.Duration, finished time.Time, err error) {
	start := e.Clock.Now()

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", types.ErrComputePanicked, r)
			}
		}()
		value, err = fn()
	}()

	finished = e.Clock.Now()
	latency = finished.Sub(start)
	if latency < 0 {
		latency = 0
	}

	if err != nil {
		e.Metrics.ComputeFailed(latency)
		return nil, latency, finished, err
	}
	e.Metrics.Computed(latency)
	return value, latency, finished, nil
}
