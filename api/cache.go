package cache

import (
	"context"

	"github.com/krisalay/compute-cache/types"
)

/*
Cache is the public contract of the compute cache.
Sharding, expiry strategy, eviction, single flight and metrics are all hidden
behind it.
*/
type Cache interface {

	/*
		GetOrCompute returns the value for key, computing it with fn when needed.

		BEHAVIOR:
		-------------------
		1. A live entry exists:
		   - Return it with Hit = true and Latency = 0

		2. No live entry:
		   - Run fn (one run per key no matter how many callers ask)
		   - Store the value with ttl
		   - Return it with Hit = false and the time fn took

		3. fn fails:
		   - Nothing is stored or overwritten
		   - The error is returned as-is, never cached, never retried
	*/
	GetOrCompute(ctx context.Context, key string, fn types.ComputeFunc, ttl types.TTL) (types.Result, error)

	/*
		Invalidate removes key so the next read recomputes.
		Returns whether an entry existed. Invalidating an absent key is not an error.
	*/
	Invalidate(key string) bool

	// Clear removes every entry.
	Clear()

	// Peek returns the live value for key without computing or touching stats and timers.
	Peek(key string) (any, bool)

	// Stats returns a snapshot of the cache counters.
	Stats() types.Stats

	// Close releases the cache. Later GetOrCompute calls fail with types.ErrClosed.
	Close()
}
