package types

import "time"

// This file defines how the cache reports what it is doing.

/*
Metrics receives one call per cache event.
Implementations must be safe for concurrent use; the cache calls them from
every goroutine that touches it.
*/
type Metrics interface {

	// Hit is called when GetOrCompute is served from stored state.
	Hit()

	// Miss is called when GetOrCompute finds no live entry.
	Miss()

	// Computed is called after a compute function returned successfully.
	Computed(latency time.Duration)

	// ComputeFailed is called after a compute function returned an error or panicked.
	ComputeFailed(latency time.Duration)

	// Invalidate is called when an entry is removed by Invalidate or Clear.
	Invalidate(n int)

	// Expire is called when a read finds an entry past its TTL and removes it.
	Expire()

	// Eviction is called when an entry is removed to make room.
	Eviction()
}

/*
NoopMetrics ignores every event.

The engine falls back to it when no Metrics is configured so the rest of the
code can call metrics unconditionally.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()                        {}
func (NoopMetrics) Miss()                       {}
func (NoopMetrics) Computed(time.Duration)      {}
func (NoopMetrics) ComputeFailed(time.Duration) {}
func (NoopMetrics) Invalidate(int)              {}
func (NoopMetrics) Expire()                     {}
func (NoopMetrics) Eviction()                   {}
