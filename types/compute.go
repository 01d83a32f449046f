package types

import "time"

// ComputeFunc produces the value for a cache key.
// It is supplied per call and never retained by the cache.
type ComputeFunc func() (any, error)

// Result is what a GetOrCompute call observed.
type Result struct {
	Value any

	// Hit is true when the value came from stored state without computing.
	Hit bool

	// Latency is the wall-clock duration of the compute function. Always 0 on a hit.
	Latency time.Duration

	// Shared is true when this caller waited on a computation started by another caller.
	Shared bool
}

// Access describes the most recent GetOrCompute call on a cache.
type Access struct {
	Key     string
	Hit     bool
	Latency time.Duration
	At      time.Time
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits          int64
	Misses        int64
	Computes      int64
	ComputeErrors int64
	Invalidations int64
	Expirations   int64
	Evictions     int64
	Entries       int
	HitRate       float64
	LastAccess    Access
}
