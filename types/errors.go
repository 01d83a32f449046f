package types

import "errors"

var (
	// ErrInvalidKey is returned for an empty key, before any lookup happens.
	ErrInvalidKey = errors.New("invalid cache key")

	// ErrInvalidTTL is returned for a negative TTL.
	ErrInvalidTTL = errors.New("invalid ttl")

	// ErrNilCompute is returned when GetOrCompute is called without a compute function.
	ErrNilCompute = errors.New("nil compute function")

	// ErrComputePanicked wraps the recovered value of a compute function that panicked.
	ErrComputePanicked = errors.New("compute function panicked")

	// ErrClosed is returned by a cache after Close.
	ErrClosed = errors.New("cache closed")
)
