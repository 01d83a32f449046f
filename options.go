package cache

import (
	"github.com/krisalay/compute-cache/clock"
	"github.com/krisalay/compute-cache/engine"
	"github.com/krisalay/compute-cache/eviction"
	"github.com/krisalay/compute-cache/expiration"
	"github.com/krisalay/compute-cache/shard"
	"github.com/krisalay/compute-cache/types"
)

// Re-exported so callers rarely need the types package.
var (
	ErrInvalidKey      = types.ErrInvalidKey
	ErrInvalidTTL      = types.ErrInvalidTTL
	ErrNilCompute      = types.ErrNilCompute
	ErrComputePanicked = types.ErrComputePanicked
	ErrClosed          = types.ErrClosed
)

// Permanent keeps a value until it is invalidated.
const Permanent = types.Permanent

// DefaultShards is used when Config.Shards is not set.
const DefaultShards = 8

/*
Config describes a cache built by New. The zero value is a usable,
unbounded cache with absolute TTLs, the system clock and no metrics.
*/
type Config struct {
	Shards     int
	Capacity   int // 0 = unbounded
	Eviction   eviction.PolicyType
	Expiration expiration.Strategy
	Clock      clock.Clock
	Metrics    types.Metrics
}

// New builds a ComputeCache on a sharded in-memory store.
func New(cfg Config) (*ComputeCache, error) {
	shards := cfg.Shards
	if shards <= 0 {
		shards = DefaultShards
	}

	store, err := shard.NewSharded(shards, cfg.Capacity, cfg.Eviction)
	if err != nil {
		return nil, err
	}

	eng := engine.NewCacheEngine(cfg.Expiration, cfg.Clock, cfg.Metrics)
	return NewComputeCache(store, eng), nil
}
