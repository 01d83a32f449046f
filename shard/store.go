package shard

import (
	"github.com/krisalay/compute-cache/eviction"
	"github.com/krisalay/compute-cache/types"
)

// Status is the outcome of a Lookup.
type Status int

const (
	Missing Status = iota
	Found
	Expired
)

// Ticket authorizes one computation to store its result.
type Ticket struct {
	Key string
	seq uint64
}

/*
Store is the storage backend of the compute cache.

Entries go in through Begin/Commit so that a Delete or Clear issued while a
value is being computed wins over the late result.
*/
type Store interface {

	// Lookup returns a copy of the live entry for key. If expired reports the
	// entry dead it is removed before returning Expired. touch runs on hits
	// with the lock held and may update access metadata.
	Lookup(key string, expired func(types.CacheEntry) bool, touch func(*types.CacheEntry)) (types.CacheEntry, Status)

	// Get returns a copy of the stored entry without side effects.
	Get(key string) (types.CacheEntry, bool)

	// Begin issues a ticket for a computation of key.
	Begin(key string) Ticket

	// Commit stores ent if the ticket is still current. It returns whether
	// the entry was stored and the keys evicted to make room.
	Commit(t Ticket, ent types.CacheEntry) (bool, []string)

	// Abandon releases a ticket whose computation failed.
	Abandon(t Ticket)

	// Delete removes key and invalidates its outstanding ticket.
	Delete(key string) bool

	// Clear removes every entry and ticket, returning how many entries went.
	Clear() int

	// Len returns the number of stored entries, expired ones included.
	Len() int
}

// Sharded is the default Store: a fixed set of mutex-guarded maps.
type Sharded struct {
	shards   []*Shard
	selector Selector
}

/*
NewSharded creates a store with n shards. capacity bounds the total number
of entries (split evenly, at least one per shard); 0 means unbounded and
policy is ignored.
*/
func NewSharded(n, capacity int, policy eviction.PolicyType) (*Sharded, error) {
	if n <= 0 {
		n = 1
	}

	perShard := 0
	if capacity > 0 {
		perShard = capacity / n
		if perShard < 1 {
			perShard = 1
		}
	}

	s := make([]*Shard, n)
	for i := range s {
		var ev eviction.Policy
		if perShard > 0 {
			p, err := eviction.NewEvictionPolicy(policy)
			if err != nil {
				return nil, err
			}
			ev = p
		}
		s[i] = newShard(perShard, ev)
	}

	return &Sharded{shards: s, selector: HashSelector{}}, nil
}

func (s *Sharded) shard(key string) *Shard {
	return s.shards[s.selector.Select(key, len(s.shards))]
}

func (s *Sharded) Lookup(key string, expired func(types.CacheEntry) bool, touch func(*types.CacheEntry)) (types.CacheEntry, Status) {
	return s.shard(key).lookup(key, expired, touch)
}

func (s *Sharded) Get(key string) (types.CacheEntry, bool) {
	return s.shard(key).get(key)
}

func (s *Sharded) Begin(key string) Ticket {
	return Ticket{Key: key, seq: s.shard(key).begin(key)}
}

func (s *Sharded) Commit(t Ticket, ent types.CacheEntry) (bool, []string) {
	return s.shard(t.Key).commit(t.Key, t.seq, ent)
}

func (s *Sharded) Abandon(t Ticket) {
	s.shard(t.Key).abandon(t.Key, t.seq)
}

func (s *Sharded) Delete(key string) bool {
	return s.shard(key).delete(key)
}

// Clear locks every shard, in order, before emptying any of them, so no
// reader can see a half-cleared cache.
func (s *Sharded) Clear() int {
	for _, sh := range s.shards {
		sh.mu.Lock()
	}
	n := 0
	for _, sh := range s.shards {
		n += sh.clearLocked()
	}
	for i := len(s.shards) - 1; i >= 0; i-- {
		s.shards[i].mu.Unlock()
	}
	return n
}

func (s *Sharded) Len() int {
	n := 0
	for _, sh := range s.shards {
		n += sh.len()
	}
	return n
}
