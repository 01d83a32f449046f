package shard

import (
	"sync"

	"github.com/krisalay/compute-cache/eviction"
	"github.com/krisalay/compute-cache/types"
)

/*
Shard is one independently locked slice of the key space.

Every read that may remove an expired entry, every write and every removal
takes mu, so the expiry check is serialized with all mutations of the shard.
*/
type Shard struct {
	mu sync.Mutex

	entries map[string]*types.CacheEntry

	// eviction is nil when the cache is unbounded.
	eviction eviction.Policy

	// capacity is the per-shard bound, 0 for none.
	capacity int

	// pending maps a key to the ticket of the computation allowed to store it.
	// Delete and Clear drop tickets, which is how an invalidation during a
	// computation keeps the stale result out.
	pending map[string]uint64
	seq     uint64
}

func newShard(capacity int, ev eviction.Policy) *Shard {
	return &Shard{
		entries:  make(map[string]*types.CacheEntry),
		eviction: ev,
		capacity: capacity,
		pending:  make(map[string]uint64),
	}
}

func (s *Shard) lookup(key string, expired func(types.CacheEntry) bool, touch func(*types.CacheEntry)) (types.CacheEntry, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return types.CacheEntry{}, Missing
	}
	if expired != nil && expired(*ent) {
		s.removeLocked(key)
		return types.CacheEntry{}, Expired
	}
	if touch != nil {
		touch(ent)
	}
	if s.eviction != nil {
		s.eviction.OnGet(key)
	}
	return *ent, Found
}

func (s *Shard) get(key string) (types.CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return types.CacheEntry{}, false
	}
	return *ent, true
}

func (s *Shard) begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.pending[key] = s.seq
	return s.seq
}

func (s *Shard) commit(key string, seq uint64, ent types.CacheEntry) (bool, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.pending[key]; !ok || cur != seq {
		return false, nil
	}
	delete(s.pending, key)

	var evicted []string
	if _, exists := s.entries[key]; !exists && s.eviction != nil && s.capacity > 0 {
		for len(s.entries) >= s.capacity {
			victim := s.eviction.Evict()
			if victim == "" {
				break
			}
			delete(s.entries, victim)
			evicted = append(evicted, victim)
		}
	}

	stored := ent
	s.entries[key] = &stored
	if s.eviction != nil {
		s.eviction.OnPut(key)
	}
	return true, evicted
}

func (s *Shard) abandon(key string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.pending[key]; ok && cur == seq {
		delete(s.pending, key)
	}
}

func (s *Shard) delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, key)
	return s.removeLocked(key)
}

func (s *Shard) removeLocked(key string) bool {
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	if s.eviction != nil {
		s.eviction.Remove(key)
	}
	return true
}

// clearLocked empties the shard. Caller holds mu.
func (s *Shard) clearLocked() int {
	n := len(s.entries)
	s.entries = make(map[string]*types.CacheEntry)
	s.pending = make(map[string]uint64)
	if s.eviction != nil {
		s.eviction.Reset()
	}
	return n
}

func (s *Shard) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
