package eviction

import "fmt"

/*
This file defines how a shard picks a victim when it is full.

Policies are not safe for concurrent use on their own; the shard calls them
with its lock held.
*/

/*
Policy tracks keys so a shard at capacity can choose which one to drop.
The shard never asks how a policy orders keys, it only reports events and
asks for a victim.
*/
type Policy interface {

	// OnGet is called on every hit for key.
	OnGet(string)

	// OnPut is called when key is stored (first time or replacement).
	OnPut(string)

	// Remove is called when key leaves the shard for any reason other than Evict.
	Remove(string)

	// Evict forgets and returns the next victim, or "" when nothing is tracked.
	Evict() string

	// Reset forgets every key.
	Reset()
}

// PolicyType names a supported eviction strategy.
type PolicyType string

const (
	// LRU drops the key that was read or written least recently.
	LRU PolicyType = "lru"

	// FIFO drops the key that was first stored earliest, regardless of reads.
	FIFO PolicyType = "fifo"
)

// NewEvictionPolicy builds the policy named by t.
func NewEvictionPolicy(t PolicyType) (Policy, error) {
	switch t {
	case LRU, "":
		return newLRU(), nil
	case FIFO:
		return newFIFO(), nil
	default:
		return nil, fmt.Errorf("unknown eviction policy %q", t)
	}
}
