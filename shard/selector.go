package shard

import "hash/fnv"

/*
Selector assigns a key to one of the shards. Keys that land on different
shards never share a lock, so a good spread is what keeps unrelated keys
from blocking each other.
*/
type Selector interface {
	Select(key string, n int) int
}

// HashSelector spreads keys with 32-bit FNV-1a.
type HashSelector struct{}

func (HashSelector) Select(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
