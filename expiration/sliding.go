package expiration

import (
	"time"

	"github.com/krisalay/compute-cache/types"
)

/*
Sliding implements "expire after access": every hit pushes the deadline
forward by the entry's own TTL. As long as a value keeps being read it stays
alive; once nobody reads it for a full TTL it expires.

Permanent entries are unaffected.
*/
type Sliding struct{}

func (Sliding) IsExpired(ent types.CacheEntry, now time.Time) bool {
	return expired(ent, now)
}

func (Sliding) OnAccess(ent *types.CacheEntry, now time.Time) {
	ent.LastAccessedAt = now
	deadline(ent, now)
}

func (Sliding) OnWrite(ent *types.CacheEntry, now time.Time) {
	ent.ComputedAt = now
	ent.LastAccessedAt = now
	deadline(ent, now)
}
