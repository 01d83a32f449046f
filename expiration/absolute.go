package expiration

import (
	"time"

	"github.com/krisalay/compute-cache/types"
)

// Absolute expires an entry TTL after it was computed. Reads never move the deadline.
type Absolute struct{}

func (Absolute) IsExpired(ent types.CacheEntry, now time.Time) bool {
	return expired(ent, now)
}

func (Absolute) OnAccess(ent *types.CacheEntry, now time.Time) {
	ent.LastAccessedAt = now
}

func (Absolute) OnWrite(ent *types.CacheEntry, now time.Time) {
	ent.ComputedAt = now
	ent.LastAccessedAt = now
	deadline(ent, now)
}
