// This file defines how cache entries expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/compute-cache/types"
)

/*
Strategy decides when an entry stops being live. The engine consults it on
every read; swapping strategies changes retention without touching storage.
*/
type Strategy interface {

	// IsExpired reports whether the entry is past its retention at now.
	IsExpired(types.CacheEntry, time.Time) bool

	// OnAccess is called for every hit, under the shard lock.
	OnAccess(*types.CacheEntry, time.Time)

	// OnWrite is called when a freshly computed entry is about to be stored.
	OnWrite(*types.CacheEntry, time.Time)
}

// expired is the shared deadline check: Permanent entries never expire and a
// finite entry expires strictly after ExpireAt.
func expired(ent types.CacheEntry, now time.Time) bool {
	return !ent.Permanent() && now.After(ent.ExpireAt)
}

// deadline sets ExpireAt from the entry's own TTL.
func deadline(ent *types.CacheEntry, from time.Time) {
	if ent.TTL.IsPermanent() {
		ent.ExpireAt = time.Time{}
		return
	}
	ent.ExpireAt = from.Add(ent.TTL.Duration())
}
