package types

import "time"

/*
CacheEntry is one computed value held by the cache.

Entries are replaced wholesale on recomputation. The store hands out copies
(CacheEntry by value), never the pointer it keeps internally.
*/
type CacheEntry struct {
	Key            string
	Value          any
	TTL            TTL
	ComputedAt     time.Time
	LastAccessedAt time.Time
	ExpireAt       time.Time // zero => Permanent
}

// Permanent reports whether the entry never expires.
func (e CacheEntry) Permanent() bool {
	return e.ExpireAt.IsZero()
}

// TTL is the retention requested for a computed value.
// The zero value is Permanent.
type TTL time.Duration

// Permanent keeps an entry until it is invalidated, cleared or evicted.
const Permanent TTL = 0

// For returns a finite TTL of d.
func For(d time.Duration) TTL {
	return TTL(d)
}

// Duration returns the TTL as a time.Duration. Permanent is 0.
func (t TTL) Duration() time.Duration {
	return time.Duration(t)
}

// IsPermanent reports whether t never expires.
func (t TTL) IsPermanent() bool {
	return t == Permanent
}

func (t TTL) String() string {
	if t.IsPermanent() {
		return "permanent"
	}
	return time.Duration(t).String()
}
