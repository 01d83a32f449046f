package expiration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krisalay/compute-cache/types"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestAbsoluteDeadlineIsFixed(t *testing.T) {
	var s Strategy = Absolute{}
	ent := types.CacheEntry{Key: "k", TTL: types.For(time.Minute)}

	s.OnWrite(&ent, t0)
	assert.Equal(t, t0.Add(time.Minute), ent.ExpireAt)

	s.OnAccess(&ent, t0.Add(30*time.Second))
	assert.Equal(t, t0.Add(time.Minute), ent.ExpireAt, "reads must not move an absolute deadline")

	assert.False(t, s.IsExpired(ent, t0.Add(time.Minute)), "expiry is strictly after the deadline")
	assert.True(t, s.IsExpired(ent, t0.Add(time.Minute+time.Nanosecond)))
}

func TestSlidingExtendsOnAccess(t *testing.T) {
	var s Strategy = Sliding{}
	ent := types.CacheEntry{Key: "k", TTL: types.For(time.Minute)}

	s.OnWrite(&ent, t0)
	s.OnAccess(&ent, t0.Add(50*time.Second))

	assert.Equal(t, t0.Add(110*time.Second), ent.ExpireAt)
	assert.False(t, s.IsExpired(ent, t0.Add(100*time.Second)))
	assert.True(t, s.IsExpired(ent, t0.Add(111*time.Second)))
}

func TestPermanentNeverExpires(t *testing.T) {
	for name, s := range map[string]Strategy{"absolute": Absolute{}, "sliding": Sliding{}} {
		t.Run(name, func(t *testing.T) {
			ent := types.CacheEntry{Key: "k", TTL: types.Permanent}
			s.OnWrite(&ent, t0)
			s.OnAccess(&ent, t0.Add(time.Hour))

			assert.True(t, ent.Permanent())
			assert.False(t, s.IsExpired(ent, t0.Add(24*365*time.Hour)))
		})
	}
}
