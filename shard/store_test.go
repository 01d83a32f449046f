package shard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/compute-cache/eviction"
	"github.com/krisalay/compute-cache/types"
)

func newStore(t *testing.T, shards, capacity int) *Sharded {
	t.Helper()
	s, err := NewSharded(shards, capacity, eviction.LRU)
	require.NoError(t, err)
	return s
}

func put(t *testing.T, s Store, key string, v any) {
	t.Helper()
	ok, _ := s.Commit(s.Begin(key), types.CacheEntry{Key: key, Value: v})
	require.True(t, ok)
}

func TestCommitAndLookup(t *testing.T) {
	s := newStore(t, 4, 0)
	put(t, s, "a", 1)

	ent, st := s.Lookup("a", nil, nil)
	assert.Equal(t, Found, st)
	assert.Equal(t, 1, ent.Value)

	_, st = s.Lookup("b", nil, nil)
	assert.Equal(t, Missing, st)
	assert.Equal(t, 1, s.Len())
}

func TestLookupRemovesExpired(t *testing.T) {
	s := newStore(t, 2, 0)
	put(t, s, "a", 1)

	_, st := s.Lookup("a", func(types.CacheEntry) bool { return true }, nil)
	assert.Equal(t, Expired, st)

	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestLookupReturnsCopy(t *testing.T) {
	s := newStore(t, 1, 0)
	put(t, s, "a", 1)

	ent, _ := s.Lookup("a", nil, nil)
	ent.Value = 2

	got, _ := s.Get("a")
	assert.Equal(t, 1, got.Value)
}

func TestDeleteInvalidatesOutstandingTicket(t *testing.T) {
	s := newStore(t, 1, 0)
	tk := s.Begin("a")

	assert.False(t, s.Delete("a"))

	ok, _ := s.Commit(tk, types.CacheEntry{Key: "a", Value: "stale"})
	assert.False(t, ok)
	_, found := s.Get("a")
	assert.False(t, found)
}

func TestClearInvalidatesEverything(t *testing.T) {
	s := newStore(t, 4, 0)
	for i := 0; i < 10; i++ {
		put(t, s, fmt.Sprintf("k%d", i), i)
	}
	tk := s.Begin("late")

	assert.Equal(t, 10, s.Clear())
	assert.Equal(t, 0, s.Len())

	ok, _ := s.Commit(tk, types.CacheEntry{Key: "late"})
	assert.False(t, ok)
	assert.Equal(t, 0, s.Clear())
}

func TestNewerTicketWins(t *testing.T) {
	s := newStore(t, 1, 0)
	old := s.Begin("a")
	cur := s.Begin("a")

	ok, _ := s.Commit(old, types.CacheEntry{Key: "a", Value: "old"})
	assert.False(t, ok)
	ok, _ = s.Commit(cur, types.CacheEntry{Key: "a", Value: "new"})
	assert.True(t, ok)
}

func TestAbandonReleasesTicket(t *testing.T) {
	s := newStore(t, 1, 0)
	tk := s.Begin("a")
	s.Abandon(tk)

	ok, _ := s.Commit(tk, types.CacheEntry{Key: "a"})
	assert.False(t, ok)
}

func TestCapacityEviction(t *testing.T) {
	s := newStore(t, 1, 2)
	put(t, s, "a", 1)
	put(t, s, "b", 2)

	s.Lookup("a", nil, nil)

	ok, evicted := s.Commit(s.Begin("c"), types.CacheEntry{Key: "c", Value: 3})
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 2, s.Len())

	_, found := s.Get("a")
	assert.True(t, found)
}

func TestReplacingDoesNotEvict(t *testing.T) {
	s := newStore(t, 1, 1)
	put(t, s, "a", 1)

	ok, evicted := s.Commit(s.Begin("a"), types.CacheEntry{Key: "a", Value: 2})
	require.True(t, ok)
	assert.Empty(t, evicted)

	got, _ := s.Get("a")
	assert.Equal(t, 2, got.Value)
}

func TestHashSelectorIsStable(t *testing.T) {
	sel := HashSelector{}
	for i := 0; i < 100; i++ {
		k := fmt.Sprintf("key-%d", i)
		idx := sel.Select(k, 8)
		assert.Equal(t, idx, sel.Select(k, 8))
		assert.True(t, idx >= 0 && idx < 8)
	}
}
