package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/compute-cache/clock"
	"github.com/krisalay/compute-cache/expiration"
	"github.com/krisalay/compute-cache/types"
)

type recorder struct {
	types.NoopMetrics
	computed []time.Duration
	failed   []time.Duration
}

func (r *recorder) Computed(d time.Duration)      { r.computed = append(r.computed, d) }
func (r *recorder) ComputeFailed(d time.Duration) { r.failed = append(r.failed, d) }

func TestDefaults(t *testing.T) {
	e := NewCacheEngine(nil, nil, nil)
	assert.IsType(t, expiration.Absolute{}, e.Expiration)
	assert.IsType(t, clock.System{}, e.Clock)
	assert.IsType(t, types.NoopMetrics{}, e.Metrics)
}

func TestComputeMeasuresLatency(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	rec := &recorder{}
	e := NewCacheEngine(nil, clk, rec)

	v, latency, _, err := e.Compute(func() (any, error) {
		clk.Advance(250 * time.Millisecond)
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 250*time.Millisecond, latency)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, rec.computed)
}

func TestComputeReturnsErrorVerbatim(t *testing.T) {
	rec := &recorder{}
	e := NewCacheEngine(nil, clock.NewManual(time.Unix(0, 0)), rec)
	boom := errors.New("scan failed")

	v, _, _, err := e.Compute(func() (any, error) { return 7, boom })

	assert.Same(t, boom, err)
	assert.Nil(t, v)
	assert.Len(t, rec.failed, 1)
}

func TestComputeRecoversPanic(t *testing.T) {
	e := NewCacheEngine(nil, nil, nil)

	_, _, _, err := e.Compute(func() (any, error) { panic("bad scan") })

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrComputePanicked)
	assert.Contains(t, err.Error(), "bad scan")
}

func TestNewEntryAndExpiry(t *testing.T) {
	start := time.Unix(1000, 0)
	clk := clock.NewManual(start)
	e := NewCacheEngine(expiration.Absolute{}, clk, nil)

	ent := e.NewEntry("k", "v", types.For(time.Second), clk.Now())
	assert.Equal(t, start, ent.ComputedAt)
	assert.Equal(t, start.Add(time.Second), ent.ExpireAt)
	assert.False(t, e.IsExpired(ent))

	clk.Advance(2 * time.Second)
	assert.True(t, e.IsExpired(ent))
}
