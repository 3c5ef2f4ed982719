package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Expiry(t *testing.T) {
	c := NewCache[int]()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	v, ok = c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_GetKeepsValueSetAfterExpiredRead(t *testing.T) {
	c := NewCache[string]()
	start := time.Now()
	c.now = func() time.Time { return start }
	c.Set("k", "stale", time.Second)

	refreshed := false
	c.now = func() time.Time {
		if !refreshed {
			refreshed = true
			// a writer replaces the entry between the read and the cleanup
			c.Set("k", "fresh", 0)
		}
		return start.Add(time.Hour)
	}

	_, ok := c.Get("k")
	assert.False(t, ok)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestCache_Sweep(t *testing.T) {
	c := NewCache[string]()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("old", "y", time.Second)
	c.Set("keep", "z", 0)
	now = now.Add(time.Hour)
	assert.Equal(t, 1, c.Sweep())
	_, ok := c.Get("keep")
	assert.True(t, ok)
}

func TestFlowStore(t *testing.T) {
	ctx := context.Background()
	s := NewFlowStore(0)

	require.NoError(t, s.Set(ctx, "s1", "checkout.plan_id", "basic"))
	require.NoError(t, s.Set(ctx, "s1", "checkout.cycle", "monthly"))
	require.NoError(t, s.Set(ctx, "s2", "checkout.plan_id", "pro"))

	v, ok, err := s.Get(ctx, "s1", "checkout.plan_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "basic", v)

	require.NoError(t, s.DeletePrefix(ctx, "s1", "checkout."))
	_, ok, _ = s.Get(ctx, "s1", "checkout.cycle")
	assert.False(t, ok)

	v, ok, _ = s.Get(ctx, "s2", "checkout.plan_id")
	assert.True(t, ok)
	assert.Equal(t, "pro", v)
}
