package pollwindow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryThrottle_EnforcesInterval(t *testing.T) {
	now := time.Date(2026, 6, 2, 15, 4, 5, 0, time.UTC)
	throttle := NewInMemory().WithClock(func() time.Time { return now })
	ctx := context.Background()

	allowed, err := throttle.Allow(ctx, "req-1", 5)
	require.NoError(t, err)
	assert.True(t, allowed, "first poll opens the window")

	allowed, err = throttle.Allow(ctx, "req-1", 5)
	require.NoError(t, err)
	assert.False(t, allowed, "second poll inside the window is refused")

	now = now.Add(4 * time.Second)
	allowed, err = throttle.Allow(ctx, "req-1", 5)
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(time.Second)
	allowed, err = throttle.Allow(ctx, "req-1", 5)
	require.NoError(t, err)
	assert.True(t, allowed, "poll at the window end is allowed again")
}

func TestInMemoryThrottle_WindowsAreIndependent(t *testing.T) {
	throttle := NewInMemory()
	ctx := context.Background()

	allowed, err := throttle.Allow(ctx, "req-1", 60)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = throttle.Allow(ctx, "req-2", 60)
	require.NoError(t, err)
	assert.True(t, allowed, "another request has its own window")
}

func TestInMemoryThrottle_ZeroInterval(t *testing.T) {
	throttle := NewInMemory()
	ctx := context.Background()

	for range 3 {
		allowed, err := throttle.Allow(ctx, "req-1", 0)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}
