//go:build integration

package pollwindow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegis/pkg/testutil/containers"
)

func TestRedisThrottle_EnforcesInterval(t *testing.T) {
	redisC := containers.NewRedisContainer(t)
	throttle := NewRedis(redisC.Client)
	ctx := context.Background()

	allowed, err := throttle.Allow(ctx, "req-1", 1)
	require.NoError(t, err)
	assert.True(t, allowed, "first poll opens the window")

	allowed, err = throttle.Allow(ctx, "req-1", 1)
	require.NoError(t, err)
	assert.False(t, allowed, "poll inside the window is refused")

	allowed, err = throttle.Allow(ctx, "req-2", 1)
	require.NoError(t, err)
	assert.True(t, allowed, "windows are per request")

	time.Sleep(1100 * time.Millisecond)
	allowed, err = throttle.Allow(ctx, "req-1", 1)
	require.NoError(t, err)
	assert.True(t, allowed, "the window expires with the interval")
}
