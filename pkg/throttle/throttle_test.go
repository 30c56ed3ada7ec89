package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryThrottle_SuppressesWithinInterval(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	throttle := NewMemoryThrottle(24 * time.Hour).WithNow(func() time.Time { return clock })

	allowed, err := throttle.Allow(context.Background(), "patient-a")
	require.NoError(t, err)
	assert.True(t, allowed)

	clock = clock.Add(23 * time.Hour)

	allowed, err = throttle.Allow(context.Background(), "patient-a")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMemoryThrottle_AllowsAfterInterval(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	throttle := NewMemoryThrottle(24 * time.Hour).WithNow(func() time.Time { return clock })

	allowed, err := throttle.Allow(context.Background(), "patient-a")
	require.NoError(t, err)
	assert.True(t, allowed)

	clock = clock.Add(24 * time.Hour)

	allowed, err = throttle.Allow(context.Background(), "patient-a")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryThrottle_IndependentPatients(t *testing.T) {
	throttle := NewMemoryThrottle(24 * time.Hour)

	allowed, err := throttle.Allow(context.Background(), "patient-a")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = throttle.Allow(context.Background(), "patient-b")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNew_SelectsImplementation(t *testing.T) {
	memory, err := New("", time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &MemoryThrottle{}, memory)

	redis, err := New("redis://localhost:6379/0", time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &RedisThrottle{}, redis)
	require.NoError(t, redis.Close())
}

func TestNew_RejectsBadRedisURL(t *testing.T) {
	_, err := New("redis://bad url with spaces", time.Hour)
	require.Error(t, err)
}
