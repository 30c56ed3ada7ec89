package throttle

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "dwellwatch:alerted:"

// RedisThrottle shares the suppression window across scheduler replicas via
// SetNX with a TTL.
type RedisThrottle struct {
	client   redis.UniversalClient
	interval time.Duration
}

func NewRedisThrottle(url string, interval time.Duration) (*RedisThrottle, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis throttle URL: %w", err)
	}

	return &RedisThrottle{
		client:   redis.NewClient(opts),
		interval: interval,
	}, nil
}

func (t *RedisThrottle) Allow(ctx context.Context, patientID string) (bool, error) {
	ok, err := t.client.SetNX(ctx, keyPrefix+patientID, time.Now().UTC().Format(time.RFC3339), t.interval).Result()
	if err != nil {
		return false, fmt.Errorf("redis throttle check failed: %w", err)
	}

	return ok, nil
}

func (t *RedisThrottle) Close() error {
	return t.client.Close()
}
