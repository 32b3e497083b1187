package pollwindow

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const windowKeyPrefix = "bca:poll:"

// RedisThrottle shares poll windows across instances. SET NX with the
// interval as TTL makes the open-or-refuse decision atomic.
type RedisThrottle struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisThrottle {
	return &RedisThrottle{client: client}
}

func (t *RedisThrottle) Allow(ctx context.Context, authReqID string, interval int) (bool, error) {
	ttl := time.Duration(interval) * time.Second
	ok, err := t.client.SetNX(ctx, windowKeyPrefix+authReqID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("open poll window: %w", err)
	}
	return ok, nil
}
