package epoch

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisKey is the shared counter every node INCRs. One key for the whole
// deployment: epochs must be comparable across processes.
const redisKey = "almoner:epoch"

// RedisSource draws epochs from a Redis counter shared by all nodes.
type RedisSource struct {
	client redis.Cmdable
}

// NewRedisSource wraps a connected Redis client.
func NewRedisSource(client redis.Cmdable) *RedisSource {
	return &RedisSource{client: client}
}

// Next atomically increments and returns the shared counter. Redis INCR
// never returns the same value twice, so epochs stay strictly increasing
// even under concurrent callers on different nodes.
func (s *RedisSource) Next(ctx context.Context) (uint64, error) {
	value, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("increment epoch counter: %w", err)
	}
	if value < 0 {
		return 0, fmt.Errorf("epoch counter overflowed int64: %d", value)
	}
	return uint64(value), nil
}
