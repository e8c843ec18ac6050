package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis backs the counters with Redis INCR, which is atomic server-side.
// Deployments without Postgres for the counter path (or that want the
// counter off the primary database) use this variant; keys carry no TTL
// since counters must never reset within a year.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Next atomically increments and returns the counter for (courtCode, year).
// INCR initialises an absent key to 0 before incrementing, so the first
// value issued for a pair is 1.
func (s *Redis) Next(ctx context.Context, courtCode string, year int) (int64, error) {
	key := fmt.Sprintf("caseflow:seq:%s:%d", courtCode, year)
	seq, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment court sequence: %w", err)
	}
	return seq, nil
}
