package state

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"pricetracker/internal/domain/service"
	"pricetracker/internal/errors"
)

const redisKeyPrefix = "oauth:state:"

// RedisStore shares states across instances. GETDEL makes consumption atomic.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Issue(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, redisKeyPrefix+state, "1", s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "store oauth state")
	}

	return state, nil
}

func (s *RedisStore) Consume(ctx context.Context, state string) error {
	if state == "" {
		return service.ErrOAuthStateInvalid
	}

	err := s.client.GetDel(ctx, redisKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return service.ErrOAuthStateInvalid
	}
	if err != nil {
		return errors.Wrap(err, "consume oauth state")
	}

	return nil
}
