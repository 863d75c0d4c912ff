package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore maps opaque verification tokens to user ids with a TTL.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func (s *TokenStore) Put(ctx context.Context, key, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, userID, ttl).Err()
}

func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *TokenStore) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
