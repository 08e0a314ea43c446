package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Store persists the binding between an opaque session id and a user id.
// Expiry is the store's job: a session lives for the configured TTL counted
// from the last write.
type Store interface {
	Get(ctx context.Context, id string) (string, error)
	Put(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RedisStore struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func NewRedisStore(cfg RedisConfig, ttl time.Duration) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{redisdb: redisdb, ttl: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	userID, err := s.redisdb.Get(ctx, sessionKey(id)).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}

		return "", err
	}

	return userID, nil
}

func (s *RedisStore) Put(ctx context.Context, id, userID string) error {
	return s.redisdb.Set(ctx, sessionKey(id), userID, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.redisdb.Del(ctx, sessionKey(id)).Err()
}

// Ping checks redis connectivity, for the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}
