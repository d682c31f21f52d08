package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore persists sessions in redis so they survive a process
// restart. Records are stored as JSON under session:<token> with a TTL
// matching the session expiry, so redis reaps expired sessions on its
// own.
type RedisStore struct {
	rdb *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{rdb: rdb}
}

// NewRedisStoreFromClient wraps an existing client; tests use this with
// miniredis.
func NewRedisStoreFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Put(ctx context.Context, sess Session) error {
	payload, err := json.Marshal(sess)

	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)

	if ttl <= 0 {
		return fmt.Errorf("session for user %d already expired", sess.User.ID)
	}

	return s.rdb.Set(ctx, redisKeyPrefix+sess.Token, payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (Session, bool, error) {
	payload, err := s.rdb.Get(ctx, redisKeyPrefix+token).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, false, nil
		}

		return Session{}, false, err
	}

	var sess Session

	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, false, fmt.Errorf("unmarshal session: %w", err)
	}

	return sess, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+token).Err()
}
