package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"

	"github.com/mermadic/mermadic/session"
)

// RedisSessionStore keeps sessions in Redis with a TTL; expiry enforcement is
// delegated entirely to the key TTL.
type RedisSessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisSessionStore(ctx context.Context, devMode bool, redisEndpoint string, ttl time.Duration) (*RedisSessionStore, error) {
	var client redis.UniversalClient
	if devMode {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
			// Managed redis endpoints require TLS
			TLSConfig: &tls.Config{},
		})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

func buildSessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisSessionStore) Create(ctx context.Context, userID int64) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	sessionID := id.String()
	if err := s.client.Set(ctx, buildSessionKey(sessionID), userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (int64, error) {
	userID, err := s.client.Get(ctx, buildSessionKey(sessionID)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, session.ErrNoSession
		}
		return 0, err
	}

	// Sliding expiry: activity keeps the session alive
	s.client.Expire(ctx, buildSessionKey(sessionID), s.ttl)

	return userID, nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, buildSessionKey(sessionID)).Err()
}
