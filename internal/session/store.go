package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found or expired")

const (
	TokenRecovery   = "recovery"
	TokenOAuthState = "oauth_state"
)

type Store interface {
	Create(ctx context.Context, identity Identity, ttl time.Duration) (Identity, error)
	Get(ctx context.Context, sessionID string) (Identity, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	SaveToken(ctx context.Context, kind string, token string, value string, ttl time.Duration) error
	ConsumeToken(ctx context.Context, kind string, token string) (string, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("could not ping redis: %w", err)
	}

	return client, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func sessionKey(id string) string {
	return "session:" + id
}

func userSessionsKey(userID string) string {
	return "user_sessions:" + userID
}

func tokenKey(kind, token string) string {
	return "token:" + kind + ":" + token
}

func (s *RedisStore) Create(ctx context.Context, identity Identity, ttl time.Duration) (Identity, error) {
	identity.SessionID = uuid.NewString()

	payload, err := json.Marshal(identity)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(identity.SessionID), payload, ttl)
	pipe.SAdd(ctx, userSessionsKey(identity.UserID), identity.SessionID)
	pipe.Expire(ctx, userSessionsKey(identity.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return Identity{}, fmt.Errorf("failed to store session: %w", err)
	}

	return identity, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Identity, error) {
	payload, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("failed to read session: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return Identity{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return identity, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	identity, err := s.Get(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSessionsKey(identity.UserID), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *RedisStore) DeleteUserSessions(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}

func (s *RedisStore) SaveToken(ctx context.Context, kind string, token string, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(kind, token), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s token: %w", kind, err)
	}
	return nil
}

// ConsumeToken returns the value stored for token and removes it, so every
// token can be used once.
func (s *RedisStore) ConsumeToken(ctx context.Context, kind string, token string) (string, error) {
	value, err := s.client.GetDel(ctx, tokenKey(kind, token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s token: %w", kind, err)
	}
	return value, nil
}
