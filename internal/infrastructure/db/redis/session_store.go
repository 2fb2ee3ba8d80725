package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/supportinsights/hub/internal/session"
)

const defaultKeyPrefix = "hub:session"

var _ session.Storage = (*SessionStore)(nil)

// SessionStore keeps a session client's persisted mirror in Redis.
// Key format: <prefix>:<namespace>:<key>
type SessionStore struct {
	client    *redis.Client
	namespace string
	prefix    string
	ttl       time.Duration
}

// NewSessionStore scopes all keys under namespace. A zero ttl keeps keys
// until they are deleted.
func NewSessionStore(client *redis.Client, namespace string, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, namespace: namespace, prefix: defaultKeyPrefix, ttl: ttl}
}

// Get reports ok=false when the key is absent.
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(k string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, s.namespace, k)
}
