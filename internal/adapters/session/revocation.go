package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RevocationStore はログアウト済みトークン ID を管理します。
type RevocationStore interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// RedisStore は Redis のキー期限を用いた RevocationStore です。
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore は RedisStore を生成します。
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Revoke はトークン ID を ttl の間だけ失効済みとして記録します。
func (s *RedisStore) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+id, "1", ttl).Err(); err != nil {
		return fmt.Errorf("session: revoke %s: %w", id, err)
	}
	return nil
}

// IsRevoked はトークン ID が失効済みかを返します。
func (s *RedisStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+id).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("session: lookup %s: %w", id, err)
	}
}

// MemoryStore はプロセス内の map を用いた RevocationStore です。Redis 未設定時に使います。
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore は MemoryStore を生成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, expiry := range s.revoked {
		if !now.Before(expiry) {
			delete(s.revoked, key)
		}
	}
	s.revoked[id] = now.Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.revoked[id]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiry) {
		delete(s.revoked, id)
		return false, nil
	}
	return true, nil
}
