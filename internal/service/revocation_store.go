package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore es un denylist de jti para invalidar refresh tokens antes
// de su expiración natural (logout, token comprometido).
type RevocationStore interface {
	Revoke(jti string, ttl time.Duration) error
	IsRevoked(jti string) (bool, error)
}

type memoryRevocationStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func NewMemoryRevocationStore() RevocationStore {
	return &memoryRevocationStore{
		items: make(map[string]time.Time),
	}
}

func (s *memoryRevocationStore) Revoke(jti string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[jti] = time.Now().UTC().Add(ttl)
	return nil
}

func (s *memoryRevocationStore) IsRevoked(jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[jti]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		delete(s.items, jti)
		return false, nil
	}
	return true, nil
}

type redisRevocationStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocationStore(client *redis.Client) RevocationStore {
	if client == nil {
		return nil
	}
	return &redisRevocationStore{
		client: client,
		prefix: "auth:revoked:",
	}
}

func (s *redisRevocationStore) Revoke(jti string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+jti, "1", ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
