package notify

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Registry stores the device push tokens the fan-out targets.
type Registry interface {
	Register(ctx context.Context, deviceToken string) error
	Remove(ctx context.Context, deviceToken string) error
	Tokens(ctx context.Context) ([]string, error)
}

// RedisRegistry keeps the token set in redis so fan-out survives restarts
// and can be shared across replicas.
type RedisRegistry struct {
	RDB *redis.Client
	Key string
}

func (r *RedisRegistry) key() string {
	if r.Key != "" {
		return r.Key
	}
	return "push:device_tokens"
}

func (r *RedisRegistry) Register(ctx context.Context, deviceToken string) error {
	return r.RDB.SAdd(ctx, r.key(), deviceToken).Err()
}

func (r *RedisRegistry) Remove(ctx context.Context, deviceToken string) error {
	return r.RDB.SRem(ctx, r.key(), deviceToken).Err()
}

func (r *RedisRegistry) Tokens(ctx context.Context) ([]string, error) {
	return r.RDB.SMembers(ctx, r.key()).Result()
}

// MemoryRegistry is the in-process fallback used in tests and when redis is
// not configured.
type MemoryRegistry struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{tokens: map[string]struct{}{}}
}

func (m *MemoryRegistry) Register(ctx context.Context, deviceToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[deviceToken] = struct{}{}
	return nil
}

func (m *MemoryRegistry) Remove(ctx context.Context, deviceToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, deviceToken)
	return nil
}

func (m *MemoryRegistry) Tokens(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.tokens))
	for t := range m.tokens {
		out = append(out, t)
	}
	return out, nil
}
