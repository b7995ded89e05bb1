package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerificationStore holds short-lived email verification codes. Codes are
// single-use: a successful check deletes the code.
type VerificationStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Check(ctx context.Context, email, code string) error
}

// RedisVerificationStore keeps codes in redis with a TTL, shared across
// replicas.
type RedisVerificationStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisVerificationStore(rdb *redis.Client) *RedisVerificationStore {
	return &RedisVerificationStore{rdb: rdb, prefix: "verify"}
}

func (s *RedisVerificationStore) key(email string) string { return s.prefix + ":" + email }

func (s *RedisVerificationStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(email), code, ttl).Err()
}

func (s *RedisVerificationStore) Check(ctx context.Context, email, code string) error {
	stored, err := s.rdb.Get(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return ErrCodeMismatch
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return s.rdb.Del(ctx, s.key(email)).Err()
}

// MemoryVerificationStore is the in-process fallback when redis is not
// configured. Expiry is checked on read, so no janitor is needed for the
// handful of pending codes a dev instance sees.
type MemoryVerificationStore struct {
	mu    sync.Mutex
	codes map[string]memoryCode
}

type memoryCode struct {
	code      string
	expiresAt time.Time
}

func NewMemoryVerificationStore() *MemoryVerificationStore {
	return &MemoryVerificationStore{codes: make(map[string]memoryCode)}
}

func (s *MemoryVerificationStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = memoryCode{code: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryVerificationStore) Check(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[email]
	if !ok || time.Now().After(c.expiresAt) || c.code != code {
		return ErrCodeMismatch
	}
	delete(s.codes, email)
	return nil
}
