package otp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyshare-platform/material-service/internal/cache"
)

// Entry is one live code for an email address. At most one entry exists
// per address; a reissue overwrites the previous one.
type Entry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the keyed backing store for OTP entries. Implementations must be
// safe for concurrent use; the ledger provides issue/consume atomicity on
// top of it.
type Store interface {
	Put(ctx context.Context, email string, entry Entry) error
	Get(ctx context.Context, email string) (Entry, bool, error)
	Delete(ctx context.Context, email string) error
}

// MemoryStore is the default in-process store, a lock-protected map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Put(_ context.Context, email string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = entry
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[email]
	return entry, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

// RedisStore keeps OTP entries in Redis so multiple instances share one
// ledger. Expiry is still decided from the stored instant; the Redis TTL is
// only memory hygiene and is set slightly past the entry lifetime.
type RedisStore struct {
	helper *cache.CacheHelper
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		helper: cache.NewCacheHelper(client, "otp:"),
		ttl:    ttl + time.Minute,
	}
}

func (s *RedisStore) Put(ctx context.Context, email string, entry Entry) error {
	return s.helper.Set(ctx, email, entry, s.ttl)
}

func (s *RedisStore) Get(ctx context.Context, email string) (Entry, bool, error) {
	var entry Entry
	err := s.helper.Get(ctx, email, &entry)
	if err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.helper.Delete(ctx, email)
}
