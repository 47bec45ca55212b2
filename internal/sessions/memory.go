package sessions

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	log "github.com/sirupsen/logrus"
)

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryStore keeps sessions in a process-local expirable LRU. It is meant
// for single-instance deployments and tests; sessions do not survive a
// restart. Entries leave the cache when their TTL elapses; an optional size
// cap additionally drops the least recently used session when full.
type MemoryStore struct {
	cache *expirable.LRU[string, memoryEntry]
	now   func() time.Time
}

// NewMemoryStore creates a store holding at most size sessions, or any number
// when size is zero or negative. maxTTL is the longest TTL callers will pass
// to Set; entries are also evicted after it.
func NewMemoryStore(size int, maxTTL time.Duration) *MemoryStore {
	if size < 0 {
		size = 0
	}
	if maxTTL <= 0 {
		maxTTL = DefaultTTL
	}

	s := &MemoryStore{now: time.Now}
	s.cache = expirable.NewLRU[string, memoryEntry](size, s.onEvict, maxTTL)
	return s
}

// onEvict logs sessions dropped by the size cap before their TTL elapsed.
func (s *MemoryStore) onEvict(key string, entry memoryEntry) {
	if remaining := entry.expiresAt.Sub(s.now()); remaining > 0 {
		log.WithFields(log.Fields{
			"user_id":   entry.userID,
			"remaining": remaining.Round(time.Second).String(),
		}).Warn("session evicted before expiry; raise session_cache_size or set it to 0")
	}
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, token string, userID int64, ttl time.Duration) error {
	s.cache.Add(Key(token), memoryEntry{
		userID:    userID,
		expiresAt: s.now().Add(ttl),
	})
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, token string) (int64, error) {
	entry, ok := s.cache.Get(Key(token))
	if !ok {
		return 0, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		s.cache.Remove(Key(token))
		return 0, ErrNotFound
	}
	return entry.userID, nil
}

// Len returns the number of entries currently cached, expired ones included
// until they are evicted.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
