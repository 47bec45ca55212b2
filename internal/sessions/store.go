// Package sessions maps opaque session tokens to user IDs in an expiring
// key-value store.
package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// KeyPrefix namespaces session entries in the cache.
const KeyPrefix = "sessions/"

// DefaultTTL is how long a session stays valid after login.
const DefaultTTL = 3 * time.Hour

// Store is the session cache. Entries are written once at login and are
// never updated; they disappear when their TTL elapses.
type Store interface {
	Set(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, token string) (int64, error)
}

// Key returns the cache key for token.
func Key(token string) string {
	return KeyPrefix + token
}
