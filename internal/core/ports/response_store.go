package ports

import (
	"context"
	"time"
)

// ResponseStore is the key/value store behind the response cache.
// Entries expire on the store side; there is no delete.
type ResponseStore interface {
	// Get returns the stored bytes and true on a hit, nil and false on a miss.
	// A non-nil error means the store could not be reached.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
