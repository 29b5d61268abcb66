package ports

import (
	"context"
	"time"
)

// Store is a string key-value backend for session and wallet data
type Store interface {
	// Get returns core.ErrKeyNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// InvalidateToken marks tokenID as used for expiry. It reports false when
	// tokenID was already invalidated.
	InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) (bool, error)
}
