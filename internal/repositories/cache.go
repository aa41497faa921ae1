package repositories

import (
	"context"
	"time"
)

// CacheRepository defines the cache operations this application needs.
// Values are opaque strings; callers do their own (de)serialization.
// Get reports a miss through the bool, not an error.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, pattern string) error
}
