package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the port the leaderboard reads through. Adapters translate
// their own "not found" into ErrCacheMiss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	// Set with expiration 0 keeps the value until it is deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete must not fail on a missing key.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
