package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event ids a consumer has already handled.
// Stores keep an id only for the given TTL.
type IdempotencyStore interface {
	// MarkProcessed records eventID and reports false if it was already recorded
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig keeps handled ids for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}
