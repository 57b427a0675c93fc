// Package cache is the offline cache: durable key/value records plus the
// last-sync timestamp kept per feature domain.
package cache

import (
	"context"
	"time"
)

// Well-known key prefixes. Values are plain strings so any backend that
// can store strings can serve as a cache.
const (
	lastSyncPrefix = "last_sync:"

	KeyRefreshPreferences     = "refresh_preferences"
	KeyNotificationPermission = "notification_permission"
)

// Store is durable key/value persistence with a last-sync record per
// domain. Get reports absence via the bool, not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error

	LastSync(ctx context.Context, domain string) (*time.Time, error)
	RecordSync(ctx context.Context, domain string, at time.Time) error
	ClearSync(ctx context.Context, domain string) error
}

func lastSyncKey(domain string) string { return lastSyncPrefix + domain }
