package notify

import (
	"context"

	"github.com/minaret-labs/minaret/internal/model"
)

// Permission is the notification-permission state of the device runtime.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionUnknown Permission = "unknown"
)

// Backend mirrors the device notification runtime: a permission gate plus
// schedule/query/cancel over pending entries.
type Backend interface {
	CheckPermission(ctx context.Context) (Permission, error)
	RequestPermission(ctx context.Context) (Permission, error)
	Schedule(ctx context.Context, entries []model.NotificationEntry) error
	Pending(ctx context.Context, domain string) ([]model.NotificationEntry, error)
	Cancel(ctx context.Context, ids []int) error
}
