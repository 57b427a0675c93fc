package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/apperrors"
	"github.com/minaret-labs/minaret/internal/cache"
	"github.com/minaret-labs/minaret/internal/db"
	"github.com/minaret-labs/minaret/internal/model"
)

// SQLBackend keeps pending entries in Postgres and the permission state in
// the offline cache, standing in for the device notification runtime. An
// optional Publisher pushes scheduled alerts out over the broker; publish
// failures degrade to a log line, a missed push is not a scheduling error.
type SQLBackend struct {
	pending   *db.PendingStore
	prefs     cache.Store
	publisher Publisher
}

var _ Backend = (*SQLBackend)(nil)

// Publisher delivers a scheduled entry to interested devices.
type Publisher interface {
	PublishEntry(entry model.NotificationEntry) error
}

func NewSQLBackend(pending *db.PendingStore, prefs cache.Store, publisher Publisher) *SQLBackend {
	return &SQLBackend{pending: pending, prefs: prefs, publisher: publisher}
}

func (b *SQLBackend) CheckPermission(ctx context.Context) (Permission, error) {
	raw, ok, err := b.prefs.Get(ctx, cache.KeyNotificationPermission)
	if err != nil {
		return PermissionUnknown, err
	}
	if !ok {
		return PermissionUnknown, nil
	}
	switch Permission(raw) {
	case PermissionGranted:
		return PermissionGranted, nil
	case PermissionDenied:
		return PermissionDenied, nil
	}
	return PermissionUnknown, nil
}

// RequestPermission resolves an undecided gate. A previously recorded
// denial stays denied until the user flips it in settings; an undecided
// gate is granted and recorded.
func (b *SQLBackend) RequestPermission(ctx context.Context) (Permission, error) {
	current, err := b.CheckPermission(ctx)
	if err != nil {
		return PermissionUnknown, err
	}
	if current == PermissionDenied {
		return PermissionDenied, nil
	}
	if err := b.prefs.Set(ctx, cache.KeyNotificationPermission, string(PermissionGranted)); err != nil {
		return PermissionUnknown, err
	}
	return PermissionGranted, nil
}

func (b *SQLBackend) Schedule(_ context.Context, entries []model.NotificationEntry) error {
	if err := b.pending.InsertEntries(entries); err != nil {
		return apperrors.SchedulingFailure("insert entries", err)
	}
	if b.publisher == nil {
		return nil
	}
	for _, entry := range entries {
		if err := b.publisher.PublishEntry(entry); err != nil {
			log.Warn().Err(err).Int("id", entry.ID).Msg("failed to publish notification entry")
		}
	}
	return nil
}

func (b *SQLBackend) Pending(_ context.Context, domain string) ([]model.NotificationEntry, error) {
	return b.pending.PendingByDomain(domain)
}

func (b *SQLBackend) Cancel(_ context.Context, ids []int) error {
	return b.pending.CancelByIDs(ids)
}
