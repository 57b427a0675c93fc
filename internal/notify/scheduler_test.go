package notify

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minaret-labs/minaret/internal/apperrors"
	"github.com/minaret-labs/minaret/internal/clock"
	"github.com/minaret-labs/minaret/internal/model"
)

var now = time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)

const domain = "prayer_times"

// fakeBackend records entries in memory and counts permission requests.
type fakeBackend struct {
	permission     Permission
	requests       int
	entries        map[int]model.NotificationEntry
	scheduleErr    error
	cancelErr      error
	scheduledSeen  [][]int
	cancelledSeen  [][]int
}

func newFakeBackend(permission Permission) *fakeBackend {
	return &fakeBackend{
		permission: permission,
		entries:    make(map[int]model.NotificationEntry),
	}
}

func (f *fakeBackend) CheckPermission(context.Context) (Permission, error) {
	return f.permission, nil
}

func (f *fakeBackend) RequestPermission(context.Context) (Permission, error) {
	f.requests++
	if f.permission == PermissionUnknown {
		f.permission = PermissionGranted
	}
	return f.permission, nil
}

func (f *fakeBackend) Schedule(_ context.Context, entries []model.NotificationEntry) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		f.entries[e.ID] = e
		ids = append(ids, e.ID)
	}
	sort.Ints(ids)
	f.scheduledSeen = append(f.scheduledSeen, ids)
	return nil
}

func (f *fakeBackend) Pending(_ context.Context, domain string) ([]model.NotificationEntry, error) {
	var out []model.NotificationEntry
	for _, e := range f.entries {
		if e.Domain == domain {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBackend) Cancel(_ context.Context, ids []int) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	for _, id := range ids {
		delete(f.entries, id)
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	f.cancelledSeen = append(f.cancelledSeen, sorted)
	return nil
}

func fiveDailyPrayers() []model.DayEvent {
	times := map[string]time.Time{
		"Fajr":    time.Date(2025, 8, 10, 5, 12, 0, 0, time.UTC),
		"Dhuhr":   time.Date(2025, 8, 10, 13, 1, 0, 0, time.UTC),
		"Asr":     time.Date(2025, 8, 10, 16, 45, 0, 0, time.UTC),
		"Maghrib": time.Date(2025, 8, 10, 20, 2, 0, 0, time.UTC),
		"Isha":    time.Date(2025, 8, 10, 21, 30, 0, 0, time.UTC),
	}
	out := make([]model.DayEvent, 0, len(times))
	for _, name := range []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"} {
		out = append(out, model.DayEvent{Name: name, TimeOfDay: times[name]})
	}
	return out
}

func enabled(offset int) model.NotificationSettings {
	return model.NotificationSettings{Enabled: true, OffsetMinutes: offset, SoundEnabled: true}
}

func pendingIDs(t *testing.T, backend *fakeBackend) []int {
	t.Helper()
	entries, err := backend.Pending(context.Background(), domain)
	assert.NoError(t, err)
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	sort.Ints(ids)
	return ids
}

func TestAllocateIDIsDeterministicAndCollisionFree(t *testing.T) {
	date := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)

	seen := map[int]string{}
	for _, name := range []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"} {
		for _, kind := range []model.NotificationKind{model.KindReminder, model.KindExact} {
			id := AllocateID(date, name, kind)
			assert.Equal(t, id, AllocateID(date, name, kind))
			if prior, dup := seen[id]; dup {
				t.Fatalf("id %d collides: %s and %s/%s", id, prior, name, kind)
			}
			seen[id] = name + "/" + kind.String()
		}
	}
}

func TestAllocateIDEncodesDateAndKind(t *testing.T) {
	date := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	id := AllocateID(date, "Fajr", model.KindExact)
	assert.Equal(t, 250810, id/10000)
	assert.Equal(t, int(model.KindExact), id%10)

	nextDay := AllocateID(date.AddDate(0, 0, 1), "Fajr", model.KindExact)
	assert.NotEqual(t, id, nextDay)
}

func TestReconcileSchedulesReminderAndExactEntries(t *testing.T) {
	backend := newFakeBackend(PermissionGranted)
	s := NewScheduler(backend, domain, clock.Fixed{T: now})

	assert.NoError(t, s.Reconcile(context.Background(), fiveDailyPrayers(), enabled(10)))
	assert.Equal(t, StateScheduled, s.State())

	// four future prayers, each with one reminder and one exact entry
	assert.Len(t, pendingIDs(t, backend), 8)

	for _, e := range backend.entries {
		if e.Kind == model.KindReminder {
			exact := backend.entries[AllocateID(e.ScheduledAt, e.EventName, model.KindExact)]
			assert.True(t, e.ScheduledAt.Equal(exact.ScheduledAt.Add(-10*time.Minute)))
		}
	}
}

func TestReconcileSkipsPastEvents(t *testing.T) {
	backend := newFakeBackend(PermissionGranted)
	s := NewScheduler(backend, domain, clock.Fixed{T: now})

	assert.NoError(t, s.Reconcile(context.Background(), fiveDailyPrayers(), enabled(10)))
	for _, e := range backend.entries {
		assert.NotEqual(t, "Fajr", e.EventName, "05:12 is already past noon")
		assert.True(t, e.ScheduledAt.After(now))
	}
}

func TestReconcileWithAllEventsPastSchedulesNothing(t *testing.T) {
	backend := newFakeBackend(PermissionGranted)
	endOfDay := time.Date(2025, 8, 10, 23, 0, 0, 0, time.UTC)
	s := NewScheduler(backend, domain, clock.Fixed{T: endOfDay})

	assert.NoError(t, s.Reconcile(context.Background(), fiveDailyPrayers(), enabled(10)))
	assert.Equal(t, StateScheduled, s.State())
	assert.Empty(t, pendingIDs(t, backend))
}

func TestReconcileIsIdempotent(t *testing.T) {
	backend := newFakeBackend(PermissionGranted)
	s := NewScheduler(backend, domain, clock.Fixed{T: now})
	ctx := context.Background()
	events := fiveDailyPrayers()

	assert.NoError(t, s.Reconcile(ctx, events, enabled(10)))
	first := pendingIDs(t, backend)

	assert.NoError(t, s.Reconcile(ctx, events, enabled(10)))
	second := pendingIDs(t, backend)

	assert.Equal(t, first, second)
	// second run cancelled everything the first created before recreating
	assert.Equal(t, first, backend.cancelledSeen[len(backend.cancelledSeen)-1])
}

func TestReconcileReplacesEntriesOnSettingsChange(t *testing.T) {
	backend := newFakeBackend(PermissionGranted)
	s := NewScheduler(backend, domain, clock.Fixed{T: now})
	ctx := context.Background()

	assert.NoError(t, s.Reconcile(ctx, fiveDailyPrayers(), enabled(10)))
	assert.Len(t, pendingIDs(t, backend), 8)

	// dropping the offset removes the reminder entries, no orphans remain
	assert.NoError(t, s.Reconcile(ctx, fiveDailyPrayers(), enabled(0)))
	ids := pendingIDs(t, backend)
	assert.Len(t, ids, 4)
	for _, id := range ids {
		assert.Equal(t, int(model.KindExact), id%10)
	}
}

func TestReconcileDisabledCancelsEverything(t *testing.T) {
	backend := newFakeBackend(PermissionGranted)
	s := NewScheduler(backend, domain, clock.Fixed{T: now})
	ctx := context.Background()

	assert.NoError(t, s.Reconcile(ctx, fiveDailyPrayers(), enabled(10)))
	assert.NotEmpty(t, pendingIDs(t, backend))

	assert.NoError(t, s.Reconcile(ctx, fiveDailyPrayers(), model.NotificationSettings{Enabled: false}))
	assert.Equal(t, StateDisabled, s.State())
	assert.Empty(t, pendingIDs(t, backend))
}

func TestReconcileRequestsPermissionOnce(t *testing.T) {
	backend := newFakeBackend(PermissionUnknown)
	s := NewScheduler(backend, domain, clock.Fixed{T: now})

	assert.NoError(t, s.Reconcile(context.Background(), fiveDailyPrayers(), enabled(10)))
	assert.Equal(t, 1, backend.requests)
	assert.Equal(t, StateScheduled, s.State())
}

func TestReconcileDeniedPermissionSchedulesNothing(t *testing.T) {
	backend := newFakeBackend(PermissionDenied)
	s := NewScheduler(backend, domain, clock.Fixed{T: now})

	err := s.Reconcile(context.Background(), fiveDailyPrayers(), enabled(10))
	assert.ErrorIs(t, err, apperrors.ErrNotificationPermissionDenied)
	assert.Equal(t, StateFailed, s.State())
	assert.Empty(t, pendingIDs(t, backend))
}

func TestReconcileSurfacesSchedulingFailure(t *testing.T) {
	backend := newFakeBackend(PermissionGranted)
	backend.scheduleErr = errors.New("backend down")
	s := NewScheduler(backend, domain, clock.Fixed{T: now})

	err := s.Reconcile(context.Background(), fiveDailyPrayers(), enabled(10))
	assert.ErrorIs(t, err, apperrors.ErrSchedulingBackend)
	assert.Equal(t, StateFailed, s.State())
}

func TestReconcileCancelFailureStopsBeforeCreate(t *testing.T) {
	backend := newFakeBackend(PermissionGranted)
	s := NewScheduler(backend, domain, clock.Fixed{T: now})
	ctx := context.Background()

	assert.NoError(t, s.Reconcile(ctx, fiveDailyPrayers(), enabled(10)))
	before := pendingIDs(t, backend)

	backend.cancelErr = errors.New("cancel rejected")
	err := s.Reconcile(ctx, fiveDailyPrayers(), enabled(0))
	assert.ErrorIs(t, err, apperrors.ErrSchedulingBackend)
	assert.Equal(t, StateFailed, s.State())
	// nothing was created past the failed cancel step
	assert.Equal(t, before, pendingIDs(t, backend))
}

func TestPlanSkipsReminderAlreadyInThePast(t *testing.T) {
	event := model.DayEvent{
		Name:      "Dhuhr",
		TimeOfDay: now.Add(5 * time.Minute),
	}
	entries := Plan(domain, []model.DayEvent{event}, enabled(10), now)

	// the reminder instant (T-10m) already passed, only the exact remains
	assert.Len(t, entries, 1)
	assert.Equal(t, model.KindExact, entries[0].Kind)
}
