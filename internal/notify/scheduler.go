// Package notify derives reminder and exact-time notification entries for
// a day's prayer events and reconciles them against whatever is already
// pending. Reconciliation is always cancel-all-then-recreate: incremental
// patching could leave duplicates behind after a settings change or a date
// rollover, so it is never attempted.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/apperrors"
	"github.com/minaret-labs/minaret/internal/clock"
	"github.com/minaret-labs/minaret/internal/model"
)

// State is the per-domain scheduler lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateReconciling State = "reconciling"
	StateScheduled   State = "scheduled"
	StateDisabled    State = "disabled"
	StateFailed      State = "failed"
)

// Scheduler reconciles one domain's notifications against the backend.
type Scheduler struct {
	backend Backend
	domain  string
	clock   clock.Clock

	mu    sync.Mutex
	state State
}

func NewScheduler(backend Backend, domain string, clk clock.Clock) *Scheduler {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Scheduler{backend: backend, domain: domain, clock: clk, state: StateIdle}
}

// State reports the lifecycle state after the last reconcile.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reconcile replaces all pending entries for this domain with entries
// derived from events. Concurrent invocations (connectivity-restored event
// racing a manual refresh) serialize on the scheduler; each full run is
// cancel-then-create with no partial-update state.
func (s *Scheduler) Reconcile(ctx context.Context, events []model.DayEvent, settings model.NotificationSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateReconciling

	if !settings.Enabled {
		if err := s.cancelAll(ctx); err != nil {
			s.state = StateFailed
			return err
		}
		s.state = StateDisabled
		log.Info().Str("domain", s.domain).Msg("notifications disabled, pending entries cancelled")
		return nil
	}

	if err := s.ensurePermission(ctx); err != nil {
		s.state = StateFailed
		return err
	}

	// Cancellation must complete before any new entry is created.
	if err := s.cancelAll(ctx); err != nil {
		s.state = StateFailed
		return err
	}

	entries := Plan(s.domain, events, settings, s.clock.Now())
	if len(entries) > 0 {
		if err := s.backend.Schedule(ctx, entries); err != nil {
			s.state = StateFailed
			return apperrors.SchedulingFailure("schedule", err)
		}
	}

	s.state = StateScheduled
	log.Info().
		Str("domain", s.domain).
		Int("entries", len(entries)).
		Msg("notifications reconciled")
	return nil
}

// Plan derives the entry set for a day's events: for every event still in
// the future, an exact entry at its time and, when the reminder instant
// has not already passed, a reminder entry offsetMinutes earlier. Past
// events produce nothing — notifications are never backfilled.
func Plan(domain string, events []model.DayEvent, settings model.NotificationSettings, now time.Time) []model.NotificationEntry {
	var entries []model.NotificationEntry
	for _, event := range events {
		if !event.TimeOfDay.After(now) {
			continue
		}
		date := event.TimeOfDay.Format("2006-01-02")

		if settings.OffsetMinutes > 0 {
			reminderAt := event.TimeOfDay.Add(-time.Duration(settings.OffsetMinutes) * time.Minute)
			if reminderAt.After(now) {
				entries = append(entries, model.NotificationEntry{
					ID:          AllocateID(event.TimeOfDay, event.Name, model.KindReminder),
					Domain:      domain,
					ScheduledAt: reminderAt,
					Kind:        model.KindReminder,
					EventName:   event.Name,
					EventDate:   date,
					Sound:       settings.SoundEnabled,
				})
			}
		}

		entries = append(entries, model.NotificationEntry{
			ID:          AllocateID(event.TimeOfDay, event.Name, model.KindExact),
			Domain:      domain,
			ScheduledAt: event.TimeOfDay,
			Kind:        model.KindExact,
			EventName:   event.Name,
			EventDate:   date,
			Sound:       settings.SoundEnabled,
		})
	}
	return entries
}

func (s *Scheduler) cancelAll(ctx context.Context) error {
	pending, err := s.backend.Pending(ctx, s.domain)
	if err != nil {
		return apperrors.SchedulingFailure("query pending", err)
	}
	if len(pending) == 0 {
		return nil
	}
	ids := make([]int, 0, len(pending))
	for _, e := range pending {
		ids = append(ids, e.ID)
	}
	if err := s.backend.Cancel(ctx, ids); err != nil {
		return apperrors.SchedulingFailure("cancel pending", err)
	}
	return nil
}

// ensurePermission checks the gate and requests it once when undecided.
// Denial is terminal for this reconcile: nothing gets scheduled.
func (s *Scheduler) ensurePermission(ctx context.Context) error {
	perm, err := s.backend.CheckPermission(ctx)
	if err != nil {
		return apperrors.SchedulingFailure("check permission", err)
	}
	if perm == PermissionGranted {
		return nil
	}
	if perm == PermissionUnknown {
		perm, err = s.backend.RequestPermission(ctx)
		if err != nil {
			return apperrors.SchedulingFailure("request permission", err)
		}
		if perm == PermissionGranted {
			return nil
		}
	}
	return apperrors.ErrNotificationPermissionDenied
}
