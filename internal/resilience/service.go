// Package resilience is the offline-first layer the UI talks to: it
// decides between network and cache, records sync freshness, evaluates
// refresh prompting and drives notification reconciliation.
package resilience

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/cache"
	"github.com/minaret-labs/minaret/internal/clock"
	"github.com/minaret-labs/minaret/internal/connectivity"
	"github.com/minaret-labs/minaret/internal/fallback"
	"github.com/minaret-labs/minaret/internal/freshness"
	"github.com/minaret-labs/minaret/internal/model"
	"github.com/minaret-labs/minaret/internal/notify"
	"github.com/minaret-labs/minaret/internal/prompt"
	"github.com/minaret-labs/minaret/internal/qibla"
	"github.com/minaret-labs/minaret/internal/source"
)

// Feature domains with independent sync records.
const (
	DomainPrayerTimes = "prayer_times"
	DomainQibla       = "qibla"
	DomainCalendar    = "calendar"
)

const offlineMessage = "You're offline and no saved data is available yet. Connect once to download it."

// Service is the UI-facing facade over the resilience layer.
type Service struct {
	store     cache.Store
	signal    connectivity.Signal
	prompts   *prompt.Manager
	source    source.PrayerTimeSource
	scheduler *notify.Scheduler
	clock     clock.Clock
}

func NewService(
	store cache.Store,
	signal connectivity.Signal,
	prompts *prompt.Manager,
	src source.PrayerTimeSource,
	scheduler *notify.Scheduler,
	clk clock.Clock,
) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		store:     store,
		signal:    signal,
		prompts:   prompts,
		source:    src,
		scheduler: scheduler,
		clock:     clk,
	}
}

// FreshnessIndicator is the passive UI coloring for a domain's cache age.
type FreshnessIndicator struct {
	Tier       freshness.Indicator `json:"tier"`
	LastSyncAt *time.Time          `json:"last_sync_at,omitempty"`
}

// GetFreshnessIndicator classifies a domain's cache age with the coarse
// table. A failing sync-record read degrades to "never synced" rather than
// failing the flow.
func (s *Service) GetFreshnessIndicator(ctx context.Context, domain string) FreshnessIndicator {
	lastSync := s.lastSyncOrNil(ctx, domain)
	return FreshnessIndicator{
		Tier:       freshness.ClassifyIndicator(lastSync, s.clock.Now()),
		LastSyncAt: lastSync,
	}
}

// ShouldPromptRefresh applies the prompt-table tier and the user's
// preferences for a domain.
func (s *Service) ShouldPromptRefresh(ctx context.Context, domain string) bool {
	now := s.clock.Now()
	tier := freshness.Classify(s.lastSyncOrNil(ctx, domain), now)
	prefs := s.prompts.Preferences(ctx, domain)
	return prompt.ShouldShowPrompt(tier, prefs, now)
}

// DismissPrompt starts the domain's dismissal window.
func (s *Service) DismissPrompt(ctx context.Context, domain string) error {
	return s.prompts.Dismiss(ctx, domain, s.clock.Now())
}

// RefreshNow clears any pending prompt state and forces the online path
// for the domain using its last known location.
func (s *Service) RefreshNow(ctx context.Context, domain string) error {
	if err := s.prompts.ClearDismissal(ctx, domain); err != nil {
		return err
	}
	coord, ok := s.lastLocation(ctx, domain)
	if !ok {
		return fmt.Errorf("no known location for %s, open the feature once first", domain)
	}
	switch domain {
	case DomainPrayerTimes:
		_, err := s.fetchPrayerTimes(ctx, coord, s.clock.Now())
		return err
	case DomainQibla:
		_, err := s.QiblaDirectionAndDistance(ctx, coord)
		return err
	}
	return fmt.Errorf("unknown feature domain %q", domain)
}

// PrayerTimes serves a day's schedule: live from the source when online,
// from the cached payload otherwise, with error-triggered fallback in
// between. Online success rewrites the cache and the sync record.
func (s *Service) PrayerTimes(ctx context.Context, coord model.Coordinate, date time.Time) (model.PrayerSchedule, error) {
	s.rememberLocation(ctx, DomainPrayerTimes, coord)

	key := prayerTimesKey(date)
	return fallback.Execute(ctx, s.signal, fallback.Plan[model.PrayerSchedule]{
		Feature:        DomainPrayerTimes,
		OfflineMessage: offlineMessage,
		Online: func(ctx context.Context) (model.PrayerSchedule, error) {
			return s.fetchPrayerTimes(ctx, coord, date)
		},
		Offline: func(ctx context.Context) (model.PrayerSchedule, error) {
			return s.cachedPrayerTimes(ctx, key)
		},
		HasCache: func(ctx context.Context) bool {
			_, ok, _ := s.store.Get(ctx, key)
			return ok
		},
	})
}

// QiblaDirectionAndDistance computes the great-circle bearing and distance
// to the Kaaba and caches the result per location fingerprint with the
// sync-record pattern.
func (s *Service) QiblaDirectionAndDistance(ctx context.Context, coord model.Coordinate) (model.GeodesicResult, error) {
	result, err := qibla.BearingToKaaba(coord)
	if err != nil {
		return model.GeodesicResult{}, err
	}
	s.rememberLocation(ctx, DomainQibla, coord)

	// Cache writes are best-effort: the computation is pure, so a failed
	// write only loses the freshness record, not the answer.
	if encoded, err := json.Marshal(result); err == nil {
		key := "qibla:" + qibla.Fingerprint(coord)
		if err := s.store.Set(ctx, key, string(encoded)); err == nil {
			if err := s.store.RecordSync(ctx, DomainQibla, s.clock.Now()); err != nil {
				log.Warn().Err(err).Msg("failed to record qibla sync")
			}
		}
	}
	return result, nil
}

// ReconcileNotifications rebuilds the prayer alert schedule. Failures
// surface to the caller but never block the data display path.
func (s *Service) ReconcileNotifications(ctx context.Context, events []model.DayEvent, settings model.NotificationSettings) error {
	return s.scheduler.Reconcile(ctx, events, settings)
}

// WatchConnectivity refreshes the prayer-times domain whenever
// connectivity returns and the cache is no longer fresh. Runs until ctx is
// done; intended as a goroutine from cmd/server.
func (s *Service) WatchConnectivity(ctx context.Context) {
	events := s.signal.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case state := <-events:
			if !state.Online {
				continue
			}
			indicator := s.GetFreshnessIndicator(ctx, DomainPrayerTimes)
			if indicator.Tier == freshness.IndicatorFresh {
				continue
			}
			if err := s.RefreshNow(ctx, DomainPrayerTimes); err != nil {
				log.Warn().Err(err).Msg("auto-refresh after reconnect failed")
			}
		}
	}
}

func (s *Service) fetchPrayerTimes(ctx context.Context, coord model.Coordinate, date time.Time) (model.PrayerSchedule, error) {
	schedule, err := s.source.Timings(ctx, coord, date)
	if err != nil {
		return model.PrayerSchedule{}, err
	}
	encoded, err := json.Marshal(schedule)
	if err != nil {
		return model.PrayerSchedule{}, err
	}
	// Persist payload first, then the sync record; last writer wins on
	// concurrent refreshes for the same domain.
	if err := s.store.Set(ctx, prayerTimesKey(date), string(encoded)); err != nil {
		log.Warn().Err(err).Msg("failed to cache prayer times")
		return schedule, nil
	}
	if err := s.store.RecordSync(ctx, DomainPrayerTimes, s.clock.Now()); err != nil {
		log.Warn().Err(err).Msg("failed to record prayer times sync")
	}
	return schedule, nil
}

func (s *Service) cachedPrayerTimes(ctx context.Context, key string) (model.PrayerSchedule, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return model.PrayerSchedule{}, err
	}
	if !ok {
		return model.PrayerSchedule{}, &offlineCacheMiss{key: key}
	}
	var schedule model.PrayerSchedule
	if err := json.Unmarshal([]byte(raw), &schedule); err != nil {
		return model.PrayerSchedule{}, fmt.Errorf("corrupt cached payload %s: %w", key, err)
	}
	return schedule, nil
}

func (s *Service) lastSyncOrNil(ctx context.Context, domain string) *time.Time {
	lastSync, err := s.store.LastSync(ctx, domain)
	if err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("sync record unreadable, treating as never synced")
		return nil
	}
	return lastSync
}

func (s *Service) rememberLocation(ctx context.Context, domain string, coord model.Coordinate) {
	encoded, err := json.Marshal(coord)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, "last_location:"+domain, string(encoded)); err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("failed to remember location")
	}
}

func (s *Service) lastLocation(ctx context.Context, domain string) (model.Coordinate, bool) {
	raw, ok, err := s.store.Get(ctx, "last_location:"+domain)
	if err != nil || !ok {
		return model.Coordinate{}, false
	}
	var coord model.Coordinate
	if err := json.Unmarshal([]byte(raw), &coord); err != nil {
		return model.Coordinate{}, false
	}
	return coord, true
}

func prayerTimesKey(date time.Time) string {
	return "prayer_times:" + date.Format("2006-01-02")
}

type offlineCacheMiss struct{ key string }

func (e *offlineCacheMiss) Error() string { return "cache miss for " + e.key }
