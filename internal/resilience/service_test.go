package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minaret-labs/minaret/internal/apperrors"
	"github.com/minaret-labs/minaret/internal/cache"
	"github.com/minaret-labs/minaret/internal/clock"
	"github.com/minaret-labs/minaret/internal/connectivity"
	"github.com/minaret-labs/minaret/internal/freshness"
	"github.com/minaret-labs/minaret/internal/model"
	"github.com/minaret-labs/minaret/internal/notify"
	"github.com/minaret-labs/minaret/internal/prompt"
	"github.com/minaret-labs/minaret/internal/source"
)

var (
	now     = time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	newYork = model.Coordinate{Latitude: 40.7128, Longitude: -74.0060}
)

// fakeSource returns a canned schedule and can be told to fail.
type fakeSource struct {
	schedule model.PrayerSchedule
	err      error
	calls    int
}

func (f *fakeSource) Timings(context.Context, model.Coordinate, time.Time) (model.PrayerSchedule, error) {
	f.calls++
	if f.err != nil {
		return model.PrayerSchedule{}, f.err
	}
	return f.schedule, nil
}

var _ source.PrayerTimeSource = (*fakeSource)(nil)

// nullBackend satisfies notify.Backend for facade tests that never reconcile.
type nullBackend struct{}

func (nullBackend) CheckPermission(context.Context) (notify.Permission, error) {
	return notify.PermissionGranted, nil
}
func (nullBackend) RequestPermission(context.Context) (notify.Permission, error) {
	return notify.PermissionGranted, nil
}
func (nullBackend) Schedule(context.Context, []model.NotificationEntry) error { return nil }
func (nullBackend) Pending(context.Context, string) ([]model.NotificationEntry, error) {
	return nil, nil
}
func (nullBackend) Cancel(context.Context, []int) error { return nil }

type fixture struct {
	service *Service
	store   cache.Store
	signal  *connectivity.StaticSignal
	source  *fakeSource
}

func newFixture(online bool) fixture {
	store := cache.NewMemoryStore()
	signal := connectivity.NewStaticSignal(online)
	src := &fakeSource{
		schedule: model.PrayerSchedule{
			Date: "2025-08-10",
			Prayers: []model.Prayer{
				{Name: "FAJR", Time: "05:12", Period: "AM"},
			},
		},
	}
	clk := clock.Fixed{T: now}
	scheduler := notify.NewScheduler(nullBackend{}, DomainPrayerTimes, clk)
	svc := NewService(store, signal, prompt.NewManager(store, 6*time.Hour), src, scheduler, clk)
	return fixture{service: svc, store: store, signal: signal, source: src}
}

func TestPrayerTimesOnlineCachesAndRecordsSync(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	got, err := f.service.PrayerTimes(ctx, newYork, now)
	assert.NoError(t, err)
	assert.Equal(t, "2025-08-10", got.Date)

	lastSync, err := f.store.LastSync(ctx, DomainPrayerTimes)
	assert.NoError(t, err)
	if assert.NotNil(t, lastSync) {
		assert.True(t, lastSync.Equal(now))
	}

	indicator := f.service.GetFreshnessIndicator(ctx, DomainPrayerTimes)
	assert.Equal(t, freshness.IndicatorFresh, indicator.Tier)
}

func TestPrayerTimesOfflineServesCachedPayload(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	_, err := f.service.PrayerTimes(ctx, newYork, now)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.source.calls)

	f.signal.SetOnline(false)
	got, err := f.service.PrayerTimes(ctx, newYork, now)
	assert.NoError(t, err)
	assert.Equal(t, "2025-08-10", got.Date)
	assert.Equal(t, 1, f.source.calls, "offline path must not hit the source")
}

func TestPrayerTimesOfflineWithoutCacheFails(t *testing.T) {
	f := newFixture(false)

	_, err := f.service.PrayerTimes(context.Background(), newYork, now)
	assert.ErrorIs(t, err, apperrors.ErrNoConnectivityNoCache)
}

func TestPrayerTimesOnlineFailureFallsBackThenSurfacesOriginal(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	// prime the cache
	_, err := f.service.PrayerTimes(ctx, newYork, now)
	assert.NoError(t, err)

	// upstream starts failing, cached payload still serves
	upstream := errors.New("HTTP 500")
	f.source.err = upstream
	got, err := f.service.PrayerTimes(ctx, newYork, now)
	assert.NoError(t, err)
	assert.Equal(t, "2025-08-10", got.Date)

	// a date with no cached payload surfaces the original online error
	_, err = f.service.PrayerTimes(ctx, newYork, now.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, upstream)
}

func TestShouldPromptRefreshScenario(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	// last sync two days ago, normal frequency: prompt
	assert.NoError(t, f.store.RecordSync(ctx, DomainPrayerTimes, now.Add(-48*time.Hour)))
	assert.True(t, f.service.ShouldPromptRefresh(ctx, DomainPrayerTimes))

	// dismissing suppresses the prompt for the dismissal window
	assert.NoError(t, f.service.DismissPrompt(ctx, DomainPrayerTimes))
	assert.False(t, f.service.ShouldPromptRefresh(ctx, DomainPrayerTimes))
}

func TestShouldPromptRefreshNeverSyncedIsCritical(t *testing.T) {
	f := newFixture(true)
	assert.True(t, f.service.ShouldPromptRefresh(context.Background(), DomainCalendar))
}

func TestRefreshNowClearsDismissalAndRefetches(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	_, err := f.service.PrayerTimes(ctx, newYork, now)
	assert.NoError(t, err)
	assert.NoError(t, f.service.DismissPrompt(ctx, DomainPrayerTimes))

	assert.NoError(t, f.service.RefreshNow(ctx, DomainPrayerTimes))
	assert.Equal(t, 2, f.source.calls)
}

func TestRefreshNowWithoutKnownLocationFails(t *testing.T) {
	f := newFixture(true)
	assert.Error(t, f.service.RefreshNow(context.Background(), DomainPrayerTimes))
}

func TestQiblaDirectionCachedPerFingerprint(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	result, err := f.service.QiblaDirectionAndDistance(ctx, newYork)
	assert.NoError(t, err)
	assert.Equal(t, 58.48, result.DirectionDegrees)
	assert.InEpsilon(t, 10306.0, result.DistanceKm, 0.01)

	_, ok, err := f.store.Get(ctx, "qibla:40.71:-74.01")
	assert.NoError(t, err)
	assert.True(t, ok)

	lastSync, err := f.store.LastSync(ctx, DomainQibla)
	assert.NoError(t, err)
	assert.NotNil(t, lastSync)
}

func TestQiblaInvalidCoordinateIsTerminal(t *testing.T) {
	f := newFixture(true)
	_, err := f.service.QiblaDirectionAndDistance(context.Background(),
		model.Coordinate{Latitude: 95, Longitude: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinate)
}

func TestFreshnessIndicatorNeverSynced(t *testing.T) {
	f := newFixture(true)
	indicator := f.service.GetFreshnessIndicator(context.Background(), DomainQibla)
	assert.Equal(t, freshness.IndicatorExpired, indicator.Tier)
	assert.Nil(t, indicator.LastSyncAt)
}
