// Package source fetches live prayer times. The astronomy itself is
// delegated to the AlAdhan service; this package only adapts its response
// into the domain model.
package source

import (
	"context"
	"time"

	"github.com/minaret-labs/minaret/internal/model"
)

// PrayerTimeSource produces one day's prayer schedule for a location.
type PrayerTimeSource interface {
	Timings(ctx context.Context, coord model.Coordinate, date time.Time) (model.PrayerSchedule, error)
}
