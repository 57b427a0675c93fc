package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minaret-labs/minaret/internal/model"
)

const defaultBaseURL = "https://api.aladhan.com"

// prayerOrder is the canonical five daily prayers, in order.
var prayerOrder = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// AlAdhanClient fetches timings from the AlAdhan API (calculation
// method 2, ISNA).
type AlAdhanClient struct {
	baseURL string
	http    *http.Client
}

var _ PrayerTimeSource = (*AlAdhanClient)(nil)

func NewAlAdhanClient(baseURL string) *AlAdhanClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &AlAdhanClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *AlAdhanClient) Timings(ctx context.Context, coord model.Coordinate, date time.Time) (model.PrayerSchedule, error) {
	url := fmt.Sprintf("%s/v1/timings/%s?latitude=%f&longitude=%f&method=2",
		c.baseURL, date.Format("02-01-2006"), coord.Latitude, coord.Longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.PrayerSchedule{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.PrayerSchedule{}, fmt.Errorf("failed to get prayer times: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.PrayerSchedule{}, fmt.Errorf("failed to get prayer times: status %d", resp.StatusCode)
	}

	var aladhan struct {
		Data struct {
			Timings map[string]string `json:"timings"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&aladhan); err != nil {
		return model.PrayerSchedule{}, fmt.Errorf("unexpected prayer times response: %w", err)
	}

	return ScheduleFromTimings(aladhan.Data.Timings, date)
}

// ScheduleFromTimings converts an AlAdhan "HH:MM" timings map into the
// domain schedule: 12-hour display entries plus absolute day events in the
// date's location-local day.
func ScheduleFromTimings(timings map[string]string, date time.Time) (model.PrayerSchedule, error) {
	schedule := model.PrayerSchedule{
		Date:    date.Format("2006-01-02"),
		Prayers: make([]model.Prayer, 0, len(prayerOrder)),
		Events:  make([]model.DayEvent, 0, len(prayerOrder)),
	}

	for _, name := range prayerOrder {
		raw, ok := timings[name]
		if !ok {
			return model.PrayerSchedule{}, fmt.Errorf("timings missing prayer %q", name)
		}
		parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
		if len(parts) != 2 {
			return model.PrayerSchedule{}, fmt.Errorf("unparseable time %q for prayer %q", raw, name)
		}
		hour, err := strconv.Atoi(parts[0])
		if err != nil || hour < 0 || hour > 23 {
			return model.PrayerSchedule{}, fmt.Errorf("unparseable hour %q for prayer %q", raw, name)
		}
		// Some responses append a timezone suffix, e.g. "17:30 (EST)".
		minuteRaw := parts[1]
		if idx := strings.IndexByte(minuteRaw, ' '); idx >= 0 {
			minuteRaw = minuteRaw[:idx]
		}
		minute, err := strconv.Atoi(minuteRaw)
		if err != nil || minute < 0 || minute > 59 {
			return model.PrayerSchedule{}, fmt.Errorf("unparseable minute %q for prayer %q", raw, name)
		}

		// "17:30" -> ("05:30", "PM")
		period := "AM"
		displayHour := hour
		if hour >= 12 {
			period = "PM"
			if hour > 12 {
				displayHour = hour - 12
			}
		}
		if displayHour == 0 {
			displayHour = 12
		}

		schedule.Prayers = append(schedule.Prayers, model.Prayer{
			Name:   strings.ToUpper(name),
			Time:   fmt.Sprintf("%02d:%s", displayHour, minuteRaw),
			Period: period,
		})
		schedule.Events = append(schedule.Events, model.DayEvent{
			Name: name,
			TimeOfDay: time.Date(date.Year(), date.Month(), date.Day(),
				hour, minute, 0, 0, date.Location()),
		})
	}

	return schedule, nil
}
