package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/minaret-labs/minaret/internal/model"
)

var chicago = model.Coordinate{Latitude: 41.8781, Longitude: -87.6298}

var sampleTimings = map[string]string{
	"Fajr":    "04:23",
	"Sunrise": "05:58",
	"Dhuhr":   "12:53",
	"Asr":     "16:44",
	"Maghrib": "19:47",
	"Isha":    "21:12",
}

func TestScheduleFromTimings(t *testing.T) {
	date := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	schedule, err := ScheduleFromTimings(sampleTimings, date)
	assert.NoError(t, err)

	assert.Equal(t, "2025-08-10", schedule.Date)
	assert.Len(t, schedule.Prayers, 5)
	assert.Len(t, schedule.Events, 5)

	// canonical order, 12-hour display conversion
	assert.Equal(t, model.Prayer{Name: "FAJR", Time: "04:23", Period: "AM"}, schedule.Prayers[0])
	assert.Equal(t, model.Prayer{Name: "DHUHR", Time: "12:53", Period: "PM"}, schedule.Prayers[1])
	assert.Equal(t, model.Prayer{Name: "MAGHRIB", Time: "07:47", Period: "PM"}, schedule.Prayers[3])

	// events carry absolute instants on the requested date
	assert.Equal(t, "Asr", schedule.Events[2].Name)
	assert.True(t, schedule.Events[2].TimeOfDay.Equal(
		time.Date(2025, 8, 10, 16, 44, 0, 0, time.UTC)))
}

func TestScheduleFromTimingsTimezoneSuffix(t *testing.T) {
	timings := map[string]string{
		"Fajr": "04:23 (CDT)", "Dhuhr": "12:53 (CDT)", "Asr": "16:44 (CDT)",
		"Maghrib": "19:47 (CDT)", "Isha": "21:12 (CDT)",
	}
	schedule, err := ScheduleFromTimings(timings, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "04:23", schedule.Prayers[0].Time)
}

func TestScheduleFromTimingsMissingPrayer(t *testing.T) {
	incomplete := map[string]string{"Fajr": "04:23"}
	_, err := ScheduleFromTimings(incomplete, time.Now())
	assert.ErrorContains(t, err, "Dhuhr")
}

func TestScheduleFromTimingsGarbage(t *testing.T) {
	bad := map[string]string{
		"Fajr": "4am", "Dhuhr": "12:53", "Asr": "16:44", "Maghrib": "19:47", "Isha": "21:12",
	}
	_, err := ScheduleFromTimings(bad, time.Now())
	assert.ErrorContains(t, err, "Fajr")
}

func TestAlAdhanClientTimings(t *testing.T) {
	var seenPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		assert.Equal(t, "41.878100", r.URL.Query().Get("latitude"))
		assert.Equal(t, "2", r.URL.Query().Get("method"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"timings":{
			"Fajr":"04:23","Dhuhr":"12:53","Asr":"16:44","Maghrib":"19:47","Isha":"21:12"
		}}}`))
	}))
	defer server.Close()

	client := NewAlAdhanClient(server.URL)
	date := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)

	schedule, err := client.Timings(context.Background(), chicago, date)
	assert.NoError(t, err)
	assert.Equal(t, "/v1/timings/10-08-2025", seenPath)
	assert.Len(t, schedule.Prayers, 5)
}

func TestAlAdhanClientUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewAlAdhanClient(server.URL)
	_, err := client.Timings(context.Background(), chicago, time.Now())
	assert.ErrorContains(t, err, "status 502")
}
