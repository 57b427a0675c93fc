package model

import "time"

// Prayer is a single daily prayer with its 12-hour display time.
type Prayer struct {
	Name   string `json:"name"`   // "FAJR", "DHUHR", ...
	Time   string `json:"time"`   // "05:12"
	Period string `json:"period"` // "AM" or "PM"
}

// PrayerSchedule is one day's prayer times for a location.
type PrayerSchedule struct {
	City    string     `json:"city,omitempty"`
	Date    string     `json:"date"` // "2006-01-02"
	Prayers []Prayer   `json:"prayers"`
	Events  []DayEvent `json:"events"`
}

// DayEvent is a named time-of-day occurrence on a specific date, the unit
// the notification scheduler works in.
type DayEvent struct {
	Name      string    `json:"name"`
	TimeOfDay time.Time `json:"time_of_day"`
}
