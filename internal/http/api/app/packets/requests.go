package packets

import "time"

type DayEventRequest struct {
	Name      string    `json:"name" binding:"required"`
	TimeOfDay time.Time `json:"time_of_day" binding:"required"`
}

type NotificationSettingsRequest struct {
	Enabled       bool `json:"enabled"`
	OffsetMinutes int  `json:"offset_minutes" binding:"gte=0,lte=120"`
	SoundEnabled  bool `json:"sound_enabled"`
}

type ReconcileRequest struct {
	Events   []DayEventRequest           `json:"events" binding:"dive"`
	Settings NotificationSettingsRequest `json:"settings"`
}
