package packets

type FreshnessResponse struct {
	Tier       string  `json:"tier"`
	LastSyncAt *string `json:"last_sync_at,omitempty"`
}

type PromptResponse struct {
	ShouldPrompt bool `json:"should_prompt"`
}

type QiblaResponse struct {
	DirectionDegrees float64  `json:"direction_degrees"`
	DistanceKm       float64  `json:"distance_km"`
	CompassBearing   *float64 `json:"compass_bearing,omitempty"`
	Aligned          *bool    `json:"aligned,omitempty"`
}

type ReconcileResponse struct {
	State string `json:"state"`
}
