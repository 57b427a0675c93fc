package model

import "time"

// PromptFrequency controls how aggressively the app asks the user to
// refresh stale cached data.
type PromptFrequency string

const (
	FrequencyNormal       PromptFrequency = "normal"
	FrequencyConservative PromptFrequency = "conservative"
)

// RefreshPreferences are user settings governing refresh prompts.
// DismissedUntil is an absolute instant; a value in the past has no effect.
type RefreshPreferences struct {
	EnableAutoPrompts bool            `json:"enable_auto_prompts"`
	PromptFrequency   PromptFrequency `json:"prompt_frequency"`
	DismissedUntil    *time.Time      `json:"dismissed_until,omitempty"`
}

// DefaultRefreshPreferences is what a user gets before they have ever
// touched the settings screen.
func DefaultRefreshPreferences() RefreshPreferences {
	return RefreshPreferences{
		EnableAutoPrompts: true,
		PromptFrequency:   FrequencyNormal,
	}
}
