// Package prompt decides when the app actively asks the user to refresh
// stale cached data, and owns persistence of the preferences that govern
// the decision.
package prompt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/cache"
	"github.com/minaret-labs/minaret/internal/freshness"
	"github.com/minaret-labs/minaret/internal/model"
)

// DefaultDismissalPeriod is how long a dismissal suppresses prompts.
const DefaultDismissalPeriod = 6 * time.Hour

// ShouldShowPrompt applies the user's preferences to a freshness tier.
// A pending dismissal window suppresses every tier, including critical;
// a dismissal in the past has no effect.
func ShouldShowPrompt(tier freshness.Tier, prefs model.RefreshPreferences, now time.Time) bool {
	if !prefs.EnableAutoPrompts {
		return false
	}
	if prefs.DismissedUntil != nil && now.Before(*prefs.DismissedUntil) {
		return false
	}
	if prefs.PromptFrequency == model.FrequencyConservative {
		return tier == freshness.TierCritical
	}
	return freshness.ShouldPromptRefresh(tier)
}

// Manager persists per-domain refresh preferences in the offline cache.
type Manager struct {
	store           cache.Store
	dismissalPeriod time.Duration
}

func NewManager(store cache.Store, dismissalPeriod time.Duration) *Manager {
	if dismissalPeriod <= 0 {
		dismissalPeriod = DefaultDismissalPeriod
	}
	return &Manager{store: store, dismissalPeriod: dismissalPeriod}
}

// Preferences loads the stored record for a domain. Absent or unreadable
// records degrade to the defaults rather than failing the flow.
func (m *Manager) Preferences(ctx context.Context, domain string) model.RefreshPreferences {
	raw, ok, err := m.store.Get(ctx, prefsKey(domain))
	if err != nil || !ok {
		return model.DefaultRefreshPreferences()
	}
	var prefs model.RefreshPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("unreadable refresh preferences, using defaults")
		return model.DefaultRefreshPreferences()
	}
	return prefs
}

// Save persists the record for a domain.
func (m *Manager) Save(ctx context.Context, domain string, prefs model.RefreshPreferences) error {
	encoded, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, prefsKey(domain), string(encoded))
}

// Dismiss starts a dismissal window: prompts for the domain stay hidden
// until now + the configured period.
func (m *Manager) Dismiss(ctx context.Context, domain string, now time.Time) error {
	prefs := m.Preferences(ctx, domain)
	until := now.Add(m.dismissalPeriod)
	prefs.DismissedUntil = &until
	return m.Save(ctx, domain, prefs)
}

// ClearDismissal removes any pending window, used when the user refreshes
// explicitly.
func (m *Manager) ClearDismissal(ctx context.Context, domain string) error {
	prefs := m.Preferences(ctx, domain)
	if prefs.DismissedUntil == nil {
		return nil
	}
	prefs.DismissedUntil = nil
	return m.Save(ctx, domain, prefs)
}

func prefsKey(domain string) string {
	return cache.KeyRefreshPreferences + ":" + domain
}
