// Package freshness classifies cache age. Two independent threshold tables
// exist on purpose: a coarse indicator used for passive UI coloring and a
// wider prompt table used to decide when to nag the user to refresh. They
// must not be conflated.
package freshness

import "time"

// Indicator is the coarse 3-tier bucket for passive UI display.
type Indicator string

const (
	IndicatorFresh   Indicator = "fresh"
	IndicatorStale   Indicator = "stale"
	IndicatorExpired Indicator = "expired"
)

// Tier is the 4-tier bucket driving active refresh prompting.
type Tier string

const (
	TierFresh    Tier = "fresh"
	TierStale    Tier = "stale"
	TierOutdated Tier = "outdated"
	TierCritical Tier = "critical"
)

// Coarse indicator thresholds.
const (
	indicatorFreshFor = time.Hour
	indicatorStaleFor = 6 * time.Hour
)

// Prompt-table thresholds.
const (
	tierFreshFor    = 24 * time.Hour
	tierStaleFor    = 48 * time.Hour
	tierOutdatedFor = 96 * time.Hour
)

// ClassifyIndicator buckets cache age for UI coloring: fresh under 1h,
// stale under 6h, otherwise expired. An absent lastSyncAt is expired.
func ClassifyIndicator(lastSyncAt *time.Time, now time.Time) Indicator {
	if lastSyncAt == nil {
		return IndicatorExpired
	}
	switch age := now.Sub(*lastSyncAt); {
	case age < indicatorFreshFor:
		return IndicatorFresh
	case age < indicatorStaleFor:
		return IndicatorStale
	default:
		return IndicatorExpired
	}
}

// Classify buckets cache age for refresh prompting: fresh under 24h, stale
// under 48h, outdated under 96h, critical from 96h. An absent lastSyncAt
// is critical.
func Classify(lastSyncAt *time.Time, now time.Time) Tier {
	if lastSyncAt == nil {
		return TierCritical
	}
	switch age := now.Sub(*lastSyncAt); {
	case age < tierFreshFor:
		return TierFresh
	case age < tierStaleFor:
		return TierStale
	case age < tierOutdatedFor:
		return TierOutdated
	default:
		return TierCritical
	}
}

// ShouldPromptRefresh reports whether the tier is bad enough to actively
// suggest a refresh.
func ShouldPromptRefresh(t Tier) bool {
	return t == TierOutdated || t == TierCritical
}

// CriticallyOutdated reports whether the cache is past the last threshold.
func CriticallyOutdated(t Tier) bool {
	return t == TierCritical
}
