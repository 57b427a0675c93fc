// Package fallback is the online-or-cached control-flow combinator. It
// holds no state of its own: connectivity is read at call time and all
// persistence stays with the caller.
package fallback

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/apperrors"
	"github.com/minaret-labs/minaret/internal/connectivity"
)

// Action produces a value of the feature's result type. The online action
// hits the network; the offline action reads the cache.
type Action[T any] func(ctx context.Context) (T, error)

// Plan describes one fallback execution. Offline may be nil for features
// with no cached representation. HasCache is consulted before the offline
// action runs; OfflineMessage is the user-facing text when neither path
// can serve.
type Plan[T any] struct {
	Feature        string
	OfflineMessage string
	Online         Action[T]
	Offline        Action[T]
	HasCache       func(ctx context.Context) bool
}

// Execute runs the plan. Online failures fall back to the cache when one
// exists, but both paths failing surfaces the ORIGINAL online error so the
// root cause stays visible. Offline with no usable cache fails with
// NoConnectivityNoCache.
func Execute[T any](ctx context.Context, signal connectivity.Signal, plan Plan[T]) (T, error) {
	var zero T

	if signal.Online() {
		result, err := plan.Online(ctx)
		if err == nil {
			return result, nil
		}
		log.Warn().Err(err).Str("feature", plan.Feature).Msg("online action failed")
		if plan.Offline != nil && plan.hasCache(ctx) {
			if cached, fallbackErr := plan.Offline(ctx); fallbackErr == nil {
				log.Info().Str("feature", plan.Feature).Msg("served from cache after online failure")
				return cached, nil
			}
		}
		return zero, err
	}

	if plan.Offline != nil && plan.hasCache(ctx) {
		return plan.Offline(ctx)
	}
	return zero, &apperrors.NoConnectivityNoCacheError{
		Feature: plan.Feature,
		Message: plan.OfflineMessage,
	}
}

func (p Plan[T]) hasCache(ctx context.Context) bool {
	if p.HasCache == nil {
		return false
	}
	return p.HasCache(ctx)
}
