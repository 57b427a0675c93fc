package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/apperrors"
	"github.com/minaret-labs/minaret/internal/http/api"
	"github.com/minaret-labs/minaret/internal/http/api/app/packets"
	"github.com/minaret-labs/minaret/internal/model"
	"github.com/minaret-labs/minaret/internal/resilience"
)

type ResilienceController struct {
	service *resilience.Service
}

func newResilienceController(service *resilience.Service) *ResilienceController {
	return &ResilienceController{service: service}
}

// FreshnessModule mounts the cache-freshness and refresh-prompt endpoints.
func FreshnessModule(service *resilience.Service) api.Module {
	ctl := newResilienceController(service)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/freshness/:domain", ctl.getFreshness)
		c.GET("/prompts/:domain", ctl.getPrompt)
		c.POST("/prompts/:domain/dismiss", ctl.dismissPrompt)
		c.POST("/prompts/:domain/refresh", ctl.refreshNow)
	})
}

var knownDomains = map[string]bool{
	resilience.DomainPrayerTimes: true,
	resilience.DomainQibla:       true,
	resilience.DomainCalendar:    true,
}

func domainParam(ctx *gin.Context) (string, *api.APIError) {
	domain := ctx.Param("domain")
	if !knownDomains[domain] {
		return "", &api.APIError{Code: http.StatusNotFound, Message: "unknown feature domain"}
	}
	return domain, nil
}

// GET /api/app/freshness/:domain
func (r *ResilienceController) getFreshness(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	domain, apiErr := domainParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	indicator := r.service.GetFreshnessIndicator(ctx, domain)
	resp := packets.FreshnessResponse{Tier: string(indicator.Tier)}
	if indicator.LastSyncAt != nil {
		formatted := indicator.LastSyncAt.Format(time.RFC3339)
		resp.LastSyncAt = &formatted
	}
	return resp, nil
}

// GET /api/app/prompts/:domain
func (r *ResilienceController) getPrompt(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	domain, apiErr := domainParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.PromptResponse{ShouldPrompt: r.service.ShouldPromptRefresh(ctx, domain)}, nil
}

// POST /api/app/prompts/:domain/dismiss
func (r *ResilienceController) dismissPrompt(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	domain, apiErr := domainParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := r.service.DismissPrompt(ctx, domain); err != nil {
		log.Error().Err(err).Str("domain", domain).Msg("failed to dismiss prompt")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not dismiss prompt"}
	}
	return gin.H{"dismissed": true}, nil
}

// POST /api/app/prompts/:domain/refresh
func (r *ResilienceController) refreshNow(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	domain, apiErr := domainParam(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := r.service.RefreshNow(ctx, domain); err != nil {
		return nil, mapServiceError(err)
	}
	return gin.H{"refreshed": true}, nil
}

// mapServiceError translates the resilience error taxonomy into API codes.
func mapServiceError(err error) *api.APIError {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCoordinate):
		return &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, apperrors.ErrNoConnectivityNoCache):
		return &api.APIError{Code: http.StatusServiceUnavailable, Message: err.Error()}
	case errors.Is(err, apperrors.ErrNotificationPermissionDenied):
		return &api.APIError{Code: http.StatusForbidden, Message: "notification permission denied"}
	case errors.Is(err, apperrors.ErrSchedulingBackend):
		return &api.APIError{Code: http.StatusBadGateway, Message: "could not update scheduled notifications"}
	case errors.Is(err, apperrors.ErrStorageReadWrite):
		return &api.APIError{Code: http.StatusInternalServerError, Message: "storage failure"}
	}
	return &api.APIError{Code: http.StatusBadGateway, Message: err.Error()}
}
