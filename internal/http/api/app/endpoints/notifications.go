package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minaret-labs/minaret/internal/http/api"
	"github.com/minaret-labs/minaret/internal/http/api/app/packets"
	"github.com/minaret-labs/minaret/internal/model"
	"github.com/minaret-labs/minaret/internal/notify"
	"github.com/minaret-labs/minaret/internal/resilience"
)

type NotificationController struct {
	service   *resilience.Service
	scheduler *notify.Scheduler
}

// NotificationModule mounts the alert reconciliation endpoint.
func NotificationModule(service *resilience.Service, scheduler *notify.Scheduler) api.Module {
	ctl := &NotificationController{service: service, scheduler: scheduler}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/notifications/reconcile", ctl.reconcile)
		c.GET("/notifications/state", ctl.getState)
	})
}

// POST /api/app/notifications/reconcile
func (n *NotificationController) reconcile(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var request packets.ReconcileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	events := make([]model.DayEvent, 0, len(request.Events))
	for _, e := range request.Events {
		events = append(events, model.DayEvent{Name: e.Name, TimeOfDay: e.TimeOfDay})
	}
	settings := model.NotificationSettings{
		Enabled:       request.Settings.Enabled,
		OffsetMinutes: request.Settings.OffsetMinutes,
		SoundEnabled:  request.Settings.SoundEnabled,
	}

	if err := n.service.ReconcileNotifications(ctx, events, settings); err != nil {
		return nil, mapServiceError(err)
	}
	return packets.ReconcileResponse{State: string(n.scheduler.State())}, nil
}

// GET /api/app/notifications/state
func (n *NotificationController) getState(_ *gin.Context, _ *model.User) (any, *api.APIError) {
	return packets.ReconcileResponse{State: string(n.scheduler.State())}, nil
}
