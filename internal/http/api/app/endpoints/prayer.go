package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minaret-labs/minaret/internal/http/api"
	"github.com/minaret-labs/minaret/internal/model"
	"github.com/minaret-labs/minaret/internal/resilience"
)

// PrayerModule mounts the prayer-times endpoint.
func PrayerModule(service *resilience.Service) api.Module {
	ctl := newResilienceController(service)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/prayer-times", ctl.getPrayerTimes)
	})
}

// GET /api/app/prayer-times?lat=&lon=[&date=2006-01-02]
func (r *ResilienceController) getPrayerTimes(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	coord, apiErr := coordinateQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	date := time.Now()
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "date must be YYYY-MM-DD"}
		}
		date = parsed
	}

	schedule, err := r.service.PrayerTimes(ctx, coord, date)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return schedule, nil
}

func coordinateQuery(ctx *gin.Context) (model.Coordinate, *api.APIError) {
	lat, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil {
		return model.Coordinate{}, &api.APIError{Code: http.StatusBadRequest, Message: "lat must be a number"}
	}
	lon, err := strconv.ParseFloat(ctx.Query("lon"), 64)
	if err != nil {
		return model.Coordinate{}, &api.APIError{Code: http.StatusBadRequest, Message: "lon must be a number"}
	}
	return model.Coordinate{Latitude: lat, Longitude: lon}, nil
}
