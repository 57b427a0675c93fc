package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minaret-labs/minaret/internal/http/api"
	"github.com/minaret-labs/minaret/internal/http/api/app/packets"
	"github.com/minaret-labs/minaret/internal/model"
	"github.com/minaret-labs/minaret/internal/qibla"
	"github.com/minaret-labs/minaret/internal/resilience"
)

// defaultAlignmentTolerance is the compass tolerance in degrees within
// which the UI shows the "facing Qibla" state.
const defaultAlignmentTolerance = 5.0

// QiblaModule mounts the Qibla direction endpoint.
func QiblaModule(service *resilience.Service) api.Module {
	ctl := newResilienceController(service)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/qibla", ctl.getQibla)
	})
}

// GET /api/app/qibla?lat=&lon=[&heading=][&tolerance=]
func (r *ResilienceController) getQibla(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	coord, apiErr := coordinateQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	result, err := r.service.QiblaDirectionAndDistance(ctx, coord)
	if err != nil {
		return nil, mapServiceError(err)
	}

	resp := packets.QiblaResponse{
		DirectionDegrees: result.DirectionDegrees,
		DistanceKm:       result.DistanceKm,
	}

	if raw := ctx.Query("heading"); raw != "" {
		heading, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "heading must be a number"}
		}
		tolerance := defaultAlignmentTolerance
		if rawTol := ctx.Query("tolerance"); rawTol != "" {
			tolerance, err = strconv.ParseFloat(rawTol, 64)
			if err != nil {
				return nil, &api.APIError{Code: http.StatusBadRequest, Message: "tolerance must be a number"}
			}
		}
		compass := qibla.CompassBearing(result.DirectionDegrees, heading)
		aligned := qibla.IsAligned(result.DirectionDegrees, heading, tolerance)
		resp.CompassBearing = &compass
		resp.Aligned = &aligned
	}

	return resp, nil
}
