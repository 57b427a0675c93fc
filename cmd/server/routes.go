package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/minaret-labs/minaret/internal/db"
	"github.com/minaret-labs/minaret/internal/http/api"
	authapi "github.com/minaret-labs/minaret/internal/http/api/app/auth/endpoints"
	appapi "github.com/minaret-labs/minaret/internal/http/api/app/endpoints"
	"github.com/minaret-labs/minaret/internal/notify"
	"github.com/minaret-labs/minaret/internal/resilience"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, service *resilience.Service, scheduler *notify.Scheduler) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/app",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/app",
		Auth:      true,
		SecretKey: env.SecretKey,
	},
		appapi.FreshnessModule(service),
		appapi.PrayerModule(service),
		appapi.QiblaModule(service),
		appapi.NotificationModule(service, scheduler),
		authapi.AuthSessionModule(env.SecretKey, store),
	)
}
