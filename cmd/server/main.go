package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/clock"
	"github.com/minaret-labs/minaret/internal/connectivity"
	"github.com/minaret-labs/minaret/internal/db"
	"github.com/minaret-labs/minaret/internal/notify"
	"github.com/minaret-labs/minaret/internal/prompt"
	"github.com/minaret-labs/minaret/internal/resilience"
	"github.com/minaret-labs/minaret/internal/source"
)

func main() {
	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	store := InitCacheStore(env)
	signal := InitConnectivity(env)

	var publisher notify.Publisher
	if monitor, ok := signal.(*connectivity.MQTTMonitor); ok {
		publisher = notify.NewMQTTPublisher(monitor.Client())
	}

	backend := notify.NewSQLBackend(db.NewPendingStore(nil), store, publisher)
	scheduler := notify.NewScheduler(backend, resilience.DomainPrayerTimes, clock.Real{})
	prompts := prompt.NewManager(store, env.DismissalPeriod)
	timeSource := source.NewAlAdhanClient(env.AlAdhanBaseURL)

	service := resilience.NewService(store, signal, prompts, timeSource, scheduler, clock.Real{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.WatchConnectivity(ctx)

	r := gin.Default()
	RegisterRoutes(r, env, db.NewStore(), service, scheduler)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
