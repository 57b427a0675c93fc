package main

import (
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/cache"
	"github.com/minaret-labs/minaret/internal/connectivity"
)

// InitCacheStore selects the offline cache backend. Redis when configured,
// in-process memory otherwise (local development).
func InitCacheStore(env Environment) cache.Store {
	if env.RedisAddress != "" {
		log.Info().Str("address", env.RedisAddress).Msg("using redis offline cache")
		return cache.NewRedisStore(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}
	log.Warn().Msg("REDIS_ADDRESS not set, using in-memory cache (data lost on restart)")
	return cache.NewMemoryStore()
}

// InitConnectivity selects the connectivity signal: the MQTT broker link
// in normal operation, a pinned-offline signal when FORCE_OFFLINE is set.
func InitConnectivity(env Environment) connectivity.Signal {
	if env.ForceOffline {
		log.Warn().Msg("FORCE_OFFLINE set, all requests will take the cached path")
		return connectivity.NewStaticSignal(false)
	}
	monitor, err := connectivity.NewMQTTMonitor(env.MQTTBrokerURL, "minaret-server")
	if err != nil {
		log.Error().Err(err).Msg("MQTT monitor unavailable, starting offline until broker reachable")
		return connectivity.NewStaticSignal(false)
	}
	return monitor
}
