package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Environment struct {
	Environment   string
	ServerAddress string
	SecretKey     string
	DatabaseURL   string

	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	ForceOffline  bool

	AlAdhanBaseURL  string
	DismissalPeriod time.Duration
}

// LoadEnvironment reads and validates env vars
func LoadEnvironment() Environment {
	// missing .env is fine in deployed environments
	_ = godotenv.Load()

	env := Environment{
		Environment:   os.Getenv("APP_ENV"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SecretKey:     os.Getenv("JWT_SECRET"),
		ServerAddress: os.Getenv("SERVER_ADDRESS"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		ForceOffline:  os.Getenv("FORCE_OFFLINE") == "true",

		AlAdhanBaseURL: os.Getenv("ALADHAN_BASE_URL"),
	}

	if raw := os.Getenv("DISMISSAL_PERIOD"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Str("raw", raw).Msg("DISMISSAL_PERIOD must be a duration like 6h")
		}
		env.DismissalPeriod = parsed
	}

	// Basic validation
	if env.DatabaseURL == "" || env.SecretKey == "" || env.ServerAddress == "" {
		log.Fatal().Msg("Missing required environment variables")
	}
	if env.MigrationsPath == "" {
		env.MigrationsPath = "./migrations"
	}
	if env.MQTTBrokerURL == "" {
		env.MQTTBrokerURL = "tcp://0.0.0.0:1883"
	}

	return env
}
