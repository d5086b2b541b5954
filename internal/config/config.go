package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	RedisURL   string
	SessionTTL time.Duration
	Env        string
}

// Load reads configuration from .env.local / .env then the environment.
// A missing required value fails process startup, not individual requests.
func Load() *Config {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Info(".env not found, using environment variables")
		}
	}

	ttlHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil || ttlHours <= 0 {
		ttlHours = 24
	}

	c := &Config{
		Port:       getEnv("PORT", "8080"),
		MongoURI:   mustEnv("MONGO_URI"),
		MongoDB:    mustEnv("MONGO_DB"),
		RedisURL:   mustEnv("REDIS_URL"),
		SessionTTL: time.Duration(ttlHours) * time.Hour,
		Env:        getEnv("ENV", "dev"),
	}

	log.Infof("config loaded: env=%s port=%s db=%s", c.Env, c.Port, c.MongoDB)
	return c
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env: %s", k)
	}
	return v
}
