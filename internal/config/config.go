package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	NEFURL          string
	NEFUsername     string
	NEFPassword     string
	RedisAddr       string
	MongoURI        string
	MonitorInterval time.Duration
	MinRadiusMeters float64
}

func LoadConfig() (*Config, error) {
	// .env is optional in containers, the variables may come from the runtime
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", ":9999"),
		NEFURL:          getEnv("NEF_URL", "http://localhost:8888"),
		NEFUsername:     os.Getenv("NEF_USERNAME"),
		NEFPassword:     os.Getenv("NEF_PASSWORD"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MonitorInterval: 3 * time.Second,
		MinRadiusMeters: 100,
	}

	if v := os.Getenv("MONITOR_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MonitorInterval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("MIN_RADIUS_METERS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.MinRadiusMeters = f
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
