package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr       string
	BackendBaseURL string
	BackendTimeout time.Duration
	MirrorBackend  string
	MirrorPath     string
	RedisAddr      string
	RedisPassword  string
	RedisKey       string
	LogLevel       string
}

func Load() Config {
	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		BackendBaseURL: getenv("BACKEND_BASE_URL", "http://127.0.0.1:8000"),
		BackendTimeout: getenvDuration("BACKEND_TIMEOUT", 15*time.Second),
		MirrorBackend:  getenv("MIRROR_BACKEND", "bolt"),
		MirrorPath:     getenv("MIRROR_PATH", "gateway-session.db"),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		RedisKey:       getenv("REDIS_KEY", "gateway:session"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
