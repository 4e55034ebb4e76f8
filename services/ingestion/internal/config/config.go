package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ProductDir string
	JobsDir    string

	PollingInterval    time.Duration
	FingerprintWorkers int

	NATSURL         string
	NATSConnTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	CollectorURL string
}

func LoadConfig() (*Config, error) {
	config := &Config{
		ProductDir:         getEnvString("PRODUCT_DIR", "data/raw/products"),
		JobsDir:            getEnvString("JOBS_DIR", "data/raw/jobs"),
		PollingInterval:    getEnvDuration("POLLING_INTERVAL", time.Minute),
		FingerprintWorkers: getEnvInt("FINGERPRINT_WORKERS", 4),
		NATSURL:            getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout:    getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnvString("REDIS_ADDR", ""),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 7*24*time.Hour),

		CollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
	}

	if config.FingerprintWorkers < 1 {
		config.FingerprintWorkers = 1
	}
	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
