package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	SinkClickHouse = "clickhouse"
	SinkPostgres   = "postgres"
)

type Config struct {
	InputPath      string `validate:"omitempty"`
	Domain         string `validate:"oneof=products jobs"`
	Dataset        string
	OutputDir      string `validate:"required"`
	OutputFile     string `validate:"omitempty,excludesall=/"`
	ReadWorkers    int    `validate:"min=1,max=64"`
	DefaultTZ      string `validate:"required"`
	SalaryStrategy string `validate:"oneof=canonical dollar-range"`

	Sinks []string `validate:"dive,oneof=clickhouse postgres"`

	NATSURL         string
	NATSConnTimeout time.Duration

	ClickHouseDSN          string `validate:"required_if_sink=clickhouse"`
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	PostgresDSN    string `validate:"required_if_sink=postgres"`
	PostgresSchema string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	ProcessingTimeout time.Duration `validate:"gt=0"`
	CollectorURL      string
	LogLevel          string `validate:"oneof=debug info warn error"`
}

func LoadConfig() (*Config, error) {
	config := &Config{
		InputPath:      getEnvString("INPUT_PATH", ""),
		Domain:         getEnvString("DOMAIN", "products"),
		Dataset:        getEnvString("DATASET", ""),
		OutputDir:      getEnvString("OUTPUT_DIR", "data/clean"),
		OutputFile:     getEnvString("OUTPUT_FILE", ""),
		ReadWorkers:    getEnvInt("READ_WORKERS", 4),
		DefaultTZ:      getEnvString("DEFAULT_TIMEZONE", "Asia/Jakarta"),
		SalaryStrategy: getEnvString("SALARY_STRATEGY", "canonical"),
		Sinks:          getEnvList("SINKS"),

		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "recnorm"),

		PostgresDSN:    getEnvString("POSTGRES_DSN", ""),
		PostgresSchema: getEnvString("POSTGRES_SCHEMA", "public"),

		RedisAddr:     getEnvString("REDIS_ADDR", ""),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),

		ProcessingTimeout: getEnvDuration("PROCESSING_TIMEOUT", 5*time.Minute),
		CollectorURL:      getEnvString("OTEL_COLLECTOR_URL", ""),
		LogLevel:          strings.ToLower(getEnvString("LOG_LEVEL", "info")),
	}

	return config, nil
}

// HasSink reports whether name is among the configured sinks.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// OutputName is the configured output file or "<dataset>_clean.csv".
func (c *Config) OutputName(dataset string) string {
	if c.OutputFile != "" {
		return c.OutputFile
	}
	if dataset == "" {
		dataset = c.Domain
	}
	return dataset + "_clean.csv"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("required_if_sink", requiredIfSink); err != nil {
		panic(err)
	}
	return v
}

// requiredIfSink fails an empty field when the sink named by the tag
// parameter is enabled.
func requiredIfSink(fl validator.FieldLevel) bool {
	var cfg *Config
	switch top := fl.Top().Interface().(type) {
	case *Config:
		cfg = top
	case Config:
		cfg = &top
	default:
		return true
	}
	return !cfg.HasSink(fl.Param()) || strings.TrimSpace(fl.Field().String()) != ""
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
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

func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
