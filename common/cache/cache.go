package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrClosed       = errors.New("cache is closed")
	ErrInvalidKey   = errors.New("invalid cache key")
)

const keyPrefix = "recnorm"

// Cache stores string, []byte and encoding.BinaryMarshaler values. Get
// decodes into *string, *[]byte or an encoding.BinaryUnmarshaler.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	Get(ctx context.Context, key string, value any) error

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	CleanupInterval time.Duration

	RedisURL string

	RedisPassword string

	RedisDB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute * 5,
	}
}

// ReportKey is where the latest run report of a dataset is kept.
func ReportKey(dataset string) string {
	return Key("report", dataset)
}

// SeenKey marks a source file fingerprint as already published.
func SeenKey(fingerprint string) string {
	return Key("seen", fingerprint)
}

func Key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}
