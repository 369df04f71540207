// ABOUTME: Default implementations for client dependencies
// ABOUTME: Builds transports, loggers and cache or storage backends from configuration

package newshub

import (
	"io"
	"time"

	"newshub-core/core/interfaces"
	"newshub-core/infrastructure/cache/memory"
	"newshub-core/infrastructure/cache/redis"
	"newshub-core/infrastructure/cache/sqlite"
	httpInfra "newshub-core/infrastructure/http/standard"
	loggerInfra "newshub-core/infrastructure/logger/standard"
	"newshub-core/pkg/config"

	"golang.org/x/time/rate"
)

// BackendType names a cache or storage backend
type BackendType string

const (
	BackendMemory BackendType = "memory"
	BackendSQLite BackendType = "sqlite"
	BackendRedis  BackendType = "redis"
)

// DefaultHTTPClient creates a provider client for the public demo endpoint
func DefaultHTTPClient() interfaces.HTTPClient {
	return httpInfra.NewClient(httpInfra.Options{
		BaseURL: config.Default().API.BaseURL,
		Timeout: httpInfra.DefaultTimeout,
	})
}

// HTTPClientFromConfig creates a provider client honoring the timeout and rate limit
func HTTPClientFromConfig(cfg config.APIConfig, logger interfaces.Logger) interfaces.HTTPClient {
	opts := httpInfra.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout(),
		Logger:  logger,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		opts.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return httpInfra.NewClient(opts)
}

// DefaultLogger creates a default logger that writes to stderr
func DefaultLogger() interfaces.Logger {
	return loggerInfra.NewStandardLogger()
}

// LoggerFromConfig creates a logger with the configured level, format and file
func LoggerFromConfig(cfg config.LogConfig) interfaces.Logger {
	return loggerInfra.NewLogger(loggerInfra.Options{Level: cfg.Level, Format: cfg.Format, File: cfg.File})
}

// QuietLogger creates a logger that discards all output
func QuietLogger() interfaces.Logger {
	return interfaces.NopLogger{}
}

// BackendOption describes a cache or storage backend
type BackendOption struct {
	Type   BackendType
	SQLite config.SQLiteConfig
	Redis  config.RedisConfig

	// CleanupInterval drives the SQLite expiry sweep; zero disables it
	CleanupInterval time.Duration
}

// OpenBackend creates the backend described by opt. The returned closer is nil
// for backends that hold no resources.
func OpenBackend(opt BackendOption, logger interfaces.Logger) (interfaces.Cache, io.Closer, error) {
	switch opt.Type {
	case BackendMemory, "":
		return memory.NewMemoryCache(), nil, nil

	case BackendSQLite:
		path := opt.SQLite.Path
		if path == "" {
			path = config.DefaultDataPath("newshub.db")
		}
		client, err := sqlite.NewSQLiteCacheWithLogger(path, logger)
		if err != nil {
			return nil, nil, NewError(ErrorTypeStorage, "failed to open sqlite backend").
				WithCause(err).
				WithContext("path", path)
		}
		if opt.CleanupInterval > 0 {
			client.StartCleanup(opt.CleanupInterval)
		}
		return client, client, nil

	case BackendRedis:
		client, err := redis.NewRedisCache(opt.Redis)
		if err != nil {
			return nil, nil, NewError(ErrorTypeStorage, "failed to connect to redis").
				WithCause(err).
				WithContext("address", opt.Redis.Address)
		}
		return client, client, nil
	}

	return nil, nil, NewError(ErrorTypeConfiguration, "invalid backend type").
		WithContext("type", string(opt.Type))
}
