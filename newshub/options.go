// ABOUTME: Configuration options for the NewsHub client
// ABOUTME: Provides functional options pattern for flexible client configuration

package newshub

import (
	"io"
	"time"

	"newshub-core/core/cache"
	"newshub-core/core/interfaces"
	"newshub-core/core/news"
	"newshub-core/core/session"
	"newshub-core/pkg/config"
	"newshub-core/pkg/featureflags"
	"newshub-core/pkg/retry"
)

// Option is a functional option for configuring the client
type Option func(*Config) error

// Config holds the configuration for the client
type Config struct {
	// HTTPClient talks to the news provider
	HTTPClient interfaces.HTTPClient

	// Cache backs the response cache
	Cache interfaces.Cache

	// Storage backs favorites, history and preferences
	Storage interfaces.Cache

	// Logger configuration
	Logger interfaces.Logger

	// FeatureFlags is attached to contexts handed out by Client.Context
	FeatureFlags featureflags.Manager

	// CacheTTL is the response freshness window
	CacheTTL time.Duration

	// SweepInterval is how often expired responses are purged; zero disables the sweep
	SweepInterval time.Duration

	// News tunes the news service
	News news.Options

	// Session tunes paging for the session
	Session session.Options

	// PrefetchWorkers bounds concurrent category warm-ups
	PrefetchWorkers int

	closers []io.Closer
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// WithCache sets the response cache backend
func WithCache(backend interfaces.Cache) Option {
	return func(c *Config) error {
		c.Cache = backend
		return nil
	}
}

// WithStorage sets the key-value storage backend
func WithStorage(backend interfaces.Cache) Option {
	return func(c *Config) error {
		c.Storage = backend
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithQuietMode configures the client to suppress all log output
func WithQuietMode() Option {
	return func(c *Config) error {
		c.Logger = QuietLogger()
		return nil
	}
}

// WithFeatureFlags sets the flag source
func WithFeatureFlags(manager featureflags.Manager) Option {
	return func(c *Config) error {
		c.FeatureFlags = manager
		return nil
	}
}

// WithCacheTTL sets the response freshness window
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) error {
		if ttl <= 0 {
			return NewError(ErrorTypeValidation, "cache TTL must be positive").
				WithContext("ttl", ttl.String())
		}
		c.CacheTTL = ttl
		return nil
	}
}

// WithSweepInterval sets how often expired responses are purged
func WithSweepInterval(interval time.Duration) Option {
	return func(c *Config) error {
		c.SweepInterval = interval
		return nil
	}
}

// WithPageSize sets the list page size
func WithPageSize(size int) Option {
	return func(c *Config) error {
		if size < 1 {
			return NewError(ErrorTypeValidation, "page size must be positive").
				WithContext("size", size)
		}
		c.News.PageSize = size
		c.Session.PageSize = size
		return nil
	}
}

// WithRetry sets the provider retry policy
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(c *Config) error {
		if maxRetries < 0 || baseDelay < 0 {
			return NewError(ErrorTypeValidation, "retry policy must not be negative")
		}
		c.News.Retry = retry.Policy{MaxRetries: maxRetries, BaseDelay: baseDelay}
		return nil
	}
}

// WithPrefetchWorkers sets how many categories are warmed concurrently
func WithPrefetchWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewError(ErrorTypeValidation, "prefetch workers must be positive").
				WithContext("workers", n)
		}
		c.PrefetchWorkers = n
		return nil
	}
}

// WithBackends opens the cache and storage backends described by the options
func WithBackends(cacheOpt, storageOpt BackendOption) Option {
	return func(c *Config) error {
		backend, closer, err := OpenBackend(cacheOpt, c.Logger)
		if err != nil {
			return err
		}
		c.Cache = backend
		c.addCloser(closer)

		backend, closer, err = OpenBackend(storageOpt, c.Logger)
		if err != nil {
			return err
		}
		c.Storage = backend
		c.addCloser(closer)
		return nil
	}
}

// WithAppConfig configures every dependency from application configuration
func WithAppConfig(cfg *config.Config) Option {
	return func(c *Config) error {
		if err := cfg.Validate(); err != nil {
			return NewError(ErrorTypeConfiguration, "invalid configuration").WithCause(err)
		}

		c.Logger = LoggerFromConfig(cfg.Log)
		c.HTTPClient = HTTPClientFromConfig(cfg.API, c.Logger)
		c.CacheTTL = cfg.Cache.TTL()
		c.SweepInterval = cfg.Cache.SweepInterval()
		c.News = news.Options{
			PageSize:           cfg.News.PageSize,
			SearchSupersetSize: cfg.News.SearchSupersetSize,
			Retry: retry.Policy{
				MaxRetries: cfg.News.MaxRetries,
				BaseDelay:  cfg.News.RetryBaseDelay(),
			},
		}
		c.Session = session.Options{
			PageSize:       cfg.News.PageSize,
			SearchPageSize: cfg.News.SearchPageSize,
		}

		return WithBackends(
			BackendOption{
				Type:            BackendType(cfg.Cache.Type),
				SQLite:          cfg.Cache.SQLite,
				Redis:           cfg.Cache.Redis,
				CleanupInterval: cfg.Cache.SweepInterval(),
			},
			BackendOption{
				Type:   BackendType(cfg.Storage.Type),
				SQLite: cfg.Storage.SQLite,
				Redis:  cfg.Storage.Redis,
			},
		)(c)
	}
}

func (c *Config) addCloser(closer io.Closer) {
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
}

// defaultConfig returns the default client configuration
func defaultConfig() Config {
	return Config{
		Logger:        DefaultLogger(),
		FeatureFlags:  featureflags.NewEnvManager("NEWSHUB_"),
		CacheTTL:      cache.DefaultTTL,
		SweepInterval: cache.DefaultSweepInterval,
	}
}
