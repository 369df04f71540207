// ABOUTME: Main client for the NewsHub core owning every long-lived instance
// ABOUTME: Wires transport, caches, storage, the news service and the session together

package newshub

import (
	"context"
	"errors"
	"io"
	"sync"

	"newshub-core/core/cache"
	"newshub-core/core/interfaces"
	"newshub-core/core/news"
	"newshub-core/core/session"
	"newshub-core/core/workers"
	"newshub-core/infrastructure/cache/memory"
	"newshub-core/pkg/featureflags"
	"newshub-core/pkg/kvstore"
)

// Client is the main entry point for the NewsHub core
type Client struct {
	news       *news.Service
	session    *session.Session
	cache      *cache.Manager
	storage    *kvstore.Store
	prefetcher *workers.Prefetcher
	flags      featureflags.Manager
	logger     interfaces.Logger

	stopSweep context.CancelFunc
	closers   []io.Closer

	mu     sync.Mutex
	closed bool
}

// NewClient creates a new client with the given options. Unset backends default
// to in-memory stores and an unset transport talks to the public demo provider.
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			closeAll(config.closers)
			return nil, err
		}
	}

	if config.HTTPClient == nil {
		config.HTTPClient = DefaultHTTPClient()
	}
	if config.Cache == nil {
		config.Cache = memory.NewMemoryCache()
	}
	if config.Storage == nil {
		config.Storage = config.Cache
	}
	if config.Logger == nil {
		config.Logger = QuietLogger()
	}
	if config.FeatureFlags == nil {
		config.FeatureFlags = featureflags.NewStaticManager(featureflags.Defaults())
	}

	deps := interfaces.Dependencies{
		Cache:      config.Cache,
		Storage:    config.Storage,
		HTTPClient: config.HTTPClient,
		Logger:     config.Logger,
	}

	manager := cache.NewManager(deps.Cache,
		cache.WithTTL(config.CacheTTL),
		cache.WithLogger(deps.Logger),
	)
	storage := kvstore.New(deps.Storage, deps.Logger)
	newsService := news.NewService(deps, manager, config.News)

	ctx, cancel := context.WithCancel(context.Background())
	if config.SweepInterval > 0 {
		manager.StartSweeper(ctx, config.SweepInterval)
	}

	prefetcher := workers.NewPrefetcher(newsService, deps.Logger, workers.Config{
		MaxWorkers: config.PrefetchWorkers,
		PageSize:   config.Session.PageSize,
	})
	if err := prefetcher.Start(); err != nil {
		cancel()
		closeAll(config.closers)
		return nil, NewError(ErrorTypeInternal, "failed to start prefetch workers").WithCause(err)
	}

	client := &Client{
		news:       newsService,
		cache:      manager,
		storage:    storage,
		prefetcher: prefetcher,
		flags:      config.FeatureFlags,
		logger:     deps.Logger,
		stopSweep:  cancel,
	}
	client.closers = append(client.closers, config.closers...)

	client.session = session.New(client.Context(ctx), session.Dependencies{
		News:    newsService,
		Storage: storage,
		Logger:  deps.Logger,
	}, config.Session)

	deps.Logger.Info("NewsHub client ready", map[string]interface{}{
		"cache_ttl": config.CacheTTL.String(),
		"flags":     config.FeatureFlags.GetAllFlags(),
	})
	return client, nil
}

// Context attaches the client's feature flags to parent. Calls into the
// session or news service should use a context derived from it.
func (c *Client) Context(parent context.Context) context.Context {
	return featureflags.WithManager(parent, c.flags)
}

// Session returns the application session
func (c *Client) Session() *session.Session {
	return c.session
}

// News returns the news data service
func (c *Client) News() *news.Service {
	return c.news
}

// Cache returns the response cache manager
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

// Storage returns the key-value store
func (c *Client) Storage() *kvstore.Store {
	return c.storage
}

// Flags returns the feature flag manager
func (c *Client) Flags() featureflags.Manager {
	return c.flags
}

// Logger returns the client logger
func (c *Client) Logger() interfaces.Logger {
	return c.logger
}

// Prefetch loads the first page of each category into the response cache.
// Results are in the order given; a failed category does not stop the others.
func (c *Client) Prefetch(ctx context.Context, categories ...string) []workers.Result {
	return c.prefetcher.Warm(c.Context(ctx), categories)
}

// Close stops the cache sweep and releases backend connections
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.closed = true

	c.stopSweep()
	c.prefetcher.Stop()
	if err := closeAll(c.closers); err != nil {
		return NewError(ErrorTypeStorage, "failed to close backends").WithCause(err)
	}
	return nil
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
