// ABOUTME: Huma API server configuration and setup
// ABOUTME: Builds the chi router, middleware chain and routes of the local JSON bridge

package api

import (
	"newshub-core/api/handlers"
	"newshub-core/api/middleware"
	"newshub-core/core/interfaces"
	"newshub-core/newshub"
	"newshub-core/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Title and Version describe the bridge in its OpenAPI document
const (
	Title   = "NewsHub API"
	Version = "1.0.0"
)

// Config holds configuration for the API
type Config struct {
	Logger interfaces.Logger
	Flags  featureflags.Manager

	// RateLimit is requests per second per client; 0 disables limiting
	RateLimit float64
	RateBurst int

	// AllowedOrigins defaults to every origin
	AllowedOrigins []string
}

// NewAPI creates the router with its middleware and an empty Huma API on top
func NewAPI(cfg Config) (huma.API, chi.Router) {
	router := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	// CORS must run first so preflight requests never reach the limiter
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	router.Use(middleware.RequestID)
	if cfg.Flags != nil {
		router.Use(middleware.FeatureFlags(cfg.Flags))
	}
	if cfg.Logger != nil {
		router.Use(middleware.RequestLogging(cfg.Logger))
	}
	if cfg.RateLimit > 0 {
		router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)))
	}

	config := huma.DefaultConfig(Title, Version)
	config.Info.Description = "Local bridge over the news data layer: category lists, search, favorites and history"

	return humachi.New(router, config), router
}

// New builds the bridge for client with every route registered
func New(client *newshub.Client, cfg Config) (huma.API, chi.Router) {
	if cfg.Logger == nil {
		cfg.Logger = client.Logger()
	}
	if cfg.Flags == nil {
		cfg.Flags = client.Flags()
	}

	api, router := NewAPI(cfg)

	handlers.NewNewsHandler(client.Session(), client.News()).RegisterRoutes(api)
	handlers.NewLibraryHandler(client.Session()).RegisterRoutes(api)
	handlers.NewCacheHandler(client.News(), client).RegisterRoutes(api)

	return api, router
}
