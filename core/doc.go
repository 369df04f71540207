// Package core contains the business logic for the NewsHub data layer.
// It is framework-agnostic and can be used without the API bridge or the CLI.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (Article, Category, FavoriteRecord, results)
// - news: Provider fetching, normalization, response caching and search
// - cache: TTL response cache over an interfaces.Cache backend
// - state: Reducer-driven application state and its store
// - session: Orchestration of loading, paging, searching and the library
// - favorites, history: Persistent favorites, search history and read history
// - workers: Background category prefetch
// - errors: Typed transport and validation errors with user-facing messages
// - interfaces: Contracts for external dependencies (cache, HTTP, logger)
//
// # Design Principles
//
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
//
// # Usage Example
//
//	import (
//	    "newshub-core/core/cache"
//	    "newshub-core/core/interfaces"
//	    "newshub-core/core/news"
//	)
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	svc := news.NewService(deps, cache.NewManager(deps.Cache), news.Options{})
//	page, err := svc.GetList(ctx, interfaces.ListParams{Category: "top", Page: 1, UseCache: true})
package core
