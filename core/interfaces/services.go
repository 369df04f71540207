// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines the news data contract consumed by the session layer and the API bridge

package interfaces

import (
	"context"

	"newshub-core/core/domain"
)

// ListParams selects one page of a category list
type ListParams struct {
	Category string
	Page     int
	PageSize int
	// UseCache allows a fresh cached page to be served without a network call
	UseCache bool
}

// SearchParams selects one page of keyword search results
type SearchParams struct {
	Keyword  string
	// Category selects the list the superset is drawn from; empty means top
	Category string
	Page     int
	PageSize int
}

// CacheStats summarizes the response cache
type CacheStats struct {
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
}

// NewsService fetches, normalizes and caches provider articles
type NewsService interface {
	GetList(ctx context.Context, params ListParams) (*domain.ListResult, error)
	Search(ctx context.Context, params SearchParams) (*domain.SearchResult, error)
	GetDetail(ctx context.Context, id string) (*domain.Article, error)
	// ClearCache drops cached pages for category, or every page when category is empty
	ClearCache(ctx context.Context, category string) error
	CacheStats(ctx context.Context) (CacheStats, error)
}
