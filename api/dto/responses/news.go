// ABOUTME: Response bodies for the API bridge
// ABOUTME: Articles are annotated with the caller's read and favorite state at response time

package responses

import "time"

// ArticleResponse is an article as seen by one user
type ArticleResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	PublishedAt       time.Time `json:"publishedAt"`
	Category          string    `json:"category"`
	CategoryKey       string    `json:"categoryKey"`
	AuthorName        string    `json:"authorName,omitempty"`
	SourceURL         string    `json:"sourceUrl"`
	Images            []string  `json:"images"`
	HasMultipleImages bool      `json:"hasMultipleImages"`
	BodyPreview       string    `json:"bodyPreview"`
	IsRead            bool      `json:"isRead"`
	IsFavorite        bool      `json:"isFavorite"`
}

// PaginationResponse mirrors the session pagination
type PaginationResponse struct {
	Page    int  `json:"page"`
	HasMore bool `json:"hasMore"`
}

// NewsListResponse is the loaded list of one category
type NewsListResponse struct {
	Category      string             `json:"category"`
	Articles      []ArticleResponse  `json:"articles"`
	Pagination    PaginationResponse `json:"pagination"`
	Error         string             `json:"error,omitempty"`
	LoadMoreError string             `json:"loadMoreError,omitempty"`
}

// SearchResponse holds the current search results
type SearchResponse struct {
	Keyword  string            `json:"keyword"`
	Articles []ArticleResponse `json:"articles"`
	Total    int               `json:"total"`
}

// FavoriteResponse is one saved article
type FavoriteResponse struct {
	ArticleResponse
	FavoritedAt time.Time `json:"favoritedAt"`
}

// FavoritesResponse lists saved articles, most recent first
type FavoritesResponse struct {
	Favorites []FavoriteResponse `json:"favorites"`
	Count     int                `json:"count"`
}

// FavoriteResultResponse reports the outcome of a favorite mutation
type FavoriteResultResponse struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

// SearchHistoryResponse lists recent keywords
type SearchHistoryResponse struct {
	Keywords []string `json:"keywords"`
}

// ReadStatusResponse reports whether an article has been read
type ReadStatusResponse struct {
	ID   string `json:"id"`
	Read bool   `json:"read"`
}

// ThemeResponse carries the active theme
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// CategoryResponse is one taxonomy entry
type CategoryResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// CacheStatsResponse summarizes the response cache
type CacheStatsResponse struct {
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
}

// WarmResultResponse reports one prefetched category
type WarmResultResponse struct {
	Category  string `json:"category"`
	Articles  int    `json:"articles"`
	FromCache bool   `json:"fromCache"`
	Error     string `json:"error,omitempty"`
}

// WarmCacheResponse lists prefetch results in request order
type WarmCacheResponse struct {
	Results []WarmResultResponse `json:"results"`
}
