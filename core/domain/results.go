// ABOUTME: Result models returned by the news service for list and search operations
// ABOUTME: Carry the articles plus the paging facts callers need

package domain

// ListResult is one page of a category list
type ListResult struct {
	Articles []Article `json:"data"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	// FromCache is true when the page was served without a network call
	FromCache bool `json:"-"`
}

// SearchResult is one page of client-side filtered search results
type SearchResult struct {
	Articles []Article `json:"data"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	HasMore  bool      `json:"hasMore"`
	Keyword  string    `json:"keyword"`
}
