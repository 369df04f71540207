// ABOUTME: Closed set of actions accepted by the state reducer
// ABOUTME: Each action is a plain value; the unexported marker keeps the set closed to this package

package state

import "newshub-core/core/domain"

// Action is a named state transition
type Action interface {
	// Type is the action name used in logs
	Type() string
	action()
}

type SetTheme struct{ Theme Theme }

type ToggleTheme struct{}

// SetCurrentCategory also clears the error
type SetCurrentCategory struct{ Category string }

// SetNewsData replaces a category's list and ends loading
type SetNewsData struct {
	Category string
	Articles []domain.Article
}

// AppendNewsData extends a category's list and ends loading
type AppendNewsData struct {
	Category string
	Articles []domain.Article
}

type SetLoading struct{ Loading bool }

// SetError records a message and ends loading
type SetError struct{ Message string }

type ClearError struct{}

type SetSearchKeyword struct{ Keyword string }

// SetSearchResults replaces results and ends search loading
type SetSearchResults struct{ Articles []domain.Article }

type SetSearchLoading struct{ Loading bool }

// SetSearchError records a search failure, clears results and ends search
// loading. List loading is left as it is.
type SetSearchError struct{ Message string }

// ClearSearch resets keyword, results and search loading
type ClearSearch struct{}

type SetFavorites struct{ Favorites []domain.FavoriteRecord }

// AddFavorite puts a record at the front
type AddFavorite struct{ Record domain.FavoriteRecord }

// RemoveFavorite drops every record with the article id
type RemoveFavorite struct{ ID string }

type ToggleSidebar struct{}

type SetShowScrollTop struct{ Show bool }

// SetPagination merges the non-nil fields into the current pagination
type SetPagination struct {
	Page    *int
	HasMore *bool
}

// ResetPagination returns to the first page with more available
type ResetPagination struct{}

func (SetTheme) Type() string           { return "SET_THEME" }
func (ToggleTheme) Type() string        { return "TOGGLE_THEME" }
func (SetCurrentCategory) Type() string { return "SET_CURRENT_CATEGORY" }
func (SetNewsData) Type() string        { return "SET_NEWS_DATA" }
func (AppendNewsData) Type() string     { return "APPEND_NEWS_DATA" }
func (SetLoading) Type() string         { return "SET_LOADING" }
func (SetError) Type() string           { return "SET_ERROR" }
func (ClearError) Type() string         { return "CLEAR_ERROR" }
func (SetSearchKeyword) Type() string   { return "SET_SEARCH_KEYWORD" }
func (SetSearchResults) Type() string   { return "SET_SEARCH_RESULTS" }
func (SetSearchLoading) Type() string   { return "SET_SEARCH_LOADING" }
func (SetSearchError) Type() string     { return "SET_SEARCH_ERROR" }
func (ClearSearch) Type() string        { return "CLEAR_SEARCH" }
func (SetFavorites) Type() string       { return "SET_FAVORITES" }
func (AddFavorite) Type() string        { return "ADD_FAVORITE" }
func (RemoveFavorite) Type() string     { return "REMOVE_FAVORITE" }
func (ToggleSidebar) Type() string      { return "TOGGLE_SIDEBAR" }
func (SetShowScrollTop) Type() string   { return "SET_SHOW_SCROLL_TOP" }
func (SetPagination) Type() string      { return "SET_PAGINATION" }
func (ResetPagination) Type() string    { return "RESET_PAGINATION" }

func (SetTheme) action()           {}
func (ToggleTheme) action()        {}
func (SetCurrentCategory) action() {}
func (SetNewsData) action()        {}
func (AppendNewsData) action()     {}
func (SetLoading) action()         {}
func (SetError) action()           {}
func (ClearError) action()         {}
func (SetSearchKeyword) action()   {}
func (SetSearchResults) action()   {}
func (SetSearchLoading) action()   {}
func (SetSearchError) action()     {}
func (ClearSearch) action()        {}
func (SetFavorites) action()       {}
func (AddFavorite) action()        {}
func (RemoveFavorite) action()     {}
func (ToggleSidebar) action()      {}
func (SetShowScrollTop) action()   {}
func (SetPagination) action()      {}
func (ResetPagination) action()    {}

// PageTo sets only the page
func PageTo(page int) SetPagination {
	return SetPagination{Page: &page}
}

// MoreAvailable sets only HasMore
func MoreAvailable(hasMore bool) SetPagination {
	return SetPagination{HasMore: &hasMore}
}

// Advance sets both page and HasMore
func Advance(page int, hasMore bool) SetPagination {
	return SetPagination{Page: &page, HasMore: &hasMore}
}
