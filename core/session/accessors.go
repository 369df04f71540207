package session

import (
	"newshub-core/core/domain"
	"newshub-core/core/state"
)

// State returns a copy of the whole state
func (s *Session) State() state.State {
	return s.store.Snapshot()
}

// Theme returns the current theme
func (s *Session) Theme() state.Theme {
	return s.current().Theme
}

// CurrentCategory returns the selected category key
func (s *Session) CurrentCategory() string {
	return s.current().CurrentCategory
}

// Articles returns a copy of the loaded list for category
func (s *Session) Articles(category string) []domain.Article {
	return domain.CloneArticles(s.current().Articles(category))
}

// Loading reports whether a list load is running
func (s *Session) Loading() bool {
	return s.current().Loading
}

// ErrorMessage returns the current error message, or ""
func (s *Session) ErrorMessage() string {
	return s.current().ErrorMessage()
}

// Pagination returns the pagination cursor
func (s *Session) Pagination() state.Pagination {
	return s.current().Pagination
}

// SearchKeyword returns the keyword of the current search
func (s *Session) SearchKeyword() string {
	return s.current().SearchKeyword
}

// SearchResults returns a copy of the current search results
func (s *Session) SearchResults() []domain.Article {
	return domain.CloneArticles(s.current().SearchResults)
}

// SearchLoading reports whether a search is running
func (s *Session) SearchLoading() bool {
	return s.current().SearchLoading
}

// Favorites returns a copy of the saved articles, newest first
func (s *Session) Favorites() []domain.FavoriteRecord {
	return domain.CloneFavorites(s.current().Favorites)
}

// FavoritesCount returns how many articles are saved
func (s *Session) FavoritesCount() int {
	return len(s.current().Favorites)
}

// SidebarOpen reports the sidebar flag
func (s *Session) SidebarOpen() bool {
	return s.current().SidebarOpen
}

// ShowScrollTop reports the scroll-to-top flag
func (s *Session) ShowScrollTop() bool {
	return s.current().ShowScrollTop
}
