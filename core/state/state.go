// ABOUTME: Application state aggregate holding news lists, search, favorites and UI flags
// ABOUTME: Values are treated as immutable; every change produces a new State through Reduce

package state

import (
	"newshub-core/core/domain"
)

// Theme is the UI color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Pagination tracks how far the current list has been loaded
type Pagination struct {
	Page    int  `json:"page"`
	HasMore bool `json:"hasMore"`
}

// FirstPage is the pagination of a freshly loaded list
func FirstPage() Pagination {
	return Pagination{Page: 1, HasMore: true}
}

// State is the whole application state
type State struct {
	Theme           Theme                       `json:"theme"`
	CurrentCategory string                      `json:"currentCategory"`
	NewsByCategory  map[string][]domain.Article `json:"newsByCategory"`
	Loading         bool                        `json:"loading"`
	Error           *string                     `json:"error"`
	SearchKeyword   string                      `json:"searchKeyword"`
	SearchResults   []domain.Article            `json:"searchResults"`
	SearchLoading   bool                        `json:"searchLoading"`
	Favorites       []domain.FavoriteRecord     `json:"favorites"`
	Pagination      Pagination                  `json:"pagination"`
	SidebarOpen     bool                        `json:"sidebarOpen"`
	ShowScrollTop   bool                        `json:"showScrollTop"`
}

// Initial returns the default state before anything is restored
func Initial() State {
	return State{
		Theme:           ThemeLight,
		CurrentCategory: domain.DefaultCategory,
		NewsByCategory:  map[string][]domain.Article{},
		SearchResults:   []domain.Article{},
		Favorites:       []domain.FavoriteRecord{},
		Pagination:      FirstPage(),
	}
}

// Articles returns the loaded list for category
func (s State) Articles(category string) []domain.Article {
	return s.NewsByCategory[category]
}

// ErrorMessage returns the current error or ""
func (s State) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// Clone deep-copies s so the copy can be handed out freely
func (s State) Clone() State {
	out := s
	out.NewsByCategory = make(map[string][]domain.Article, len(s.NewsByCategory))
	for k, v := range s.NewsByCategory {
		out.NewsByCategory[k] = domain.CloneArticles(v)
	}
	out.SearchResults = domain.CloneArticles(s.SearchResults)
	out.Favorites = domain.CloneFavorites(s.Favorites)
	if s.Error != nil {
		msg := *s.Error
		out.Error = &msg
	}
	return out
}
