// ABOUTME: Session orchestrates news fetching, pagination, search and favorites over the state store
// ABOUTME: All I/O happens here; results reach the state only through dispatched actions

package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"newshub-core/core/domain"
	coreerrors "newshub-core/core/errors"
	"newshub-core/core/favorites"
	"newshub-core/core/history"
	"newshub-core/core/interfaces"
	"newshub-core/core/state"
)

// ThemeKey is where the theme preference is persisted
const ThemeKey = "app_theme"

// Defaults for Options
const (
	DefaultPageSize       = 20
	DefaultSearchPageSize = 50
)

// Dependencies are the collaborators a Session drives
type Dependencies struct {
	News    interfaces.NewsService
	Storage interfaces.KVStore
	Logger  interfaces.Logger

	// Optional; built over Storage when nil
	Favorites     *favorites.Manager
	SearchHistory *history.SearchHistory
	ReadHistory   *history.ReadHistory
}

// Options tunes a Session
type Options struct {
	PageSize       int
	SearchPageSize int
}

// Session is the application-facing API of the core
type Session struct {
	news          interfaces.NewsService
	kv            interfaces.KVStore
	logger        interfaces.Logger
	store         *state.Store
	favorites     *favorites.Manager
	searchHistory *history.SearchHistory
	readHistory   *history.ReadHistory

	pageSize       int
	searchPageSize int

	refreshing  atomic.Int32
	loadingMore atomic.Bool

	mu          sync.Mutex
	loadMoreErr string
}

// New creates a session whose state starts from defaults overlaid with the
// persisted theme and favorites
func New(ctx context.Context, deps Dependencies, opts Options) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchPageSize <= 0 {
		opts.SearchPageSize = DefaultSearchPageSize
	}

	s := &Session{
		news:           deps.News,
		kv:             deps.Storage,
		logger:         logger,
		favorites:      deps.Favorites,
		searchHistory:  deps.SearchHistory,
		readHistory:    deps.ReadHistory,
		pageSize:       opts.PageSize,
		searchPageSize: opts.SearchPageSize,
	}
	if s.favorites == nil {
		s.favorites = favorites.NewManager(deps.Storage)
	}
	if s.searchHistory == nil {
		s.searchHistory = history.NewSearchHistory(deps.Storage)
	}
	if s.readHistory == nil {
		s.readHistory = history.NewReadHistory(deps.Storage)
	}

	initial := state.Initial()
	initial.Theme = s.restoreTheme(ctx)
	initial.Favorites = s.favorites.Load(ctx)
	s.store = state.NewStore(initial, logger)

	logger.Debug("Session restored", map[string]interface{}{
		"theme":     initial.Theme,
		"favorites": len(initial.Favorites),
	})
	return s
}

func (s *Session) restoreTheme(ctx context.Context) state.Theme {
	var theme state.Theme
	if s.kv.Get(ctx, ThemeKey, &theme) && theme.Valid() {
		return theme
	}
	return state.ThemeLight
}

// Store exposes the underlying state store
func (s *Session) Store() *state.Store {
	return s.store
}

// Subscribe registers a state listener
func (s *Session) Subscribe(l state.Listener) func() {
	return s.store.Subscribe(l)
}

// FetchNews loads the first page of category. Without refresh it does nothing
// when the category already has articles and may serve a fresh cached page.
// Failures are recorded in the state error and returned.
func (s *Session) FetchNews(ctx context.Context, category string, refresh bool) error {
	if category == "" {
		category = domain.DefaultCategory
	}
	if !refresh && len(s.current().Articles(category)) > 0 {
		return nil
	}

	s.store.Dispatch(state.SetLoading{Loading: true})
	s.store.Dispatch(state.ClearError{})

	result, err := s.news.GetList(ctx, interfaces.ListParams{
		Category: category,
		Page:     1,
		PageSize: s.pageSize,
		UseCache: !refresh,
	})
	if err != nil {
		s.store.Dispatch(state.SetError{Message: coreerrors.UserMessage(err, coreerrors.MsgAPIError)})
		return err
	}

	s.store.Dispatch(state.SetNewsData{Category: category, Articles: result.Articles})
	s.store.Dispatch(state.ResetPagination{})
	if len(result.Articles) < s.pageSize {
		s.store.Dispatch(state.MoreAvailable(false))
	}
	return nil
}

// LoadMoreNews appends the next page of category. It does nothing while a load
// is running or when no more pages exist. A failure keeps the loaded articles
// and is reported through LoadMoreError.
func (s *Session) LoadMoreNews(ctx context.Context, category string) error {
	if category == "" {
		category = domain.DefaultCategory
	}

	if !s.loadingMore.CompareAndSwap(false, true) {
		return nil
	}
	defer s.loadingMore.Store(false)

	current := s.current()
	if current.Loading || !current.Pagination.HasMore {
		return nil
	}

	s.setLoadMoreError("")
	s.store.Dispatch(state.SetLoading{Loading: true})
	nextPage := current.Pagination.Page + 1

	result, err := s.news.GetList(ctx, interfaces.ListParams{
		Category: category,
		Page:     nextPage,
		PageSize: s.pageSize,
		UseCache: false,
	})
	if err != nil {
		s.setLoadMoreError(coreerrors.MsgLoadMoreError)
		s.store.Dispatch(state.SetLoading{Loading: false})
		s.logger.Warn("Load more failed", map[string]interface{}{
			"category": category,
			"page":     nextPage,
			"error":    err.Error(),
		})
		return err
	}

	if len(result.Articles) == 0 {
		s.store.Dispatch(state.MoreAvailable(false))
		s.store.Dispatch(state.SetLoading{Loading: false})
		return nil
	}

	s.store.Dispatch(state.AppendNewsData{Category: category, Articles: result.Articles})
	s.store.Dispatch(state.Advance(nextPage, len(result.Articles) == s.pageSize))
	return nil
}

// RefreshNews drops the cached pages of category and fetches it again.
// Refreshing reports true for the duration.
func (s *Session) RefreshNews(ctx context.Context, category string) error {
	if category == "" {
		category = domain.DefaultCategory
	}
	s.refreshing.Add(1)
	defer s.refreshing.Add(-1)

	if err := s.news.ClearCache(ctx, category); err != nil {
		s.logger.Warn("Cache clear failed before refresh", map[string]interface{}{
			"category": category,
			"error":    err.Error(),
		})
	}
	return s.FetchNews(ctx, category, true)
}

// Refreshing reports whether a refresh is running
func (s *Session) Refreshing() bool {
	return s.refreshing.Load() > 0
}

// SwitchCategory makes category current and loads it when nothing is loaded yet
func (s *Session) SwitchCategory(ctx context.Context, category string) error {
	if category == "" || category == s.current().CurrentCategory {
		return nil
	}

	s.store.Dispatch(state.SetCurrentCategory{Category: category})
	s.store.Dispatch(state.ResetPagination{})
	s.logger.Debug("Switched category", map[string]interface{}{
		"category": category,
	})

	// A category loaded earlier resumes after its last page instead of refetching page 2
	if loaded := len(s.current().Articles(category)); loaded > 0 {
		pages := (loaded + s.pageSize - 1) / s.pageSize
		s.store.Dispatch(state.Advance(pages, loaded%s.pageSize == 0))
		return nil
	}
	return s.FetchNews(ctx, category, false)
}

// SearchNews searches the default category
func (s *Session) SearchNews(ctx context.Context, keyword string) error {
	return s.SearchNewsIn(ctx, keyword, domain.DefaultCategory)
}

// SearchNewsIn searches category for keyword and records the keyword in the
// search history. A failure clears the results. Blank keywords are ignored.
func (s *Session) SearchNewsIn(ctx context.Context, keyword, category string) error {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return nil
	}

	s.store.Dispatch(state.SetSearchLoading{Loading: true})
	s.store.Dispatch(state.SetSearchKeyword{Keyword: keyword})

	result, err := s.news.Search(ctx, interfaces.SearchParams{
		Keyword:  trimmed,
		Category: category,
		Page:     1,
		PageSize: s.searchPageSize,
	})
	if err != nil {
		s.store.Dispatch(state.SetSearchError{Message: coreerrors.UserMessage(err, coreerrors.MsgSearchError)})
		return err
	}

	s.store.Dispatch(state.SetSearchResults{Articles: result.Articles})
	s.searchHistory.Add(ctx, trimmed)
	return nil
}

// ClearSearch resets the search keyword and results
func (s *Session) ClearSearch() {
	s.store.Dispatch(state.ClearSearch{})
}

// SearchHistory returns recent keywords, most recent first
func (s *Session) SearchHistory(ctx context.Context) []string {
	return s.searchHistory.All(ctx)
}

// RemoveSearchHistory forgets one keyword
func (s *Session) RemoveSearchHistory(ctx context.Context, keyword string) {
	s.searchHistory.Remove(ctx, keyword)
}

// ClearSearchHistory forgets every keyword
func (s *Session) ClearSearchHistory(ctx context.Context) {
	s.searchHistory.Clear(ctx)
}

// ToggleFavorite saves article or removes it when already saved
func (s *Session) ToggleFavorite(ctx context.Context, article domain.Article) favorites.Result {
	if s.IsFavorite(article.ID) {
		return s.RemoveFavorite(ctx, article.ID)
	}
	return s.AddFavorite(ctx, article)
}

// AddFavorite saves article unless it already is
func (s *Session) AddFavorite(ctx context.Context, article domain.Article) favorites.Result {
	record, result := s.favorites.Add(ctx, article)
	if result == favorites.Added {
		s.store.Dispatch(state.AddFavorite{Record: record})
	}
	return result
}

// RemoveFavorite deletes the saved article with id
func (s *Session) RemoveFavorite(ctx context.Context, id string) favorites.Result {
	s.favorites.Remove(ctx, id)
	s.store.Dispatch(state.RemoveFavorite{ID: id})
	return favorites.Removed
}

// ClearFavorites deletes every saved article
func (s *Session) ClearFavorites(ctx context.Context) {
	s.favorites.Clear(ctx)
	s.store.Dispatch(state.SetFavorites{Favorites: nil})
}

// IsFavorite reports whether id is saved
func (s *Session) IsFavorite(id string) bool {
	found := false
	s.store.Select(func(st state.State) {
		for _, f := range st.Favorites {
			if f.ID == id {
				found = true
				return
			}
		}
	})
	return found
}

// MarkAsRead records that id was opened
func (s *Session) MarkAsRead(ctx context.Context, id string) {
	s.readHistory.MarkAsRead(ctx, id)
}

// IsRead reports whether id was opened
func (s *Session) IsRead(ctx context.Context, id string) bool {
	return s.readHistory.IsRead(ctx, id)
}

// ClearReadHistory forgets every opened id
func (s *Session) ClearReadHistory(ctx context.Context) {
	s.readHistory.Clear(ctx)
}

// SetTheme changes and persists the theme
func (s *Session) SetTheme(ctx context.Context, theme state.Theme) error {
	if !theme.Valid() {
		return &coreerrors.ValidationError{Field: "theme", Message: "theme must be light or dark"}
	}
	s.store.Dispatch(state.SetTheme{Theme: theme})
	s.kv.Set(ctx, ThemeKey, theme)
	return nil
}

// ToggleTheme flips and persists the theme, returning the new one
func (s *Session) ToggleTheme(ctx context.Context) state.Theme {
	s.store.Dispatch(state.ToggleTheme{})
	theme := s.current().Theme
	s.kv.Set(ctx, ThemeKey, theme)
	return theme
}

// ToggleSidebar flips the sidebar flag
func (s *Session) ToggleSidebar() {
	s.store.Dispatch(state.ToggleSidebar{})
}

// SetShowScrollTop sets the scroll-to-top flag
func (s *Session) SetShowScrollTop(show bool) {
	s.store.Dispatch(state.SetShowScrollTop{Show: show})
}

// ClearError dismisses the current error
func (s *Session) ClearError() {
	s.store.Dispatch(state.ClearError{})
}

// LoadMoreError returns the last load-more failure message, or ""
func (s *Session) LoadMoreError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMoreErr
}

// ClearLoadMoreError dismisses the load-more failure
func (s *Session) ClearLoadMoreError() {
	s.setLoadMoreError("")
}

func (s *Session) setLoadMoreError(msg string) {
	s.mu.Lock()
	s.loadMoreErr = msg
	s.mu.Unlock()
}

// current returns the live state. Callers must not modify it.
func (s *Session) current() state.State {
	var st state.State
	s.store.Select(func(v state.State) { st = v })
	return st
}
