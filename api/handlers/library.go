// ABOUTME: Library handlers for favorites, search history, read history and theme
// ABOUTME: Every mutation goes through the session so state and storage stay in step

package handlers

import (
	"context"
	"net/http"

	"newshub-core/api/dto/mappers"
	"newshub-core/api/dto/requests"
	"newshub-core/api/dto/responses"
	"newshub-core/core/state"

	"github.com/danielgtaylor/huma/v2"
)

// LibraryHandler handles per-user collections and preferences
type LibraryHandler struct {
	session Session
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(s Session) *LibraryHandler {
	return &LibraryHandler{session: s}
}

// RegisterRoutes registers favorites, history and theme routes
func (h *LibraryHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/favorites",
		Summary:     "List saved articles",
		Tags:        []string{"Favorites"},
	}, h.ListFavorites)

	huma.Register(api, huma.Operation{
		OperationID: "addFavorite",
		Method:      http.MethodPost,
		Path:        "/favorites",
		Summary:     "Save an article",
		Tags:        []string{"Favorites"},
	}, h.AddFavorite)

	huma.Register(api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/favorites/toggle",
		Summary:     "Save or unsave an article",
		Tags:        []string{"Favorites"},
	}, h.ToggleFavorite)

	huma.Register(api, huma.Operation{
		OperationID: "removeFavorite",
		Method:      http.MethodDelete,
		Path:        "/favorites/{id}",
		Summary:     "Unsave an article",
		Tags:        []string{"Favorites"},
	}, h.RemoveFavorite)

	huma.Register(api, huma.Operation{
		OperationID:   "clearFavorites",
		Method:        http.MethodDelete,
		Path:          "/favorites",
		Summary:       "Unsave every article",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearFavorites)

	huma.Register(api, huma.Operation{
		OperationID: "getSearchHistory",
		Method:      http.MethodGet,
		Path:        "/history/search",
		Summary:     "List recent search keywords",
		Tags:        []string{"History"},
	}, h.GetSearchHistory)

	huma.Register(api, huma.Operation{
		OperationID:   "removeSearchHistory",
		Method:        http.MethodDelete,
		Path:          "/history/search/{keyword}",
		Summary:       "Forget one search keyword",
		Tags:          []string{"History"},
		DefaultStatus: http.StatusNoContent,
	}, h.RemoveSearchHistory)

	huma.Register(api, huma.Operation{
		OperationID:   "clearSearchHistory",
		Method:        http.MethodDelete,
		Path:          "/history/search",
		Summary:       "Forget every search keyword",
		Tags:          []string{"History"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearSearchHistory)

	huma.Register(api, huma.Operation{
		OperationID: "getReadStatus",
		Method:      http.MethodGet,
		Path:        "/history/read/{id}",
		Summary:     "Check whether an article was read",
		Tags:        []string{"History"},
	}, h.GetReadStatus)

	huma.Register(api, huma.Operation{
		OperationID: "markAsRead",
		Method:      http.MethodPost,
		Path:        "/history/read/{id}",
		Summary:     "Mark an article read",
		Tags:        []string{"History"},
	}, h.MarkAsRead)

	huma.Register(api, huma.Operation{
		OperationID:   "clearReadHistory",
		Method:        http.MethodDelete,
		Path:          "/history/read",
		Summary:       "Forget every read article",
		Tags:          []string{"History"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearReadHistory)

	huma.Register(api, huma.Operation{
		OperationID: "getTheme",
		Method:      http.MethodGet,
		Path:        "/theme",
		Summary:     "Get the active theme",
		Tags:        []string{"Preferences"},
	}, h.GetTheme)

	huma.Register(api, huma.Operation{
		OperationID: "setTheme",
		Method:      http.MethodPut,
		Path:        "/theme",
		Summary:     "Set the theme",
		Tags:        []string{"Preferences"},
	}, h.SetTheme)

	huma.Register(api, huma.Operation{
		OperationID: "toggleTheme",
		Method:      http.MethodPost,
		Path:        "/theme/toggle",
		Summary:     "Switch between light and dark",
		Tags:        []string{"Preferences"},
	}, h.ToggleTheme)
}

// FavoritesOutput wraps the saved articles
type FavoritesOutput struct {
	Body responses.FavoritesResponse
}

// ListFavorites handles GET /favorites
func (h *LibraryHandler) ListFavorites(ctx context.Context, input *struct{}) (*FavoritesOutput, error) {
	return &FavoritesOutput{Body: mappers.ToFavoritesResponse(h.session.Favorites(), annotator{ctx, h.session})}, nil
}

// FavoriteInput carries an article body
type FavoriteInput struct {
	Body requests.FavoriteRequest
}

// FavoriteResultOutput reports a favorite mutation
type FavoriteResultOutput struct {
	Body responses.FavoriteResultResponse
}

// AddFavorite handles POST /favorites
func (h *LibraryHandler) AddFavorite(ctx context.Context, input *FavoriteInput) (*FavoriteResultOutput, error) {
	result := h.session.AddFavorite(ctx, input.Body.ToArticle())
	return favoriteResult(input.Body.ID, string(result)), nil
}

// ToggleFavorite handles POST /favorites/toggle
func (h *LibraryHandler) ToggleFavorite(ctx context.Context, input *FavoriteInput) (*FavoriteResultOutput, error) {
	result := h.session.ToggleFavorite(ctx, input.Body.ToArticle())
	return favoriteResult(input.Body.ID, string(result)), nil
}

// RemoveFavorite handles DELETE /favorites/{id}
func (h *LibraryHandler) RemoveFavorite(ctx context.Context, input *ArticleInput) (*FavoriteResultOutput, error) {
	if !h.session.IsFavorite(input.ID) {
		return nil, huma.Error404NotFound("收藏不存在: " + input.ID)
	}
	result := h.session.RemoveFavorite(ctx, input.ID)
	return favoriteResult(input.ID, string(result)), nil
}

// ClearFavorites handles DELETE /favorites
func (h *LibraryHandler) ClearFavorites(ctx context.Context, input *struct{}) (*struct{}, error) {
	h.session.ClearFavorites(ctx)
	return nil, nil
}

func favoriteResult(id, result string) *FavoriteResultOutput {
	return &FavoriteResultOutput{Body: responses.FavoriteResultResponse{ID: id, Result: result}}
}

// SearchHistoryOutput wraps recent keywords
type SearchHistoryOutput struct {
	Body responses.SearchHistoryResponse
}

// GetSearchHistory handles GET /history/search
func (h *LibraryHandler) GetSearchHistory(ctx context.Context, input *struct{}) (*SearchHistoryOutput, error) {
	keywords := h.session.SearchHistory(ctx)
	if keywords == nil {
		keywords = []string{}
	}
	return &SearchHistoryOutput{Body: responses.SearchHistoryResponse{Keywords: keywords}}, nil
}

// KeywordInput selects a search keyword by path
type KeywordInput struct {
	Keyword string `path:"keyword"`
}

// RemoveSearchHistory handles DELETE /history/search/{keyword}
func (h *LibraryHandler) RemoveSearchHistory(ctx context.Context, input *KeywordInput) (*struct{}, error) {
	h.session.RemoveSearchHistory(ctx, input.Keyword)
	return nil, nil
}

// ClearSearchHistory handles DELETE /history/search
func (h *LibraryHandler) ClearSearchHistory(ctx context.Context, input *struct{}) (*struct{}, error) {
	h.session.ClearSearchHistory(ctx)
	return nil, nil
}

// ReadStatusOutput reports read state
type ReadStatusOutput struct {
	Body responses.ReadStatusResponse
}

// GetReadStatus handles GET /history/read/{id}
func (h *LibraryHandler) GetReadStatus(ctx context.Context, input *ArticleInput) (*ReadStatusOutput, error) {
	return readStatus(input.ID, h.session.IsRead(ctx, input.ID)), nil
}

// MarkAsRead handles POST /history/read/{id}
func (h *LibraryHandler) MarkAsRead(ctx context.Context, input *ArticleInput) (*ReadStatusOutput, error) {
	h.session.MarkAsRead(ctx, input.ID)
	return readStatus(input.ID, true), nil
}

// ClearReadHistory handles DELETE /history/read
func (h *LibraryHandler) ClearReadHistory(ctx context.Context, input *struct{}) (*struct{}, error) {
	h.session.ClearReadHistory(ctx)
	return nil, nil
}

func readStatus(id string, read bool) *ReadStatusOutput {
	return &ReadStatusOutput{Body: responses.ReadStatusResponse{ID: id, Read: read}}
}

// ThemeOutput carries the active theme
type ThemeOutput struct {
	Body responses.ThemeResponse
}

// ThemeInput selects a theme
type ThemeInput struct {
	Body requests.ThemeRequest
}

// GetTheme handles GET /theme
func (h *LibraryHandler) GetTheme(ctx context.Context, input *struct{}) (*ThemeOutput, error) {
	return themeOutput(h.session.Theme()), nil
}

// SetTheme handles PUT /theme
func (h *LibraryHandler) SetTheme(ctx context.Context, input *ThemeInput) (*ThemeOutput, error) {
	if err := h.session.SetTheme(ctx, state.Theme(input.Body.Theme)); err != nil {
		return nil, toHumaError(err, "")
	}
	return themeOutput(h.session.Theme()), nil
}

// ToggleTheme handles POST /theme/toggle
func (h *LibraryHandler) ToggleTheme(ctx context.Context, input *struct{}) (*ThemeOutput, error) {
	return themeOutput(h.session.ToggleTheme(ctx)), nil
}

func themeOutput(theme state.Theme) *ThemeOutput {
	return &ThemeOutput{Body: responses.ThemeResponse{Theme: string(theme)}}
}
