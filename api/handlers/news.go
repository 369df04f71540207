// ABOUTME: News handlers for the Huma API
// ABOUTME: Drives the session for category lists, paging, search and article detail

package handlers

import (
	"context"
	"net/http"
	"strings"

	"newshub-core/api/dto/mappers"
	"newshub-core/api/dto/responses"
	"newshub-core/core/domain"
	"newshub-core/core/errors"
	"newshub-core/core/favorites"
	"newshub-core/core/interfaces"
	"newshub-core/core/session"
	"newshub-core/core/state"

	"github.com/danielgtaylor/huma/v2"
)

// Session is the orchestration surface the handlers drive
type Session interface {
	FetchNews(ctx context.Context, category string, refresh bool) error
	LoadMoreNews(ctx context.Context, category string) error
	RefreshNews(ctx context.Context, category string) error
	SwitchCategory(ctx context.Context, category string) error
	SearchNewsIn(ctx context.Context, keyword, category string) error
	ClearSearch()
	State() state.State
	LoadMoreError() string

	IsRead(ctx context.Context, id string) bool
	MarkAsRead(ctx context.Context, id string)
	ClearReadHistory(ctx context.Context)
	IsFavorite(id string) bool
	Favorites() []domain.FavoriteRecord
	ToggleFavorite(ctx context.Context, article domain.Article) favorites.Result
	AddFavorite(ctx context.Context, article domain.Article) favorites.Result
	RemoveFavorite(ctx context.Context, id string) favorites.Result
	ClearFavorites(ctx context.Context)

	SearchHistory(ctx context.Context) []string
	RemoveSearchHistory(ctx context.Context, keyword string)
	ClearSearchHistory(ctx context.Context)

	Theme() state.Theme
	SetTheme(ctx context.Context, theme state.Theme) error
	ToggleTheme(ctx context.Context) state.Theme
}

var _ Session = (*session.Session)(nil)

// annotator resolves per-user flags for one request
type annotator struct {
	ctx     context.Context
	session Session
}

func (a annotator) IsRead(id string) bool     { return a.session.IsRead(a.ctx, id) }
func (a annotator) IsFavorite(id string) bool { return a.session.IsFavorite(id) }

// NewsHandler handles news-related HTTP requests
type NewsHandler struct {
	session Session
	news    interfaces.NewsService
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(s Session, news interfaces.NewsService) *NewsHandler {
	return &NewsHandler{session: s, news: news}
}

// RegisterRoutes registers all news-related routes
func (h *NewsHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/categories",
		Summary:     "List news categories",
		Tags:        []string{"News"},
	}, h.ListCategories)

	huma.Register(api, huma.Operation{
		OperationID: "getNews",
		Method:      http.MethodGet,
		Path:        "/news/{category}",
		Summary:     "Get the loaded list of a category",
		Description: "Loads the first page when the category is empty or refresh is set",
		Tags:        []string{"News"},
	}, h.GetNews)

	huma.Register(api, huma.Operation{
		OperationID: "loadMoreNews",
		Method:      http.MethodPost,
		Path:        "/news/{category}/more",
		Summary:     "Append the next page of a category",
		Tags:        []string{"News"},
	}, h.LoadMore)

	huma.Register(api, huma.Operation{
		OperationID: "refreshNews",
		Method:      http.MethodPost,
		Path:        "/news/{category}/refresh",
		Summary:     "Drop cached pages and reload a category",
		Tags:        []string{"News"},
	}, h.Refresh)

	huma.Register(api, huma.Operation{
		OperationID: "switchCategory",
		Method:      http.MethodPost,
		Path:        "/news/{category}/select",
		Summary:     "Make a category current",
		Tags:        []string{"News"},
	}, h.SwitchCategory)

	huma.Register(api, huma.Operation{
		OperationID: "getArticle",
		Method:      http.MethodGet,
		Path:        "/articles/{id}",
		Summary:     "Get one article and mark it read",
		Tags:        []string{"News"},
	}, h.GetArticle)

	huma.Register(api, huma.Operation{
		OperationID: "searchNews",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Search article titles and authors",
		Tags:        []string{"Search"},
	}, h.Search)

	huma.Register(api, huma.Operation{
		OperationID:   "clearSearch",
		Method:        http.MethodDelete,
		Path:          "/search",
		Summary:       "Clear the current search",
		Tags:          []string{"Search"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearSearch)
}

// CategoriesOutput lists the taxonomy
type CategoriesOutput struct {
	Body []responses.CategoryResponse
}

// ListCategories handles GET /categories
func (h *NewsHandler) ListCategories(ctx context.Context, input *struct{}) (*CategoriesOutput, error) {
	out := make([]responses.CategoryResponse, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, responses.CategoryResponse{Key: c.Key, Label: c.Label})
	}
	return &CategoriesOutput{Body: out}, nil
}

// CategoryInput selects a category by path
type CategoryInput struct {
	Category string `path:"category" doc:"Category key, e.g. top or keji"`
}

// GetNewsInput defines the input for the GetNews operation
type GetNewsInput struct {
	CategoryInput
	Refresh bool `query:"refresh" doc:"Bypass the cache and reload the first page"`
}

// NewsListOutput defines the output of the list operations
type NewsListOutput struct {
	Body responses.NewsListResponse
}

// GetNews handles GET /news/{category}
func (h *NewsHandler) GetNews(ctx context.Context, input *GetNewsInput) (*NewsListOutput, error) {
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}
	if err := h.session.FetchNews(ctx, input.Category, input.Refresh); err != nil {
		return nil, toHumaError(err, errors.MsgAPIError)
	}
	return h.listOutput(ctx, input.Category), nil
}

// LoadMore handles POST /news/{category}/more. A failed page keeps the loaded
// list and is reported in loadMoreError.
func (h *NewsHandler) LoadMore(ctx context.Context, input *CategoryInput) (*NewsListOutput, error) {
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}
	if err := h.session.LoadMoreNews(ctx, input.Category); err != nil && errors.IsCancelled(err) {
		return nil, toHumaError(err, errors.MsgLoadMoreError)
	}
	return h.listOutput(ctx, input.Category), nil
}

// Refresh handles POST /news/{category}/refresh
func (h *NewsHandler) Refresh(ctx context.Context, input *CategoryInput) (*NewsListOutput, error) {
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}
	if err := h.session.RefreshNews(ctx, input.Category); err != nil {
		return nil, toHumaError(err, errors.MsgAPIError)
	}
	return h.listOutput(ctx, input.Category), nil
}

// SwitchCategory handles POST /news/{category}/select
func (h *NewsHandler) SwitchCategory(ctx context.Context, input *CategoryInput) (*NewsListOutput, error) {
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}
	if err := h.session.SwitchCategory(ctx, input.Category); err != nil {
		return nil, toHumaError(err, errors.MsgAPIError)
	}
	return h.listOutput(ctx, input.Category), nil
}

func (h *NewsHandler) listOutput(ctx context.Context, category string) *NewsListOutput {
	st := h.session.State()
	return &NewsListOutput{Body: responses.NewsListResponse{
		Category:      category,
		Articles:      mappers.ToArticleResponses(st.Articles(category), annotator{ctx, h.session}),
		Pagination:    responses.PaginationResponse{Page: st.Pagination.Page, HasMore: st.Pagination.HasMore},
		Error:         st.ErrorMessage(),
		LoadMoreError: h.session.LoadMoreError(),
	}}
}

// ArticleInput selects an article by id
type ArticleInput struct {
	ID string `path:"id" doc:"Article id"`
}

// ArticleOutput wraps one article
type ArticleOutput struct {
	Body responses.ArticleResponse
}

// GetArticle handles GET /articles/{id}
func (h *NewsHandler) GetArticle(ctx context.Context, input *ArticleInput) (*ArticleOutput, error) {
	article, err := h.news.GetDetail(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err, errors.MsgDetailError)
	}
	h.session.MarkAsRead(ctx, article.ID)
	return &ArticleOutput{Body: mappers.ToArticleResponse(*article, annotator{ctx, h.session})}, nil
}

// SearchInput defines the input for the Search operation
type SearchInput struct {
	Keyword  string `query:"q" doc:"Keyword matched against titles and authors"`
	Category string `query:"category" doc:"Category to search, defaults to top"`
}

// SearchOutput wraps the search results
type SearchOutput struct {
	Body responses.SearchResponse
}

// Search handles GET /search
func (h *NewsHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if strings.TrimSpace(input.Keyword) == "" {
		return nil, toHumaError(&errors.ValidationError{Field: "q", Message: "搜索关键词不能为空"}, errors.MsgSearchError)
	}
	if input.Category != "" {
		if err := validateCategory(input.Category); err != nil {
			return nil, err
		}
	}
	if err := h.session.SearchNewsIn(ctx, input.Keyword, input.Category); err != nil {
		return nil, toHumaError(err, errors.MsgSearchError)
	}
	st := h.session.State()
	return &SearchOutput{Body: responses.SearchResponse{
		Keyword:  st.SearchKeyword,
		Articles: mappers.ToArticleResponses(st.SearchResults, annotator{ctx, h.session}),
		Total:    len(st.SearchResults),
	}}, nil
}

// ClearSearch handles DELETE /search
func (h *NewsHandler) ClearSearch(ctx context.Context, input *struct{}) (*struct{}, error) {
	h.session.ClearSearch()
	return nil, nil
}

func validateCategory(category string) error {
	if !domain.IsKnownCategory(category) {
		return huma.Error400BadRequest("未知的新闻分类: " + category)
	}
	return nil
}
