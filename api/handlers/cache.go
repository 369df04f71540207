// ABOUTME: Cache handlers expose response cache statistics and invalidation
// ABOUTME: Clearing by category leaves other categories' pages untouched

package handlers

import (
	"context"
	"net/http"

	"newshub-core/api/dto/responses"
	"newshub-core/core/domain"
	coreerrors "newshub-core/core/errors"
	"newshub-core/core/interfaces"
	"newshub-core/core/workers"

	"github.com/danielgtaylor/huma/v2"
)

// Warmer loads category first pages into the response cache
type Warmer interface {
	Prefetch(ctx context.Context, categories ...string) []workers.Result
}

// CacheHandler handles response cache requests
type CacheHandler struct {
	news   interfaces.NewsService
	warmer Warmer
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(news interfaces.NewsService, warmer Warmer) *CacheHandler {
	return &CacheHandler{news: news, warmer: warmer}
}

// RegisterRoutes registers cache routes
func (h *CacheHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getCacheStats",
		Method:      http.MethodGet,
		Path:        "/cache/stats",
		Summary:     "Response cache statistics",
		Tags:        []string{"Cache"},
	}, h.Stats)

	huma.Register(api, huma.Operation{
		OperationID:   "clearCache",
		Method:        http.MethodDelete,
		Path:          "/cache",
		Summary:       "Drop cached pages",
		Description:   "Drops the pages of one category, or every page when no category is given",
		Tags:          []string{"Cache"},
		DefaultStatus: http.StatusNoContent,
	}, h.Clear)

	huma.Register(api, huma.Operation{
		OperationID: "warmCache",
		Method:      http.MethodPost,
		Path:        "/cache/warm",
		Summary:     "Prefetch category first pages",
		Description: "Loads the first page of each category into the response cache; every category when none is given",
		Tags:        []string{"Cache"},
	}, h.Warm)
}

// CacheStatsOutput wraps the statistics
type CacheStatsOutput struct {
	Body responses.CacheStatsResponse
}

// Stats handles GET /cache/stats
func (h *CacheHandler) Stats(ctx context.Context, input *struct{}) (*CacheStatsOutput, error) {
	stats, err := h.news.CacheStats(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("读取缓存统计失败", err)
	}
	keys := stats.Keys
	if keys == nil {
		keys = []string{}
	}
	return &CacheStatsOutput{Body: responses.CacheStatsResponse{Entries: stats.Entries, Keys: keys}}, nil
}

// ClearCacheInput selects what to drop
type ClearCacheInput struct {
	Category string `query:"category" doc:"Category key; empty drops everything"`
}

// Clear handles DELETE /cache
func (h *CacheHandler) Clear(ctx context.Context, input *ClearCacheInput) (*struct{}, error) {
	if input.Category != "" {
		if err := validateCategory(input.Category); err != nil {
			return nil, err
		}
	}
	if err := h.news.ClearCache(ctx, input.Category); err != nil {
		return nil, huma.Error500InternalServerError("清除缓存失败", err)
	}
	return nil, nil
}

// WarmCacheInput names the categories to prefetch
type WarmCacheInput struct {
	Category []string `query:"category" doc:"Comma separated category keys; empty warms every category"`
}

// WarmCacheOutput reports one result per category
type WarmCacheOutput struct {
	Body responses.WarmCacheResponse
}

// Warm handles POST /cache/warm
func (h *CacheHandler) Warm(ctx context.Context, input *WarmCacheInput) (*WarmCacheOutput, error) {
	categories := input.Category
	for _, c := range categories {
		if err := validateCategory(c); err != nil {
			return nil, err
		}
	}
	if len(categories) == 0 {
		for _, c := range domain.Categories {
			categories = append(categories, c.Key)
		}
	}

	results := h.warmer.Prefetch(ctx, categories...)
	body := responses.WarmCacheResponse{Results: make([]responses.WarmResultResponse, 0, len(results))}
	for _, r := range results {
		item := responses.WarmResultResponse{Category: r.Category, Articles: r.Articles, FromCache: r.FromCache}
		if r.Err != nil {
			item.Error = coreerrors.UserMessage(r.Err, coreerrors.MsgAPIError)
		}
		body.Results = append(body.Results, item)
	}
	return &WarmCacheOutput{Body: body}, nil
}
