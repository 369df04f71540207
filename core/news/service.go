// ABOUTME: News service fetches category lists from the provider and normalizes them into articles
// ABOUTME: Consults the response cache first, retries transient failures and coalesces identical fetches

package news

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newshub-core/core/cache"
	"newshub-core/core/domain"
	coreerrors "newshub-core/core/errors"
	"newshub-core/core/interfaces"
	"newshub-core/pkg/featureflags"
	"newshub-core/pkg/retry"

	"golang.org/x/sync/singleflight"
)

// Defaults for Options
const (
	DefaultListPath           = "/posts"
	DefaultPageSize           = 20
	DefaultSearchSupersetSize = 100
	DefaultMaxRetries         = 2
	DefaultRetryBaseDelay     = time.Second
	DefaultPreviewLength      = 140
	DefaultArticleURLBase     = "https://jsonplaceholder.typicode.com/posts/"

	listFailureMessage = "获取新闻列表失败"
)

// Options tunes a Service
type Options struct {
	// ListPath is the provider list endpoint
	ListPath string

	// PageSize is used when a request does not name one
	PageSize int

	// SearchSupersetSize bounds how many articles a search can ever see
	SearchSupersetSize int

	// Retry wraps every provider call
	Retry retry.Policy

	// PreviewLength caps BodyPreview in runes
	PreviewLength int

	// ArticleURLBase is prefixed to a post id to form its SourceURL
	ArticleURLBase string

	// Now stamps synthesized publish times
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.ListPath == "" {
		o.ListPath = DefaultListPath
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.SearchSupersetSize <= 0 {
		o.SearchSupersetSize = DefaultSearchSupersetSize
	}
	if o.Retry.MaxRetries == 0 && o.Retry.BaseDelay == 0 {
		o.Retry.MaxRetries = DefaultMaxRetries
		o.Retry.BaseDelay = DefaultRetryBaseDelay
	}
	if o.PreviewLength <= 0 {
		o.PreviewLength = DefaultPreviewLength
	}
	if o.ArticleURLBase == "" {
		o.ArticleURLBase = DefaultArticleURLBase
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

var _ interfaces.NewsService = (*Service)(nil)

// Service implements interfaces.NewsService
type Service struct {
	http   interfaces.HTTPClient
	cache  *cache.Manager
	logger interfaces.Logger
	opts   Options
	flight singleflight.Group
}

// NewService creates a news service. A nil cacheManager is built over deps.Cache.
func NewService(deps interfaces.Dependencies, cacheManager *cache.Manager, opts Options) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	if cacheManager == nil {
		cacheManager = cache.NewManager(deps.Cache, cache.WithLogger(logger))
	}

	opts = opts.withDefaults()
	if opts.Retry.OnRetry == nil {
		opts.Retry.OnRetry = func(attempt int, delay time.Duration, err error) {
			logger.Warn("Provider request failed, retrying", map[string]interface{}{
				"attempt":  attempt + 1,
				"delay_ms": delay.Milliseconds(),
				"error":    err.Error(),
			})
		}
	}

	return &Service{
		http:   deps.HTTPClient,
		cache:  cacheManager,
		logger: logger,
		opts:   opts,
	}
}

// PageSize is the default list page size
func (s *Service) PageSize() int {
	return s.opts.PageSize
}

// GetList returns one page of a category. A fresh cached page is returned without a
// network call when params.UseCache is set; otherwise the provider is called and a
// successful page is cached.
func (s *Service) GetList(ctx context.Context, params interfaces.ListParams) (*domain.ListResult, error) {
	params = s.normalizeList(params)
	sig := s.listSignature(params)
	cacheOn := featureflags.IsEnabled(ctx, featureflags.ResponseCache)

	if params.UseCache && cacheOn {
		var cached domain.ListResult
		if s.cache.Get(ctx, sig, &cached) {
			s.logger.Debug("Serving news page from cache", map[string]interface{}{
				"category": params.Category,
				"page":     params.Page,
			})
			cached.FromCache = true
			return &cached, nil
		}
	}

	v, shared, err := s.coalesce(ctx, sig, func(ctx context.Context) (interface{}, error) {
		result, err := s.fetchList(ctx, params)
		if err != nil {
			return nil, err
		}
		if cacheOn {
			s.cache.Set(ctx, sig, result)
		}
		return result, nil
	})
	if err != nil {
		s.logger.Error("News list fetch failed", map[string]interface{}{
			"category": params.Category,
			"page":     params.Page,
			"error":    err.Error(),
		})
		return nil, coreerrors.WrapError(err, listFailureMessage)
	}

	result := v.(*domain.ListResult)
	if shared {
		copied := *result
		copied.Articles = domain.CloneArticles(result.Articles)
		return &copied, nil
	}
	return result, nil
}

func (s *Service) fetchList(ctx context.Context, params interfaces.ListParams) (*domain.ListResult, error) {
	query := url.Values{}
	query.Set("_page", strconv.Itoa(params.Page))
	query.Set("_limit", strconv.Itoa(params.PageSize))

	var articles []domain.Article
	err := retry.Do(ctx, s.opts.Retry, func(ctx context.Context) error {
		body, contentType, err := s.get(ctx, s.opts.ListPath, query)
		if err != nil {
			return err
		}
		records, err := decodeList(body, contentType)
		if err != nil {
			return err
		}
		articles = s.toArticles(records, params.Category)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetched news page", map[string]interface{}{
		"category": params.Category,
		"page":     params.Page,
		"count":    len(articles),
	})

	return &domain.ListResult{
		Articles: articles,
		Total:    len(articles),
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

// GetDetail returns one article by id, cached like a list page
func (s *Service) GetDetail(ctx context.Context, id string) (*domain.Article, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &coreerrors.ValidationError{Field: "id", Message: "新闻ID不能为空"}
	}

	postID, category, ok := ParseArticleID(id)
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "article", ID: id}
	}
	if _, err := strconv.Atoi(postID); err != nil {
		return nil, &coreerrors.NotFoundError{Resource: "article", ID: id}
	}

	path := strings.TrimRight(s.opts.ListPath, "/") + "/" + postID
	sig := cache.Key(path, map[string]string{"type": category})
	cacheOn := featureflags.IsEnabled(ctx, featureflags.ResponseCache)

	if cacheOn {
		var cached domain.Article
		if s.cache.Get(ctx, sig, &cached) {
			return &cached, nil
		}
	}

	v, shared, err := s.coalesce(ctx, sig, func(ctx context.Context) (interface{}, error) {
		var article domain.Article
		err := retry.Do(ctx, s.opts.Retry, func(ctx context.Context) error {
			body, _, err := s.get(ctx, path, nil)
			if err != nil {
				return err
			}
			rec, err := decodeDetail(body)
			if err != nil {
				return err
			}
			article = s.toArticle(rec, category)
			return nil
		})
		if err != nil {
			return nil, err
		}
		if cacheOn {
			s.cache.Set(ctx, sig, article)
		}
		return &article, nil
	})
	if err != nil {
		return nil, coreerrors.WrapError(err, coreerrors.MsgDetailError)
	}

	article := v.(*domain.Article)
	if shared {
		copied := article.Clone()
		return &copied, nil
	}
	return article, nil
}

// ClearCache drops cached entries for category, or every entry when category is empty
func (s *Service) ClearCache(ctx context.Context, category string) error {
	var removed int
	if category == "" {
		removed = s.cache.ClearAll(ctx)
	} else {
		removed = s.cache.ClearWhere(ctx, func(sig string) bool {
			return signatureCategory(sig) == category
		})
	}

	s.logger.Debug("Cleared news cache", map[string]interface{}{
		"category": category,
		"removed":  removed,
	})
	return nil
}

// CacheStats reports what the response cache holds
func (s *Service) CacheStats(ctx context.Context) (interfaces.CacheStats, error) {
	return s.cache.Stats(ctx)
}

// coalesce runs fn once per key among concurrent callers when coalescing is enabled.
// The shared call is detached from any one caller's cancellation and is bounded by
// the per-request timeout; each caller stops waiting when its own ctx ends.
func (s *Service) coalesce(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, bool, error) {
	if !featureflags.IsEnabled(ctx, featureflags.RequestCoalescing) {
		v, err := fn(ctx)
		return v, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, &coreerrors.CancelledError{Err: err}
	}

	ch := s.flight.DoChan(key, func() (interface{}, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		return nil, false, &coreerrors.CancelledError{Err: ctx.Err()}
	}
}

func (s *Service) get(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	resp, err := s.http.Get(ctx, path, query)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body().Close()

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, "", &coreerrors.NetworkError{URL: path, Err: err}
	}
	return body, resp.Header("Content-Type"), nil
}

func (s *Service) normalizeList(p interfaces.ListParams) interfaces.ListParams {
	if p.Category == "" {
		p.Category = domain.DefaultCategory
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = s.opts.PageSize
	}
	return p
}

func (s *Service) listSignature(p interfaces.ListParams) string {
	return cache.Key(s.opts.ListPath, map[string]string{
		"type":   p.Category,
		"_page":  strconv.Itoa(p.Page),
		"_limit": strconv.Itoa(p.PageSize),
	})
}

// signatureCategory extracts the type parameter from a cache signature
func signatureCategory(sig string) string {
	i := strings.IndexByte(sig, '?')
	if i < 0 {
		return ""
	}
	values, err := url.ParseQuery(sig[i+1:])
	if err != nil {
		return ""
	}
	return values.Get("type")
}

// ArticleID builds the stable id for a provider record fetched under category
func ArticleID(providerID, category string) string {
	return fmt.Sprintf("news_%s_%s", providerID, category)
}

// ParseArticleID splits an id produced by ArticleID
func ParseArticleID(id string) (providerID, category string, ok bool) {
	rest, found := strings.CutPrefix(id, "news_")
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, '_')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}
