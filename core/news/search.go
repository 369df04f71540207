// ABOUTME: Keyword search over a bounded superset of one category
// ABOUTME: Filters locally and paginates the filtered matches

package news

import (
	"context"
	"strings"

	"newshub-core/core/domain"
	coreerrors "newshub-core/core/errors"
	"newshub-core/core/interfaces"
)

// Search fetches the first SearchSupersetSize articles of params.Category, bypassing
// the cache, and returns the requested page of those whose title or author contains
// the keyword. Articles beyond the superset are never found.
func (s *Service) Search(ctx context.Context, params interfaces.SearchParams) (*domain.SearchResult, error) {
	keyword := strings.TrimSpace(params.Keyword)
	if keyword == "" {
		return nil, &coreerrors.ValidationError{Field: "keyword", Message: "搜索关键词不能为空"}
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = s.opts.PageSize
	}

	superset, err := s.GetList(ctx, interfaces.ListParams{
		Category: params.Category,
		Page:     1,
		PageSize: s.opts.SearchSupersetSize,
		UseCache: false,
	})
	if err != nil {
		return nil, coreerrors.WrapError(err, coreerrors.MsgSearchError)
	}

	matches := FilterArticles(superset.Articles, keyword)
	s.logger.Debug("Search completed", map[string]interface{}{
		"keyword":  keyword,
		"category": params.Category,
		"matches":  len(matches),
	})

	return &domain.SearchResult{
		Articles: PaginateArticles(matches, page, pageSize),
		Total:    len(matches),
		Page:     page,
		PageSize: pageSize,
		HasMore:  page*pageSize < len(matches),
		Keyword:  keyword,
	}, nil
}

// FilterArticles keeps articles whose title or author contains keyword, ignoring case
func FilterArticles(articles []domain.Article, keyword string) []domain.Article {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	matches := make([]domain.Article, 0)
	if needle == "" {
		return matches
	}
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.AuthorName), needle) {
			matches = append(matches, a)
		}
	}
	return matches
}
