package news

import "newshub-core/core/domain"

// PaginateArticles returns the 1-based page of articles. Out-of-range pages are empty.
func PaginateArticles(articles []domain.Article, page, perPage int) []domain.Article {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}

	start := (page - 1) * perPage
	if start >= len(articles) {
		return []domain.Article{}
	}

	end := start + perPage
	if end > len(articles) {
		end = len(articles)
	}
	return articles[start:end]
}
