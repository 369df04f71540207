// ABOUTME: Mappers convert domain articles into API response bodies
// ABOUTME: Per-user flags are resolved through an Annotator at mapping time

package mappers

import (
	"newshub-core/api/dto/responses"
	"newshub-core/core/domain"
)

// Annotator answers the per-user questions asked while mapping
type Annotator interface {
	IsRead(id string) bool
	IsFavorite(id string) bool
}

// ToArticleResponse maps one article
func ToArticleResponse(a domain.Article, ann Annotator) responses.ArticleResponse {
	images := a.Images
	if images == nil {
		images = []string{}
	}
	resp := responses.ArticleResponse{
		ID:                a.ID,
		Title:             a.Title,
		PublishedAt:       a.PublishedAt,
		Category:          a.Category,
		CategoryKey:       a.CategoryKey,
		AuthorName:        a.AuthorName,
		SourceURL:         a.SourceURL,
		Images:            images,
		HasMultipleImages: a.HasMultipleImages(),
		BodyPreview:       a.BodyPreview,
	}
	if ann != nil {
		resp.IsRead = ann.IsRead(a.ID)
		resp.IsFavorite = ann.IsFavorite(a.ID)
	}
	return resp
}

// ToArticleResponses maps a list, never returning nil
func ToArticleResponses(articles []domain.Article, ann Annotator) []responses.ArticleResponse {
	out := make([]responses.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, ToArticleResponse(a, ann))
	}
	return out
}

// ToFavoritesResponse maps saved records
func ToFavoritesResponse(records []domain.FavoriteRecord, ann Annotator) responses.FavoritesResponse {
	out := make([]responses.FavoriteResponse, 0, len(records))
	for _, r := range records {
		out = append(out, responses.FavoriteResponse{
			ArticleResponse: ToArticleResponse(r.Article, ann),
			FavoritedAt:     r.FavoritedAt,
		})
	}
	return responses.FavoritesResponse{Favorites: out, Count: len(out)}
}
