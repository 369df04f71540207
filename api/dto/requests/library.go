// ABOUTME: Request bodies for the API bridge
// ABOUTME: Validation constraints are enforced by huma from the struct tags

package requests

import (
	"time"

	"newshub-core/core/domain"
)

// FavoriteRequest carries the article to save. Articles are copied as given
// so a favorite survives the article dropping out of every loaded list.
type FavoriteRequest struct {
	ID          string    `json:"id" minLength:"1" doc:"Article id"`
	Title       string    `json:"title" minLength:"1"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
	Category    string    `json:"category,omitempty"`
	CategoryKey string    `json:"categoryKey,omitempty"`
	AuthorName  string    `json:"authorName,omitempty"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	Images      []string  `json:"images,omitempty"`
	BodyPreview string    `json:"bodyPreview,omitempty"`
}

// ToArticle converts the request into a domain article
func (r FavoriteRequest) ToArticle() domain.Article {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return domain.Article{
		ID:          r.ID,
		Title:       r.Title,
		PublishedAt: r.PublishedAt,
		Category:    r.Category,
		CategoryKey: r.CategoryKey,
		AuthorName:  r.AuthorName,
		SourceURL:   r.SourceURL,
		Images:      images,
		BodyPreview: r.BodyPreview,
	}
}

// ThemeRequest selects a theme
type ThemeRequest struct {
	Theme string `json:"theme" enum:"light,dark"`
}
