// ABOUTME: Article domain model represents a normalized news item built from provider data
// ABOUTME: Articles are value types; once built by the news service they are never mutated

package domain

import "time"

// Article is a single news item
type Article struct {
	// ID is a stable identifier derived from the provider record and category
	ID string `json:"id"`

	// Title is the headline
	Title string `json:"title"`

	// PublishedAt is when the article was published
	PublishedAt time.Time `json:"publishedAt"`

	// Category is the display label of the category (e.g. "科技")
	Category string `json:"category"`

	// CategoryKey is the taxonomy key the article was fetched under (e.g. "keji")
	CategoryKey string `json:"categoryKey"`

	// AuthorName is optional
	AuthorName string `json:"authorName,omitempty"`

	// SourceURL links to the original article
	SourceURL string `json:"sourceUrl"`

	// Images holds https image URLs in display order, possibly empty
	Images []string `json:"images"`

	// BodyPreview is a plain-text excerpt of the body
	BodyPreview string `json:"bodyPreview"`
}

// IsValid checks if the article has all required fields
func (a *Article) IsValid() bool {
	if a.ID == "" {
		return false
	}

	if a.Title == "" {
		return false
	}

	return true
}

// HasMultipleImages reports whether the article carries more than one image
func (a *Article) HasMultipleImages() bool {
	return len(a.Images) > 1
}

// Thumbnail returns the first image or an empty string
func (a *Article) Thumbnail() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0]
}

// Clone returns a deep copy so the caller can hold it independently of the source
func (a Article) Clone() Article {
	if a.Images != nil {
		images := make([]string, len(a.Images))
		copy(images, a.Images)
		a.Images = images
	}
	return a
}

// CloneArticles deep-copies a slice of articles
func CloneArticles(articles []Article) []Article {
	if articles == nil {
		return nil
	}
	out := make([]Article, len(articles))
	for i, a := range articles {
		out[i] = a.Clone()
	}
	return out
}
