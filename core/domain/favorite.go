// ABOUTME: FavoriteRecord domain model is a saved snapshot of an article
// ABOUTME: The snapshot is a copy so later changes to the source never leak into a saved favorite

package domain

import "time"

// FavoriteRecord is an article saved by the user
type FavoriteRecord struct {
	Article

	// FavoritedAt is when the user saved the article
	FavoritedAt time.Time `json:"favoritedAt"`
}

// NewFavoriteRecord snapshots article at the given time
func NewFavoriteRecord(article Article, at time.Time) FavoriteRecord {
	return FavoriteRecord{
		Article:     article.Clone(),
		FavoritedAt: at,
	}
}

// CloneFavorites deep-copies a slice of favorite records
func CloneFavorites(records []FavoriteRecord) []FavoriteRecord {
	if records == nil {
		return nil
	}
	out := make([]FavoriteRecord, len(records))
	for i, r := range records {
		out[i] = FavoriteRecord{Article: r.Article.Clone(), FavoritedAt: r.FavoritedAt}
	}
	return out
}
