package domain

import (
	"testing"
	"time"
)

func TestArticle_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		article  Article
		expected bool
	}{
		{
			name:     "valid article with all required fields",
			article:  Article{ID: "news_1_top", Title: "Test Article"},
			expected: true,
		},
		{
			name:     "invalid article with empty title",
			article:  Article{ID: "news_1_top"},
			expected: false,
		},
		{
			name:     "invalid article with empty id",
			article:  Article{Title: "Test Article"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.article.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestArticle_HasMultipleImages(t *testing.T) {
	single := Article{Images: []string{"https://a"}}
	multi := Article{Images: []string{"https://a", "https://b"}}

	if single.HasMultipleImages() {
		t.Error("single image should not report multiple images")
	}
	if !multi.HasMultipleImages() {
		t.Error("two images should report multiple images")
	}
	if (&Article{}).Thumbnail() != "" {
		t.Error("Thumbnail of an article without images should be empty")
	}
	if multi.Thumbnail() != "https://a" {
		t.Errorf("Thumbnail = %q, want first image", multi.Thumbnail())
	}
}

func TestNewFavoriteRecord_IsSnapshot(t *testing.T) {
	source := Article{ID: "news_1_top", Title: "Original", Images: []string{"https://a"}}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	record := NewFavoriteRecord(source, at)
	source.Title = "Changed"
	source.Images[0] = "https://changed"

	if record.Title != "Original" {
		t.Errorf("favorite title changed with source: %q", record.Title)
	}
	if record.Images[0] != "https://a" {
		t.Errorf("favorite images share storage with source: %q", record.Images[0])
	}
	if !record.FavoritedAt.Equal(at) {
		t.Errorf("FavoritedAt = %v, want %v", record.FavoritedAt, at)
	}
}

func TestCategoryLabel(t *testing.T) {
	if len(Categories) != 9 {
		t.Fatalf("taxonomy has %d entries, want 9", len(Categories))
	}
	if got := CategoryLabel(CategoryKeji); got != "科技" {
		t.Errorf("CategoryLabel(keji) = %q", got)
	}
	if got := CategoryLabel("unknown"); got != "头条" {
		t.Errorf("CategoryLabel(unknown) = %q, want top label", got)
	}
	if IsKnownCategory("unknown") {
		t.Error("unknown should not be a known category")
	}
	if !IsKnownCategory(CategoryShishang) {
		t.Error("shishang should be a known category")
	}
}
