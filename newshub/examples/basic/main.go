// ABOUTME: Basic example showing the NewsHub client driving a session
// ABOUTME: Demonstrates minimal configuration and common use cases

package main

import (
	"context"
	"fmt"
	"log"

	"newshub-core/newshub"
)

func main() {
	// Example 1: Create a client with default configuration
	client, err := newshub.NewClient(newshub.WithQuietMode())
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer client.Close()

	ctx := client.Context(context.Background())
	s := client.Session()

	// Example 2: Load the first page of a category
	fmt.Println("=== Top Stories ===")
	if err := s.FetchNews(ctx, "top", false); err != nil {
		log.Fatal(s.ErrorMessage())
	}
	articles := s.Articles("top")
	fmt.Printf("Loaded %d articles\n", len(articles))
	if len(articles) > 0 {
		fmt.Printf("Latest: %s\n", articles[0].Title)
	}

	// Example 3: Page through the category
	fmt.Println("\n=== Load More ===")
	if err := s.LoadMoreNews(ctx, "top"); err != nil {
		log.Printf("Load more failed: %s\n", s.LoadMoreError())
	}
	fmt.Printf("Now showing %d articles, more available: %v\n", len(s.Articles("top")), s.Pagination().HasMore)

	// Example 4: Warm other categories in the background
	fmt.Println("\n=== Prefetch ===")
	for _, r := range client.Prefetch(ctx, "keji", "tiyu") {
		fmt.Printf("- %s: %d articles (err=%v)\n", r.Category, r.Articles, r.Err)
	}

	// Example 5: Search and favorite the first hit
	fmt.Println("\n=== Search ===")
	if err := s.SearchNews(ctx, "qui"); err != nil {
		log.Printf("Search failed: %s\n", s.ErrorMessage())
	}
	results := s.SearchResults()
	fmt.Printf("Found %d results\n", len(results))
	if len(results) > 0 {
		s.ToggleFavorite(ctx, results[0])
		fmt.Printf("Favorited %s, favorites: %d\n", results[0].ID, len(s.Favorites()))
	}
	fmt.Printf("Recent searches: %v\n", s.SearchHistory(ctx))
}
