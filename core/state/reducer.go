package state

import "newshub-core/core/domain"

// Reduce returns the state after applying a. It never modifies s or anything s
// references; slices and maps that change are copied. Unknown actions return s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetTheme:
		s.Theme = a.Theme

	case ToggleTheme:
		if s.Theme == ThemeDark {
			s.Theme = ThemeLight
		} else {
			s.Theme = ThemeDark
		}

	case SetCurrentCategory:
		s.CurrentCategory = a.Category
		s.Error = nil

	case SetNewsData:
		s.NewsByCategory = withCategory(s.NewsByCategory, a.Category, domain.CloneArticles(nonNil(a.Articles)))
		s.Loading = false
		s.Error = nil

	case AppendNewsData:
		existing := s.NewsByCategory[a.Category]
		merged := make([]domain.Article, 0, len(existing)+len(a.Articles))
		merged = append(merged, existing...)
		merged = append(merged, domain.CloneArticles(a.Articles)...)
		s.NewsByCategory = withCategory(s.NewsByCategory, a.Category, merged)
		s.Loading = false
		s.Error = nil

	case SetLoading:
		s.Loading = a.Loading

	case SetError:
		msg := a.Message
		s.Error = &msg
		s.Loading = false

	case ClearError:
		s.Error = nil

	case SetSearchKeyword:
		s.SearchKeyword = a.Keyword

	case SetSearchResults:
		s.SearchResults = domain.CloneArticles(nonNil(a.Articles))
		s.SearchLoading = false

	case SetSearchLoading:
		s.SearchLoading = a.Loading

	case SetSearchError:
		msg := a.Message
		s.Error = &msg
		s.SearchResults = []domain.Article{}
		s.SearchLoading = false

	case ClearSearch:
		s.SearchKeyword = ""
		s.SearchResults = []domain.Article{}
		s.SearchLoading = false

	case SetFavorites:
		favorites := domain.CloneFavorites(a.Favorites)
		if favorites == nil {
			favorites = []domain.FavoriteRecord{}
		}
		s.Favorites = favorites

	case AddFavorite:
		favorites := make([]domain.FavoriteRecord, 0, len(s.Favorites)+1)
		favorites = append(favorites, domain.CloneFavorites([]domain.FavoriteRecord{a.Record})...)
		favorites = append(favorites, s.Favorites...)
		s.Favorites = favorites

	case RemoveFavorite:
		favorites := make([]domain.FavoriteRecord, 0, len(s.Favorites))
		for _, f := range s.Favorites {
			if f.ID != a.ID {
				favorites = append(favorites, f)
			}
		}
		s.Favorites = favorites

	case ToggleSidebar:
		s.SidebarOpen = !s.SidebarOpen

	case SetShowScrollTop:
		s.ShowScrollTop = a.Show

	case SetPagination:
		if a.Page != nil {
			s.Pagination.Page = *a.Page
		}
		if a.HasMore != nil {
			s.Pagination.HasMore = *a.HasMore
		}

	case ResetPagination:
		s.Pagination = FirstPage()
	}

	return s
}

func withCategory(m map[string][]domain.Article, category string, articles []domain.Article) map[string][]domain.Article {
	out := make(map[string][]domain.Article, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[category] = articles
	return out
}

func nonNil(articles []domain.Article) []domain.Article {
	if articles == nil {
		return []domain.Article{}
	}
	return articles
}
