// ABOUTME: News subcommands: list a category, show one article and search
// ABOUTME: Each command drives the client session the same way the API bridge does

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newshub-core/core/domain"
	coreerrors "newshub-core/core/errors"

	"github.com/spf13/cobra"
)

func (a *app) newNewsCmd() *cobra.Command {
	var (
		pages   int
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "news [category]",
		Short: "List the latest articles of a category",
		Long: `List the first page of a category, or several pages with --pages.

Categories: ` + categoryKeys(),
		Args: cobra.MaximumNArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			category := domain.DefaultCategory
			if len(args) == 1 {
				category = args[0]
			}
			if !domain.IsKnownCategory(category) {
				return fmt.Errorf("unknown category %q (want one of %s)", category, categoryKeys())
			}

			s := a.client.Session()
			if err := s.FetchNews(ctx, category, refresh); err != nil {
				return errors.New(s.ErrorMessage())
			}
			for i := 1; i < pages && s.Pagination().HasMore; i++ {
				if err := s.LoadMoreNews(ctx, category); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), s.LoadMoreError())
					break
				}
			}

			articles := s.Articles(category)
			fmt.Fprintf(cmd.OutOrStdout(), "%s · %d篇\n", domain.CategoryLabel(category), len(articles))
			a.printArticles(ctx, cmd.OutOrStdout(), articles)
			if !s.Pagination().HasMore {
				fmt.Fprintln(cmd.OutOrStdout(), "没有更多了")
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to load")
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "bypass the response cache")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <article-id>",
		Short: "Show one article and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			article, err := a.client.News().GetDetail(ctx, args[0])
			if err != nil {
				return errors.New(coreerrors.UserMessage(err, coreerrors.MsgDetailError))
			}
			a.client.Session().MarkAsRead(ctx, article.ID)

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, article.Title)
			fmt.Fprintf(w, "%s · %s\n", article.Category, article.PublishedAt.Local().Format("2006-01-02 15:04"))
			if article.AuthorName != "" {
				fmt.Fprintf(w, "作者：%s\n", article.AuthorName)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, article.BodyPreview)
			for _, img := range article.Images {
				fmt.Fprintf(w, "图片：%s\n", img)
			}
			fmt.Fprintf(w, "原文：%s\n", article.SourceURL)
			return nil
		}),
	}
}

func (a *app) newSearchCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search article titles and authors",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			if strings.TrimSpace(keyword) == "" {
				return errors.New("搜索关键词不能为空")
			}
			if !domain.IsKnownCategory(category) {
				return fmt.Errorf("unknown category %q", category)
			}

			s := a.client.Session()
			if err := s.SearchNewsIn(ctx, keyword, category); err != nil {
				return errors.New(s.ErrorMessage())
			}

			results := s.SearchResults()
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "没有找到与“%s”相关的新闻\n", strings.TrimSpace(keyword))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "找到 %d 条结果\n", len(results))
			a.printArticles(ctx, cmd.OutOrStdout(), results)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&category, "category", "c", domain.DefaultCategory, "category to search")
	return cmd
}

func categoryKeys() string {
	keys := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		keys = append(keys, c.Key)
	}
	return strings.Join(keys, ", ")
}
