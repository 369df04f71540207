// ABOUTME: Library subcommands for favorites, search and read history, and the theme
// ABOUTME: Everything persists through the configured storage backend between runs

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	coreerrors "newshub-core/core/errors"
	"newshub-core/core/favorites"
	"newshub-core/core/state"
	timeutil "newshub-core/pkg/utils/time"

	"github.com/spf13/cobra"
)

func (a *app) newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorites"},
		Short:   "Manage saved articles",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved articles, most recent first",
			Args:  cobra.NoArgs,
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				records := a.client.Session().Favorites()
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "暂无收藏")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "收藏 · %d篇\n", len(records))
				for _, r := range records {
					fmt.Fprintf(cmd.OutOrStdout(), "★ %s  %s\n    收藏于 %s\n", r.ID, r.Title, timeutil.FormatRelative(r.FavoritedAt, time.Now()))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "add <article-id>",
			Short: "Save an article",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				article, err := a.client.News().GetDetail(ctx, args[0])
				if err != nil {
					return errors.New(coreerrors.UserMessage(err, coreerrors.MsgDetailError))
				}
				return printFavoriteResult(cmd, article.ID, a.client.Session().AddFavorite(ctx, *article))
			}),
		},
		&cobra.Command{
			Use:     "rm <article-id>",
			Aliases: []string{"remove"},
			Short:   "Unsave an article",
			Args:    cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				s := a.client.Session()
				if !s.IsFavorite(args[0]) {
					return fmt.Errorf("%s is not a favorite", args[0])
				}
				return printFavoriteResult(cmd, args[0], s.RemoveFavorite(ctx, args[0]))
			}),
		},
		&cobra.Command{
			Use:   "toggle <article-id>",
			Short: "Save an article, or unsave it when already saved",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				s := a.client.Session()
				if s.IsFavorite(args[0]) {
					return printFavoriteResult(cmd, args[0], s.RemoveFavorite(ctx, args[0]))
				}
				article, err := a.client.News().GetDetail(ctx, args[0])
				if err != nil {
					return errors.New(coreerrors.UserMessage(err, coreerrors.MsgDetailError))
				}
				return printFavoriteResult(cmd, article.ID, s.ToggleFavorite(ctx, *article))
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Unsave every article",
			Args:  cobra.NoArgs,
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				a.client.Session().ClearFavorites(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "已清空收藏")
				return nil
			}),
		},
	)
	return cmd
}

func printFavoriteResult(cmd *cobra.Command, id string, result favorites.Result) error {
	switch result {
	case favorites.Added:
		fmt.Fprintf(cmd.OutOrStdout(), "已收藏 %s\n", id)
	case favorites.Removed:
		fmt.Fprintf(cmd.OutOrStdout(), "已取消收藏 %s\n", id)
	case favorites.AlreadyFavorite:
		fmt.Fprintf(cmd.OutOrStdout(), "%s 已在收藏中\n", id)
	}
	return nil
}

func (a *app) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and clear search and read history",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "search",
			Short: "List recent search keywords",
			Args:  cobra.NoArgs,
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				for _, kw := range a.client.Session().SearchHistory(ctx) {
					fmt.Fprintln(cmd.OutOrStdout(), kw)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "forget <keyword>",
			Short: "Remove one keyword from the search history",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				a.client.Session().RemoveSearchHistory(ctx, args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "read <article-id>",
			Short: "Check whether an article was read",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				if a.client.Session().IsRead(ctx, args[0]) {
					fmt.Fprintln(cmd.OutOrStdout(), "已读")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "未读")
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:       "clear [search|read]",
			Short:     "Clear search history, read history, or both",
			Args:      cobra.MaximumNArgs(1),
			ValidArgs: []string{"search", "read"},
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				s := a.client.Session()
				which := ""
				if len(args) == 1 {
					which = args[0]
				}
				switch which {
				case "search":
					s.ClearSearchHistory(ctx)
				case "read":
					s.ClearReadHistory(ctx)
				case "":
					s.ClearSearchHistory(ctx)
					s.ClearReadHistory(ctx)
				default:
					return fmt.Errorf("unknown history %q (want search or read)", which)
				}
				return nil
			}),
		},
	)
	return cmd
}

func (a *app) newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark|toggle]",
		Short: "Show or change the theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			s := a.client.Session()
			if len(args) == 1 {
				if args[0] == "toggle" {
					s.ToggleTheme(ctx)
				} else if err := s.SetTheme(ctx, state.Theme(args[0])); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Theme())
			return nil
		}),
	}
}
