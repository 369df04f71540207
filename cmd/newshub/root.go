// ABOUTME: Root cobra command and shared client lifecycle for every subcommand
// ABOUTME: Loads configuration, opens the newshub client before a command runs and closes it after

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"newshub-core/core/domain"
	"newshub-core/newshub"
	"newshub-core/pkg/config"
	timeutil "newshub-core/pkg/utils/time"

	"github.com/spf13/cobra"
)

// app carries state shared by the subcommands of one invocation
type app struct {
	configPath string
	quiet      bool

	cfg    *config.Config
	client *newshub.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "newshub",
		Short:         "Category news reader",
		Long:          "newshub fetches category news lists, searches them and keeps favorites and read history on this machine.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/newshub/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress log output")

	root.AddCommand(
		newVersionCmd(),
		a.newNewsCmd(),
		a.newShowCmd(),
		a.newSearchCmd(),
		a.newFavoritesCmd(),
		a.newHistoryCmd(),
		a.newThemeCmd(),
		a.newCacheCmd(),
		a.newServeCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newshub %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// open loads configuration and creates the client
func (a *app) open() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	options := []newshub.Option{newshub.WithAppConfig(cfg)}
	if a.quiet {
		options = append(options, newshub.WithQuietMode())
	}
	client, err := newshub.NewClient(options...)
	if err != nil {
		return fmt.Errorf("starting client: %w", err)
	}

	a.cfg = cfg
	a.client = client
	return nil
}

func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

// run wraps a command body with the client lifecycle
func (a *app) run(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.open(); err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); err == nil {
				err = cerr
			}
		}()
		return fn(a.client.Context(cmd.Context()), cmd, args)
	}
}

// printArticles writes one block per article with read and favorite markers
func (a *app) printArticles(ctx context.Context, w io.Writer, articles []domain.Article) {
	s := a.client.Session()
	for _, article := range articles {
		marker := " "
		switch {
		case s.IsFavorite(article.ID):
			marker = "★"
		case s.IsRead(ctx, article.ID):
			marker = "✓"
		}
		fmt.Fprintf(w, "%s %s  %s\n", marker, article.ID, article.Title)
		fmt.Fprintf(w, "    %s", article.Category)
		if article.AuthorName != "" {
			fmt.Fprintf(w, " · %s", article.AuthorName)
		}
		fmt.Fprintf(w, " · %s\n", timeutil.FormatRelative(article.PublishedAt, time.Now()))
	}
}
