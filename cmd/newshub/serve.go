// ABOUTME: Cache maintenance and API bridge subcommands
// ABOUTME: serve runs the local JSON bridge until interrupted, then shuts down gracefully

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"newshub-core/api"
	"newshub-core/core/domain"
	coreerrors "newshub-core/core/errors"
	"newshub-core/core/interfaces"

	"github.com/spf13/cobra"
)

func (a *app) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the response cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show response cache statistics",
			Args:  cobra.NoArgs,
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				stats, err := a.client.News().CacheStats(ctx)
				if err != nil {
					return fmt.Errorf("reading stats: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\n", a.cfg.Cache.Type)
				fmt.Fprintf(cmd.OutOrStdout(), "Entries: %d\n", stats.Entries)
				for _, key := range stats.Keys {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", key)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear [category]",
			Short: "Drop cached pages of one category, or all of them",
			Args:  cobra.MaximumNArgs(1),
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				category := ""
				if len(args) == 1 {
					category = args[0]
					if !domain.IsKnownCategory(category) {
						return fmt.Errorf("unknown category %q", category)
					}
				}
				if err := a.client.News().ClearCache(ctx, category); err != nil {
					return fmt.Errorf("clearing cache: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "缓存已清除")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "warm [category...]",
			Short: "Prefetch the first page of categories, all of them by default",
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				categories := args
				for _, c := range categories {
					if !domain.IsKnownCategory(c) {
						return fmt.Errorf("unknown category %q", c)
					}
				}
				if len(categories) == 0 {
					categories = strings.Split(categoryKeys(), ", ")
				}

				failed := 0
				for _, r := range a.client.Prefetch(ctx, categories...) {
					switch {
					case r.Err != nil:
						failed++
						fmt.Fprintf(cmd.OutOrStdout(), "✗ %s  %s\n", r.Category, coreerrors.UserMessage(r.Err, coreerrors.MsgAPIError))
					case r.FromCache:
						fmt.Fprintf(cmd.OutOrStdout(), "✓ %s  %d篇 (缓存)\n", r.Category, r.Articles)
					default:
						fmt.Fprintf(cmd.OutOrStdout(), "✓ %s  %d篇\n", r.Category, r.Articles)
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d categories failed to load", failed)
				}
				return nil
			}),
		},
	)
	return cmd
}

func (a *app) newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local JSON API bridge",
		Long:  "Serve the news session over HTTP. OpenAPI docs are at /docs.",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if port == "" {
				port = a.cfg.Server.Port
			}

			_, router := api.New(a.client, api.Config{
				RateLimit: a.cfg.Server.RateLimit,
				RateBurst: int(a.cfg.Server.RateLimit),
			})

			srv := &http.Server{
				Addr:         ":" + port,
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			return serve(ctx, srv, a.client.Logger())
		}),
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default from config)")
	return cmd
}

// serve runs srv until ctx ends or SIGINT/SIGTERM arrives
func serve(ctx context.Context, srv *http.Server, logger interfaces.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped", nil)
	return nil
}
