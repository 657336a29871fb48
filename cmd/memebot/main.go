// Package main provides the memebot entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/qepting91/memebot/internal/bot"
	"github.com/qepting91/memebot/internal/collector"
	"github.com/qepting91/memebot/internal/config"
	"github.com/qepting91/memebot/internal/dashboard"
	"github.com/qepting91/memebot/internal/domain"
	"github.com/qepting91/memebot/internal/ingest"
	"github.com/qepting91/memebot/internal/memes"
	"github.com/qepting91/memebot/internal/storage"
)

var version = "1.0.0"

func main() {
	godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "memebot",
		Short:        "Discord bot that posts fresh memes from Reddit",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newFetchCmd())
	return rootCmd
}

// loadConfig reads the environment and applies the subreddit file override.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if cfg.SubredditsFile != "" {
		subs, err := ingest.LoadSubreddits(cfg.SubredditsFile)
		if err != nil {
			return nil, err
		}
		if len(subs) > 0 {
			cfg.Subreddits = subs
		}
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve meme commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
}

func run(parent context.Context, cfg *config.Config) error {
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := collector.NewCollector(cfg)
	if err != nil {
		return fmt.Errorf("initialize collector: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("error closing reddit client", "err", err)
		} else {
			logger.Info("reddit client closed")
		}
	}()
	logger.Info("collector initialized", "mode", cfg.CollectorMode, "subreddits", len(cfg.Subreddits))

	engine := memes.NewEngine(client, memes.WithDefaultSubreddits(cfg.Subreddits), memes.WithLogger(logger))

	commands := &bot.Commands{
		Source:   engine,
		Prefix:   cfg.DiscordPrefix,
		MaxMemes: cfg.MaxMemesPerRequest,
		Pause:    time.Second,
		Logger:   logger,
	}
	if cfg.HistoryFile != "" {
		recorder := storage.NewRecorder(cfg.HistoryFile, logger)
		defer recorder.Close()
		commands.History = recorder.Record
	}

	b, err := bot.New(cfg.DiscordToken, commands, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(gctx) })
	if cfg.DashboardPort != "" && cfg.HistoryFile != "" {
		g.Go(func() error {
			logger.Info("starting dashboard", "port", cfg.DashboardPort)
			if err := dashboard.StartServer(gctx, cfg.HistoryFile, cfg.DashboardPort); err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			return nil
		})
	}

	err = g.Wait()
	logger.Info("bot shutdown complete")
	return err
}

func newFetchCmd() *cobra.Command {
	var (
		random     bool
		trending   bool
		subreddits []string
		count      int
	)

	cmd := &cobra.Command{
		Use:   "fetch [keyword]",
		Short: "Fetch memes once and print them as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if random && trending {
				return errors.New("--random and --trending are mutually exclusive")
			}
			var keyword string
			if len(args) == 1 {
				keyword = args[0]
			}
			if keyword == "" && !random && !trending {
				trending = true
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := collector.NewCollector(cfg)
			if err != nil {
				return fmt.Errorf("initialize collector: %w", err)
			}
			defer client.Close()

			engine := memes.NewEngine(client, memes.WithDefaultSubreddits(cfg.Subreddits))
			ctx := cmd.Context()

			var result []domain.Meme
			switch {
			case random:
				result, err = engine.FetchRandom(ctx, count, subreddits)
			case trending:
				result, err = engine.Trending(ctx, count)
			default:
				result, err = engine.FetchByKeyword(ctx, keyword, subreddits, count)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&random, "random", false, "fetch random memes")
	cmd.Flags().BoolVar(&trending, "trending", false, "fetch trending memes from the default subreddits")
	cmd.Flags().StringArrayVarP(&subreddits, "subreddit", "s", nil, "subreddit to search (repeatable)")
	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of memes to return")

	return cmd
}
