// Command venuelink links equivalent prediction-market listings between
// Kalshi and Polymarket. It loads configuration, wires dependencies, and
// dispatches one of the subcommands: match, classify, sync, validate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pmxlabs/venuelink/internal/app"
	"github.com/pmxlabs/venuelink/internal/config"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: venuelink <command> [flags]

commands:
  match      run the linking engine and report per-stage counts
  classify   classify a single market title (debugging aid)
  sync       refresh open markets from both venues into the store
  validate   run the external validator over suggested links

run "venuelink <command> -h" for command flags
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var run func(ctx context.Context, a *app.App) error
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "path to configuration file")

	switch cmd {
	case "match":
		source := fs.String("source", "", "source venue (default from config)")
		target := fs.String("target", "", "target venue (default from config)")
		topic := fs.String("topic", "", "restrict the run to one topic")
		lookbackHours := fs.Int("lookback-hours", 0, "market freshness window in hours (default from config)")
		threshold := fs.Float64("threshold", 0, "score floor for links in the report table")
		apply := fs.Bool("apply", false, "persist link decisions (default is a dry run)")
		run = func(ctx context.Context, a *app.App) error {
			return a.Match(ctx, app.MatchOptions{
				SourceVenue: *source,
				TargetVenue: *target,
				Topic:       *topic,
				Lookback:    time.Duration(*lookbackHours) * time.Hour,
				Threshold:   *threshold,
				Apply:       *apply,
			})
		}
	case "classify":
		venue := fs.String("venue", "", "venue hint (kalshi or polymarket)")
		title := fs.String("title", "", "market title to classify")
		category := fs.String("category", "", "venue category hint")
		run = func(ctx context.Context, a *app.App) error {
			return a.Classify(ctx, *venue, *title, *category)
		}
	case "sync":
		run = func(ctx context.Context, a *app.App) error {
			return a.Sync(ctx)
		}
	case "validate":
		run = func(ctx context.Context, a *app.App) error {
			return a.Validate(ctx)
		}
	default:
		usage()
		os.Exit(2)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	// Setup structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Set log level from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("venuelink starting",
		slog.String("command", cmd),
		slog.String("config", *configPath),
	)

	// Setup signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := app.Wire(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to wire dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	application := app.New(cfg, deps, logger)
	if err := run(ctx, application); err != nil {
		// context.Canceled is expected on clean shutdown.
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted, shutting down")
			return
		}
		logger.Error("command failed",
			slog.String("command", cmd),
			slog.String("error", err.Error()),
		)
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		cleanup()
		os.Exit(1)
	}

	logger.Info("venuelink finished", slog.String("command", cmd))
}
