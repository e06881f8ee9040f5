package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/belphemur/capacity-planner/internal/cli"
	"github.com/belphemur/capacity-planner/internal/config"
	"github.com/belphemur/capacity-planner/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	isDev := os.Getenv("ENV") != "production"
	logging.Initialize(os.Stderr, isDev)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	logger := logging.GetLogger("main")

	// An empty path runs on defaults and PLANNER_ environment overrides
	configPath := os.Getenv("CONFIG_FILE")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Err(err).Str("config_path", configPath).Msg("Failed to load configuration")
		return err
	}

	level := logging.SetLogLevel(cfg.Service.LogLevel)
	logger.Debug().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", date).
		Str("log_level", level.String()).
		Msg("Starting capacity planner")

	app, err := cli.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	root := cli.NewRootCmd(app)
	root.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
