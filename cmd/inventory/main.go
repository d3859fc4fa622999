package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inventory-manager/internal/cli"
	"inventory-manager/internal/config"
	"inventory-manager/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine, the environment and defaults still apply
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log = logger.NewWithDefaults(cfg.App.Env)
		log.Warn("Ignoring logging configuration", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Debug("Starting inventory",
		zap.String("env", cfg.App.Env),
		zap.String("data_file", cfg.Storage.DataFile),
	)

	if err := cli.Execute(ctx, cfg, log); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}
