package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/bcard-client/internal/app/stub"
	"github.com/magabrotheeeer/bcard-client/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting bcard stub API", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := stub.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize stub", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("stub stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("stub stopped gracefully")
}
