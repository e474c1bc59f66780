package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"disability-jobs/internal/app"
	"disability-jobs/internal/config"
	"disability-jobs/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init container")
	}

	bootstrap, cleanup, err := app.Bootstrap(ctx, c)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap app")
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Warn().Err(err).Msg("cleanup error")
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		logger.Error().Err(err).Msg("invalid HTTP port")
		return
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bootstrap.Fiber.Listen(addr)
	}()
	logger.Info().Str("addr", addr).Str("env", cfg.App.Environment).Msg("server listening")

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("shutdown error")
		}
		logger.Info().Msg("server stopped")
	}
}
