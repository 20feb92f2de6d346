package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lectoria/lectoria/internal/config"
	"github.com/lectoria/lectoria/internal/infra"
	"github.com/lectoria/lectoria/internal/logging"
	"github.com/lectoria/lectoria/internal/mail"
	"github.com/lectoria/lectoria/internal/media"
	"github.com/lectoria/lectoria/internal/routes"
	"github.com/lectoria/lectoria/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	deps := routes.Deps{}

	if cfg.DatabaseURL != "" {
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		deps.DB = db
	}

	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
	}

	if cfg.S3.Bucket != "" {
		store, err := media.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			logger.Error("build media storage", "error", err)
			os.Exit(1)
		}
		deps.Media = store
	} else {
		logger.Warn("no media storage configured, using in-memory store")
		deps.Media = media.NewMemoryStorage()
	}

	if mailer, err := mail.NewSMTPMailer(cfg.SMTP); err == nil {
		deps.Mailer = mailer
	} else {
		logger.Warn("smtp not configured, mail goes to the log")
		deps.Mailer = mail.NewLogMailer(logger)
	}

	srv, err := server.New(cfg, deps, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
