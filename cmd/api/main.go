package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"hoteldesk/internal/config"
	"hoteldesk/internal/pkg/logger"
	"hoteldesk/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	app, err := server.New(cfg, zl)
	if err != nil {
		zl.Fatal("failed to start", "data_file", cfg.DataFile, "error", err)
	}

	srv := app.HTTPServer()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("http server listening", "addr", cfg.HTTPAddr, "env", cfg.AppEnv, "data_file", app.Repo.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", "error", err)
	}
}
