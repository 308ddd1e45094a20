// Command hamqrzdb-api serves callsign lookups from a previously ingested
// store, in the hamdb response shape.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chriskacerguis/hamqrzdb/internal/adapter/httpapi"
	"github.com/chriskacerguis/hamqrzdb/internal/config"
	"github.com/chriskacerguis/hamqrzdb/internal/observability"
	"github.com/chriskacerguis/hamqrzdb/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	st, err := store.Open(cfg.StoreBackend, cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, st, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := st.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
