// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

// Command server runs the honse.moe backend API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/honsemoe/backend/internal/api"
	"github.com/honsemoe/backend/internal/cache"
	"github.com/honsemoe/backend/internal/config"
	"github.com/honsemoe/backend/internal/database"
	"github.com/honsemoe/backend/internal/logging"
	"github.com/honsemoe/backend/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	responseCache := cache.New(cfg.Cache.Capacity)

	handler := api.NewHandler(db, responseCache, cfg)
	chiMw := api.NewChiMiddleware(cfg.Security)
	turnstile := middleware.NewTurnstile(cfg.Turnstile, responseCache)
	router := api.NewRouter(handler, chiMw, turnstile)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", srv.Addr).
			Str("version", api.Version).
			Bool("turnstile", cfg.Turnstile.Enabled).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}
