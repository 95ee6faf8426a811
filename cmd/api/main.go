package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocket/internal/app"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	pocketHttp "github.com/MrJamesThe3rd/pocket/internal/http"
	"github.com/MrJamesThe3rd/pocket/internal/http/auth"
	captureHandler "github.com/MrJamesThe3rd/pocket/internal/http/capture"
	categoriesHandler "github.com/MrJamesThe3rd/pocket/internal/http/categories"
	exportHandler "github.com/MrJamesThe3rd/pocket/internal/http/export"
	recordsHandler "github.com/MrJamesThe3rd/pocket/internal/http/records"
	syncHandler "github.com/MrJamesThe3rd/pocket/internal/http/sync"
	"github.com/MrJamesThe3rd/pocket/internal/logging"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := logging.Setup(cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	handlers := pocketHttp.Handlers{
		Records:    recordsHandler.NewHandler(a.Records),
		Capture:    captureHandler.NewHandler(a.Capture),
		Categories: categoriesHandler.NewHandler(a.Records),
		Sync:       syncHandler.NewHandler(a.Sync),
		Export:     exportHandler.NewHandler(a.Export),
	}

	var authenticator *auth.Authenticator
	if cfg.Auth.JWTSecret != "" {
		authenticator = auth.New(cfg.Auth.JWTSecret)
	} else {
		slog.Warn("JWT_SECRET is not set, the API is unauthenticated")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           pocketHttp.New(handlers, cfg.CORS.AllowedOrigins, authenticator),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr, "remote", cfg.Remote.Backend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
