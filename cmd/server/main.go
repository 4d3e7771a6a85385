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

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/tendant/fixture-content/pkg/fixturecontent/config"
	"github.com/tendant/fixture-content/pkg/fixturecontent/loader"
)

// Config holds the server settings read from the environment. Fixture
// settings are read by config.WithEnv.
type Config struct {
	Host          string        `env:"HOST" env-default:"0.0.0.0"`
	Port          uint16        `env:"PORT" env-default:"8080"`
	Environment   string        `env:"ENVIRONMENT" env-default:"development"`
	Watch         bool          `env:"FIXTURE_WATCH" env-default:"false"`
	WatchDebounce time.Duration `env:"FIXTURE_WATCH_DEBOUNCE" env-default:"500ms"`
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("No .env file found or error loading it, using default values", "err", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read server configuration", "err", err)
		os.Exit(1)
	}

	fixtureConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load fixture configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := fixtureConfig.BuildProvider(ctx)
	if err != nil {
		slog.Error("Failed to build fixture provider", "err", err)
		os.Exit(1)
	}
	slog.Info("Fixture data loaded", "items", provider.Len(), "sources", fixtureConfig.Sources)

	if cfg.Watch {
		dirs := loader.Directories(fixtureConfig.Sources)
		if len(dirs) == 0 {
			slog.Warn("Fixture watch enabled but no directory sources configured")
		} else {
			go func() {
				err := loader.Watch(ctx, dirs, cfg.WatchDebounce, func() {
					provider.Reload(ctx)
				})
				if err != nil {
					slog.Error("Fixture watch stopped", "err", err)
				}
			}()
			slog.Info("Watching fixture directories", "dirs", dirs)
		}
	}

	server := NewHTTPServer(provider, cfg, fixtureConfig)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: server.Routes(),
	}

	go func() {
		slog.Info("Fixture server starting", "addr", httpServer.Addr, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}
