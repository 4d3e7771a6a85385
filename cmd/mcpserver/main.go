package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tendant/fixture-content/internal/mcp"
	"github.com/tendant/fixture-content/pkg/fixturecontent/config"
)

type Config struct {
	Host    string `env:"HOST" env-default:"localhost"`
	Port    uint16 `env:"PORT" env-default:"8000"`
	BaseUrl string `env:"BASE_URL" env-default:"http://localhost:8000"`
}

func main() {
	// Server mode flags
	var mode = flag.String("mode", "stdio", "Server mode: 'stdio', 'sse', or 'http'")
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("No .env file found or error loading it, using default values", "err", err)
	}

	var cfg Config
	cleanenv.ReadEnv(&cfg)

	fixtureConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load fixture configuration", "err", err)
		os.Exit(1)
	}

	provider, err := fixtureConfig.BuildProvider(context.Background())
	if err != nil {
		slog.Error("Failed to build fixture provider", "err", err)
		os.Exit(1)
	}
	slog.Info("Fixture data loaded", "items", provider.Len())

	s := server.NewMCPServer(
		"Fixture Content Mcp",
		"1.0.0",
		server.WithResourceCapabilities(true, true),
	)

	handler := mcp.NewHandler(provider)
	handler.RegisterTools(s)

	switch *mode {
	case "sse":
		sseServer := server.NewSSEServer(s, server.WithBaseURL(cfg.BaseUrl))
		slog.Info("Starting SSE server", "base url", cfg.BaseUrl)
		if err := sseServer.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			slog.Error("Failed to start SSE server", "err", err)
			os.Exit(-1)
		}
	case "http":
		httpServer := server.NewStreamableHTTPServer(s)
		slog.Info("HTTP server listening", "port", cfg.Port)
		if err := httpServer.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			slog.Error("Server error", "err", err)
			os.Exit(-1)
		}
	default:
		slog.Info("Starting in stdio mode")
		if err := server.ServeStdio(s); err != nil {
			slog.Error("Failed to start stdio server", "err", err)
			os.Exit(-1)
		}
	}
}
