package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"moodmate/internal/app"
	"moodmate/internal/config"
	"moodmate/internal/logging"
	"moodmate/internal/mcpserver"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	// zap writes to stderr, stdout is reserved for the protocol.
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init components", zap.Error(err))
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "moodmate-mcp",
		Version: "1.0.0",
	}, nil)
	mcpserver.New(a.Classifier, a.Catalog, a.Handler, logger).Register(server)

	logger.Info("starting mcp server on stdin/stdout")
	transport := mcp.NewStdioTransport()
	if err := server.Run(ctx, transport); err != nil {
		logger.Fatal("mcp server failed", zap.Error(err))
	}
}
