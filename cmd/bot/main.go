package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"moodmate/internal/app"
	"moodmate/internal/config"
	"moodmate/internal/logging"
	"moodmate/internal/scheduler"
	"moodmate/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.TelegramBotToken == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init components", zap.Error(err))
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		a.Handler,
		a.Speaker,
		a.Recognizer,
		cfg.AdminUserID,
		cfg.UserName,
		logger,
	)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	sched := scheduler.New(cfg.ReportCron, logger)
	if cfg.AdminUserID != 0 {
		sched.SetReportFunction(bot.SendDailyReport)
	}
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	bot.Start(ctx)
}
