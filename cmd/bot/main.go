package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/config"
	"github.com/terraquiz/terraquiz/internal/logger"
	"github.com/terraquiz/terraquiz/internal/telegram"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.TelegramBotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN is not set")
	}

	bot, err := telegram.New(cfg.TelegramBotToken, cfg.QuizServerURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Telegram bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("server", cfg.QuizServerURL).Msg("Starting TerraQuiz Telegram bot")
	bot.Start(ctx)

	log.Info().Msg("Bot stopped")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
