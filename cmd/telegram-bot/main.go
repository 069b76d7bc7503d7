package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/medlane/prediag-backend/internal/builder"
	"go.uber.org/zap"
)

func main() {
	bot, logger, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bot.Start(ctx); err != nil {
		logger.Fatal("Failed to start telegram bot", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	cancel()
	if err := bot.Stop(); err != nil {
		logger.Error("Telegram bot shutdown error", zap.Error(err))
		os.Exit(1)
	}
}
