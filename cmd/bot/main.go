package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/bot"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/config"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/health"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/provider"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/stats"
	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ CRITICAL: %v", err)
	}
	logger.Init(cfg.LogLevel)

	srv := health.NewServer(cfg.Port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server failed", "error", err)
		}
	}()
	logger.Info("Health server listening", "port", cfg.Port)

	chain := provider.NewChain(cfg)
	agg := stats.New()

	b, err := bot.New(cfg, chain, agg)
	if err != nil {
		log.Fatalf("❌ Failed to start bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil {
		logger.Error("Bot stopped with error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health server shutdown failed", "error", err)
	}
	logger.Info("Shutdown complete")
}
