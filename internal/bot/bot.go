package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/config"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/middleware"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/stats"
	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

const (
	updateTimeout  = 60
	workerPoolSize = 100
	staleAfter     = 5 * time.Minute
)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
}

// New connects to Telegram. A connection failure here is fatal to the
// process; there is no recovery without a valid token.
func New(cfg *config.Config, chain Resolver, agg *stats.Aggregator) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("connect to Telegram failed: %w", err)
	}

	logger.Info("Bot connected to Telegram", "username", api.Self.UserName, "id", api.Self.ID)

	return &Bot{
		api:     api,
		handler: NewHandler(api, chain, agg, cfg),
	}, nil
}

// Run polls for updates until the context is cancelled. Each update is
// handled in its own goroutine, bounded by a semaphore; panics are contained
// per update and never reach the loop.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := b.api.GetUpdatesChan(u)

	sem := make(chan struct{}, workerPoolSize)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping update loop")
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil && update.CallbackQuery == nil {
				continue
			}
			if update.Message != nil && isStale(update.Message) {
				logger.Debug("Ignoring old message", "message", update.Message.MessageID)
				continue
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				return nil
			}

			go func(update tgbotapi.Update) {
				defer func() { <-sem }()
				middleware.Chain(
					func() { b.handler.HandleUpdate(ctx, update) },
					middleware.Recover,
					middleware.Logger("update"),
				)()
			}(update)
		}
	}
}

func isStale(msg *tgbotapi.Message) bool {
	return time.Since(time.Unix(int64(msg.Date), 0)) > staleAfter
}
