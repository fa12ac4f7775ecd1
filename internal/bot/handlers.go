package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/config"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/stats"
	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/format"
	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

// Handler owns the dispatch of inbound updates. Exactly one path consumes a
// given update: callback, known command, unknown command, or plain text.
type Handler struct {
	api   API
	chain Resolver
	stats *stats.Aggregator
	cfg   *config.Config
}

func NewHandler(api API, chain Resolver, agg *stats.Aggregator, cfg *config.Config) *Handler {
	return &Handler{api: api, chain: chain, stats: agg, cfg: cfg}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		msg := update.Message
		if msg.IsCommand() {
			h.handleCommand(ctx, msg)
		} else {
			h.handleText(ctx, msg)
		}
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		if !h.requireMembership(msg.Chat.ID, msg.From.ID) {
			return
		}
		h.sendMarkdown(msg.Chat.ID, welcomeText)
	case "help":
		if !h.requireMembership(msg.Chat.ID, msg.From.ID) {
			return
		}
		h.sendMarkdown(msg.Chat.ID, helpText)
	case "support":
		h.sendMarkdown(msg.Chat.ID, supportText)
	case "batch":
		h.sendMarkdown(msg.Chat.ID, batchText)
	case "stats":
		if !h.requireMembership(msg.Chat.ID, msg.From.ID) {
			return
		}
		h.handleStats(msg)
	case "audio":
		if !h.requireMembership(msg.Chat.ID, msg.From.ID) {
			return
		}
		h.handleAudio(ctx, msg)
	default:
		h.sendText(msg.Chat.ID, "❌ Unknown command. Type /help to see what I can do.")
	}
}

// handleText routes a plain message through URL detection once. Messages
// without a URL are ignored.
func (h *Handler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	urls := platform.FindURLs(msg.Text)
	if len(urls) == 0 {
		return
	}
	if !h.requireMembership(msg.Chat.ID, msg.From.ID) {
		return
	}

	if len(urls) > 1 {
		h.runBatch(ctx, msg.Chat.ID, msg.From.ID, urls, false)
		return
	}

	url := urls[0]
	// A bare YouTube link gets the quality picker; everything else resolves
	// straight to delivery.
	if platform.Classify(url) == platform.YouTube {
		if err := h.promptQuality(ctx, msg.Chat.ID, msg.From.ID, url); err != nil {
			logger.Error("Quality prompt failed", "error", err)
		}
		return
	}

	if err := h.retrieve(ctx, msg.Chat.ID, msg.From.ID, url, false); err != nil {
		logger.Warn("Download failed", "url", url, "error", err)
	}
}

func (h *Handler) handleAudio(ctx context.Context, msg *tgbotapi.Message) {
	urls := platform.FindURLs(msg.CommandArguments())
	if len(urls) == 0 {
		h.sendText(msg.Chat.ID, "❌ Usage: /audio <url>\nExample: /audio https://youtu.be/dQw4w9WgXcQ")
		return
	}

	if len(urls) > 1 {
		h.runBatch(ctx, msg.Chat.ID, msg.From.ID, urls, true)
		return
	}

	if err := h.retrieve(ctx, msg.Chat.ID, msg.From.ID, urls[0], true); err != nil {
		logger.Warn("Audio download failed", "url", urls[0], "error", err)
	}
}

func (h *Handler) handleStats(msg *tgbotapi.Message) {
	snap := h.stats.Snapshot()
	sys := stats.CollectSystemInfo()

	lastDownload := "never"
	if !snap.LastUpdated.IsZero() {
		lastDownload = snap.LastUpdated.UTC().Format("2006-01-02 15:04:05 UTC")
	}

	text := fmt.Sprintf(statsTemplate,
		snap.Total,
		snap.PerPlatform[platform.YouTube],
		snap.PerPlatform[platform.Instagram],
		snap.PerPlatform[platform.TikTok],
		snap.PerPlatform[platform.Twitter],
		snap.Video, snap.Audio,
		snap.UniqueUsers,
		lastDownload,
		sys.OS, sys.CPUCores, sys.CPUUsage,
		format.FileSize(int64(sys.MemUsed)), format.FileSize(int64(sys.MemTotal)),
		snap.Uptime.Round(time.Second),
	)
	h.sendMarkdown(msg.Chat.ID, text)
}

func (h *Handler) sendText(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Error("Send failed", "error", err)
	}
}

// sendMarkdown falls back to plain text when the transport rejects the
// markup, so formatting problems never swallow a message.
func (h *Handler) sendMarkdown(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.api.Send(m); err != nil {
		logger.Warn("Markdown send failed, retrying as plain text", "error", err)
		h.sendText(chatID, text)
	}
}

func (h *Handler) edit(chatID int64, messageID int, text string) {
	if _, err := h.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		logger.Error("Edit failed", "error", err)
	}
}
