package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/provider"
	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

// The whole selection state lives in the callback payload: "dl:<mode>:<id>".
// Encoding only the 11-char video ID keeps the payload inside Telegram's
// 64-byte callback-data limit and makes the flow restart-safe.
const (
	callbackTag = "dl"
	modeVideo   = "v"
	modeAudio   = "a"
)

func encodeChoice(mode, videoID string) string {
	return callbackTag + ":" + mode + ":" + videoID
}

func decodeChoice(data string) (audioOnly bool, videoID string, err error) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[0] != callbackTag {
		return false, "", fmt.Errorf("unrecognized callback payload %q", data)
	}
	switch parts[1] {
	case modeVideo:
		audioOnly = false
	case modeAudio:
		audioOnly = true
	default:
		return false, "", fmt.Errorf("unknown mode %q", parts[1])
	}
	if !provider.ValidVideoID(parts[2]) {
		return false, "", fmt.Errorf("malformed video ID %q", parts[2])
	}
	return audioOnly, parts[2], nil
}

// promptQuality offers the video/audio picker for a YouTube link. If no
// video ID can be extracted the link skips the picker and downloads as
// video directly.
func (h *Handler) promptQuality(ctx context.Context, chatID, userID int64, rawURL string) error {
	id, err := provider.ExtractVideoID(rawURL)
	if err != nil {
		logger.Debug("No video ID for quality prompt, downloading directly", "url", rawURL)
		return h.retrieve(ctx, chatID, userID, rawURL, false)
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Best Video", encodeChoice(modeVideo, id)),
			tgbotapi.NewInlineKeyboardButtonData("🎵 Audio (MP3)", encodeChoice(modeAudio, id)),
		),
	)

	m := tgbotapi.NewMessage(chatID, "🎚 How do you want this one?")
	m.ReplyMarkup = keyboard
	_, err = h.api.Send(m)
	return err
}

// handleCallback resumes a pending quality choice. The payload is validated
// on receipt; a bad one gets a fresh failure message, never a crash.
func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := h.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		logger.Debug("Answer callback failed", "error", err)
	}
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID

	if !h.requireMembership(chatID, cq.From.ID) {
		return
	}

	audioOnly, id, err := decodeChoice(cq.Data)
	if err != nil {
		logger.Warn("Bad callback payload", "data", cq.Data, "error", err)
		h.sendText(chatID, "❌ That selection is no longer valid — please send the link again.")
		return
	}

	// Drop the keyboard so the choice cannot be replayed from the same prompt.
	h.edit(chatID, cq.Message.MessageID, "⏳ Starting download...")

	req := provider.NewRequest("https://youtu.be/"+id, platform.YouTube, audioOnly)
	if err := h.deliver(ctx, chatID, cq.From.ID, req); err != nil {
		logger.Warn("Callback download failed", "video", id, "error", err)
	}
}
