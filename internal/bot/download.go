package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/provider"
	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/format"
	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

// retrieve classifies a URL and runs it through the full pipeline. The error
// return feeds the batch tally; every failure has already been reported to
// the user by the time it propagates.
func (h *Handler) retrieve(ctx context.Context, chatID, userID int64, url string, audioOnly bool) error {
	p := platform.Classify(url)
	if p == platform.Unknown {
		h.sendText(chatID, unsupportedText)
		return fmt.Errorf("unsupported platform for %q", url)
	}

	return h.deliver(ctx, chatID, userID, provider.NewRequest(url, p, audioOnly))
}

// deliver runs one resolved request end to end: progress message, provider
// chain, media send, final edit. Provider failures and transport failures
// are reported separately; only a delivered download counts in the stats.
func (h *Handler) deliver(ctx context.Context, chatID, userID int64, req provider.Request) error {
	label := "video"
	if req.AudioOnly {
		label = "audio"
	}

	progress, err := h.api.Send(tgbotapi.NewMessage(chatID,
		fmt.Sprintf("⏳ Fetching %s from %s...", label, req.Platform)))
	if err != nil {
		return fmt.Errorf("send progress message: %w", err)
	}

	h.sendChatAction(chatID, req.AudioOnly)

	att := h.chain.Resolve(ctx, req)
	if !att.Succeeded {
		h.edit(chatID, progress.MessageID, fmt.Sprintf(
			"❌ Download failed: %s\n\n💡 Providers for this platform may be down — YouTube links are the most reliable.",
			att.Err))
		return fmt.Errorf("provider chain exhausted: %s", att.Err)
	}

	h.edit(chatID, progress.MessageID, fmt.Sprintf(
		"📤 Sending...\n\n🎬 %s\n👤 %s\n🎚 %s | ⏱ %s | 💾 %s",
		att.Title, att.Author, att.Quality,
		format.Duration(att.DurationSeconds), sizeLabel(att.SizeBytes)))

	if _, err := h.api.Send(h.mediaPayload(chatID, req, att)); err != nil {
		h.edit(chatID, progress.MessageID, fmt.Sprintf(
			"⚠️ Found the media but could not send it: %v\n\n💡 The file may be too large or in a format Telegram rejects — try /audio or a shorter clip.",
			err))
		return fmt.Errorf("transport delivery failed: %w", err)
	}

	h.edit(chatID, progress.MessageID, fmt.Sprintf(
		"✅ Done! %s delivered via %s.", att.Title, att.Provider))

	h.stats.RecordSuccess(req.Platform, userID, req.AudioOnly)
	logger.Info("Download delivered",
		"request", req.ID, "platform", req.Platform, "provider", att.Provider, "audio", req.AudioOnly)
	return nil
}

// mediaPayload forwards the provider's direct URL; Telegram fetches the
// bytes itself, nothing touches local disk.
func (h *Handler) mediaPayload(chatID int64, req provider.Request, att provider.Attempt) tgbotapi.Chattable {
	caption := fmt.Sprintf("🎬 %s\n👤 %s\n⏱ %s | 🌐 %s",
		format.EscapeMarkdown(att.Title), format.EscapeMarkdown(att.Author),
		format.Duration(att.DurationSeconds), req.Platform)

	if req.AudioOnly {
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FileURL(att.MediaURL))
		audio.Caption = caption
		audio.ParseMode = tgbotapi.ModeMarkdown
		audio.Title = att.Title
		audio.Performer = att.Author
		audio.Duration = att.DurationSeconds
		return audio
	}

	video := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(att.MediaURL))
	video.Caption = caption
	video.ParseMode = tgbotapi.ModeMarkdown
	video.Duration = att.DurationSeconds
	video.SupportsStreaming = true
	return video
}

func (h *Handler) sendChatAction(chatID int64, audioOnly bool) {
	action := tgbotapi.ChatUploadVideo
	if audioOnly {
		action = tgbotapi.ChatUploadVoice
	}
	if _, err := h.api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		logger.Debug("Chat action failed", "error", err)
	}
}

func sizeLabel(bytes int64) string {
	if bytes <= 0 {
		return "Unknown"
	}
	return format.FileSize(bytes)
}
