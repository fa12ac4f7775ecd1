package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

// isMember re-queries the transport on every call; membership is never
// cached. A failing check counts as "not a member" (fail-closed).
func (h *Handler) isMember(userID int64) bool {
	member, err := h.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: h.cfg.RequiredChannel,
			UserID:             userID,
		},
	})
	if err != nil {
		logger.Warn("Membership check failed, treating as non-member", "user", userID, "error", err)
		return false
	}

	switch member.Status {
	case "creator", "administrator", "member":
		return true
	default:
		return false
	}
}

// requireMembership gates an entry point. When no channel is configured the
// gate is disabled and everything passes.
func (h *Handler) requireMembership(chatID, userID int64) bool {
	if h.cfg.RequiredChannel == "" {
		return true
	}
	if h.isMember(userID) {
		return true
	}

	joinURL := "https://t.me/" + strings.TrimPrefix(h.cfg.RequiredChannel, "@")
	m := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"🔒 Please join %s first, then try again.", h.cfg.RequiredChannel))
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📢 Join channel", joinURL),
		),
	)
	if _, err := h.api.Send(m); err != nil {
		logger.Error("Join prompt failed", "error", err)
	}
	return false
}
