package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/provider"
)

// API is the slice of the Telegram Bot API the handlers actually use.
// *tgbotapi.BotAPI satisfies it; tests substitute a fake.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(cfg tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// Resolver is the provider chain as seen from the handlers.
type Resolver interface {
	Resolve(ctx context.Context, req provider.Request) provider.Attempt
}
