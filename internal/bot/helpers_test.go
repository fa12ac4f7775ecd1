package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/config"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/provider"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/stats"
)

// fakeAPI records everything the handlers try to send.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int

	failMedia    bool
	memberStatus string
	memberErr    error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch c.(type) {
	case tgbotapi.VideoConfig, tgbotapi.AudioConfig:
		if f.failMedia {
			return tgbotapi.Message{}, errors.New("Request Entity Too Large")
		}
	}

	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetChatMember(_ tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	if f.memberErr != nil {
		return tgbotapi.ChatMember{}, f.memberErr
	}
	status := f.memberStatus
	if status == "" {
		status = "member"
	}
	return tgbotapi.ChatMember{Status: status}, nil
}

func (f *fakeAPI) sentMessages() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

func (f *fakeAPI) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		switch m := f.sent[i].(type) {
		case tgbotapi.MessageConfig:
			return m.Text
		case tgbotapi.EditMessageTextConfig:
			return m.Text
		}
	}
	return ""
}

// fakeResolver stands in for the provider chain.
type fakeResolver struct {
	mu    sync.Mutex
	calls []provider.Request
	fail  func(req provider.Request) bool
}

func (r *fakeResolver) Resolve(_ context.Context, req provider.Request) provider.Attempt {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()

	if r.fail != nil && r.fail(req) {
		return provider.Attempt{Provider: "fake", Err: "provider unavailable"}
	}
	return provider.Normalize(provider.Attempt{
		Succeeded: true,
		MediaURL:  "https://cdn.example/media.mp4",
		Title:     "Resolved Title",
		Provider:  "fake",
	})
}

func (r *fakeResolver) requests() []provider.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]provider.Request(nil), r.calls...)
}

func newTestHandler(api *fakeAPI, resolver *fakeResolver, channel string) *Handler {
	cfg := &config.Config{
		BatchDelay:      time.Millisecond,
		RequiredChannel: channel,
	}
	return NewHandler(api, resolver, stats.New(), cfg)
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		Text:      text,
		From:      &tgbotapi.User{ID: 7},
		Chat:      &tgbotapi.Chat{ID: 100},
		Date:      int(time.Now().Unix()),
	}
}

func commandMessage(cmd, args string) *tgbotapi.Message {
	text := "/" + cmd
	if args != "" {
		text += " " + args
	}
	m := textMessage(text)
	m.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(cmd) + 1},
	}
	return m
}
