package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
)

func TestDecodeChoice(t *testing.T) {
	audio, id, err := decodeChoice("dl:a:abc123XYZ9")
	require.NoError(t, err)
	assert.True(t, audio)
	assert.Equal(t, "abc123XYZ9", id)

	audio, id, err = decodeChoice("dl:v:abc123XYZ9")
	require.NoError(t, err)
	assert.False(t, audio)
	assert.Equal(t, "abc123XYZ9", id)
}

func TestDecodeChoiceRejectsGarbage(t *testing.T) {
	for _, data := range []string{
		"", "dl", "dl:v", "dl:x:abc123XYZ9", "nope:v:abc123XYZ9",
		"dl:v:../../etc", "dl:v:has spaces!", "dl:a:",
	} {
		_, _, err := decodeChoice(data)
		assert.Error(t, err, "payload %q", data)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	audio, id, err := decodeChoice(encodeChoice(modeAudio, "abc123XYZ9"))
	require.NoError(t, err)
	assert.True(t, audio)
	assert.Equal(t, "abc123XYZ9", id)
}

func TestBareYouTubeURLGetsQualityPrompt(t *testing.T) {
	api := &fakeAPI{}
	resolver := &fakeResolver{}
	h := newTestHandler(api, resolver, "")

	h.HandleUpdate(context.Background(), tgbotapi.Update{
		Message: textMessage("https://youtu.be/abc123XYZ9"),
	})

	// No download yet, just the picker.
	assert.Empty(t, resolver.requests())

	var prompt *tgbotapi.MessageConfig
	for _, c := range api.sentMessages() {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ReplyMarkup != nil {
			prompt = &m
			break
		}
	}
	require.NotNil(t, prompt, "expected a message with an inline keyboard")

	kb, ok := prompt.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "dl:v:abc123XYZ9", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "dl:a:abc123XYZ9", *kb.InlineKeyboard[0][1].CallbackData)
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			Data: data,
			From: &tgbotapi.User{ID: 7},
			Message: &tgbotapi.Message{
				MessageID: 5,
				Chat:      &tgbotapi.Chat{ID: 100},
			},
		},
	}
}

func TestCallbackResolvesSameAsDirectSubmission(t *testing.T) {
	api := &fakeAPI{}
	resolver := &fakeResolver{}
	h := newTestHandler(api, resolver, "")

	h.HandleUpdate(context.Background(), callbackUpdate("dl:a:abc123XYZ9"))

	reqs := resolver.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "https://youtu.be/abc123XYZ9", reqs[0].URL)
	assert.Equal(t, platform.YouTube, reqs[0].Platform)
	assert.True(t, reqs[0].AudioOnly)

	// Direct /audio submission must hit the chain with the same shape.
	h2 := newTestHandler(&fakeAPI{}, resolver, "")
	h2.HandleUpdate(context.Background(), tgbotapi.Update{
		Message: commandMessage("audio", "https://youtu.be/abc123XYZ9"),
	})

	reqs = resolver.requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, reqs[0].URL, reqs[1].URL)
	assert.Equal(t, reqs[0].Platform, reqs[1].Platform)
	assert.Equal(t, reqs[0].AudioOnly, reqs[1].AudioOnly)
}

func TestMalformedCallbackIsFreshFailure(t *testing.T) {
	api := &fakeAPI{}
	resolver := &fakeResolver{}
	h := newTestHandler(api, resolver, "")

	h.HandleUpdate(context.Background(), callbackUpdate("dl:v:!!bogus!!"))

	assert.Empty(t, resolver.requests())
	assert.Contains(t, api.lastText(), "no longer valid")
}

func TestCallbackAlwaysAnswered(t *testing.T) {
	api := &fakeAPI{}
	h := newTestHandler(api, &fakeResolver{}, "")

	h.HandleUpdate(context.Background(), callbackUpdate("dl:v:abc123XYZ9"))

	var answered bool
	for _, r := range api.requests {
		if _, ok := r.(tgbotapi.CallbackConfig); ok {
			answered = true
		}
	}
	assert.True(t, answered)
}
