package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
)

const tikwmBody = `{
	"code": 0,
	"msg": "success",
	"data": {
		"id": "7123456789",
		"title": "funny cat",
		"play": "/video/media/play/7123456789.mp4",
		"music": "https://cdn.tikwm.com/music/7123456789.mp3",
		"cover": "/video/cover/7123456789.jpg",
		"size": 2048000,
		"duration": 15,
		"author": {"unique_id": "catlover", "nickname": "Cat Lover"}
	}
}`

func TestTikwmVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, tikwmBody)
	}))
	defer srv.Close()

	att, err := newTikwm(srv.URL).Fetch(context.Background(),
		NewRequest("https://tiktok.com/@u/video/1", platform.TikTok, false))

	require.NoError(t, err)
	assert.Equal(t, "https://www.tikwm.com/video/media/play/7123456789.mp4", att.MediaURL)
	assert.Equal(t, "funny cat", att.Title)
	assert.Equal(t, "Cat Lover", att.Author)
	assert.Equal(t, 15, att.DurationSeconds)
	assert.Equal(t, int64(2048000), att.SizeBytes)
}

func TestTikwmAudioOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, tikwmBody)
	}))
	defer srv.Close()

	att, err := newTikwm(srv.URL).Fetch(context.Background(),
		NewRequest("https://tiktok.com/@u/video/1", platform.TikTok, true))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.tikwm.com/music/7123456789.mp3", att.MediaURL)
	assert.Equal(t, "audio", att.Quality)
}

func TestTikwmAPIErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": -1, "msg": "url invalid"}`)
	}))
	defer srv.Close()

	_, err := newTikwm(srv.URL).Fetch(context.Background(),
		NewRequest("https://tiktok.com/@u/video/1", platform.TikTok, false))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "url invalid")
}

func TestTikwmGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	_, err := newTikwm(srv.URL).Fetch(context.Background(),
		NewRequest("https://tiktok.com/@u/video/1", platform.TikTok, false))

	assert.Error(t, err)
}
