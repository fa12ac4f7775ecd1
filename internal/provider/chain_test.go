package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
)

type stubStrategy struct {
	name  string
	att   Attempt
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(_ context.Context, _ Request) (Attempt, error) {
	s.calls++
	return s.att, s.err
}

func chainOf(p platform.Platform, strategies ...Strategy) *Chain {
	return NewChainWith(map[platform.Platform][]Strategy{p: strategies})
}

func TestResolveFirstSuccessWins(t *testing.T) {
	first := &stubStrategy{name: "first", att: Attempt{MediaURL: "https://cdn/a.mp4", Title: "A"}}
	second := &stubStrategy{name: "second", att: Attempt{MediaURL: "https://cdn/b.mp4", Title: "B"}}
	chain := chainOf(platform.TikTok, first, second)

	att := chain.Resolve(context.Background(), NewRequest("https://tiktok.com/@u/video/1", platform.TikTok, false))

	assert.True(t, att.Succeeded)
	assert.Equal(t, "https://cdn/a.mp4", att.MediaURL)
	assert.Equal(t, "first", att.Provider)
	assert.Equal(t, 0, second.calls, "later strategies must not run after a success")
}

func TestResolveFallsBackInOrder(t *testing.T) {
	first := &stubStrategy{name: "first", err: errors.New("timeout")}
	second := &stubStrategy{name: "second", att: Attempt{MediaURL: "https://cdn/b.mp4"}}
	chain := chainOf(platform.YouTube, first, second)

	att := chain.Resolve(context.Background(), NewRequest("https://youtu.be/abc123XYZ9", platform.YouTube, false))

	assert.True(t, att.Succeeded)
	assert.Equal(t, "second", att.Provider)
	assert.Equal(t, 1, first.calls)
}

func TestResolveReportsLastError(t *testing.T) {
	chain := chainOf(platform.Twitter,
		&stubStrategy{name: "one", err: errors.New("first failure")},
		&stubStrategy{name: "two", err: errors.New("second failure")},
		&stubStrategy{name: "three", err: errors.New("final failure")},
	)

	att := chain.Resolve(context.Background(), NewRequest("https://x.com/u/status/1", platform.Twitter, false))

	assert.False(t, att.Succeeded)
	assert.Equal(t, "final failure", att.Err)
	assert.Equal(t, "three", att.Provider)
}

func TestResolveEmptyMediaURLIsFailure(t *testing.T) {
	// A strategy reporting success without a link must not leak through.
	chain := chainOf(platform.Instagram,
		&stubStrategy{name: "hollow", att: Attempt{Title: "has metadata, no link"}},
	)

	att := chain.Resolve(context.Background(), NewRequest("https://instagram.com/p/x", platform.Instagram, false))

	assert.False(t, att.Succeeded)
	assert.Contains(t, att.Err, "empty media URL")
}

func TestResolveNoProvidersConfigured(t *testing.T) {
	chain := NewChainWith(map[platform.Platform][]Strategy{})

	att := chain.Resolve(context.Background(), NewRequest("https://example.com", platform.Unknown, false))

	assert.False(t, att.Succeeded)
	assert.Contains(t, att.Err, "no providers configured")
}

func TestResolveHTTP500ThenSuccess(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"tunnel","url":"https://cdn.example/clip.mp4","filename":"clip.mp4"}`)
	}))
	defer working.Close()

	chain := chainOf(platform.TikTok, newCobalt(broken.URL), newCobalt(working.URL))

	att := chain.Resolve(context.Background(), NewRequest("https://tiktok.com/@u/video/1", platform.TikTok, false))

	require.True(t, att.Succeeded)
	assert.Equal(t, "https://cdn.example/clip.mp4", att.MediaURL)
	assert.Equal(t, "clip.mp4", att.Title)
}
