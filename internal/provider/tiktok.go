package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const tikwmTimeout = 30 * time.Second

// tikwmStrategy resolves TikTok links through the tikwm.com mirror, which
// hands back watermark-free play URLs.
type tikwmStrategy struct {
	baseURL string
	client  *http.Client
}

func newTikwm(baseURL string) *tikwmStrategy {
	return &tikwmStrategy{
		baseURL: baseURL,
		client:  &http.Client{Timeout: tikwmTimeout},
	}
}

func (ts *tikwmStrategy) Name() string {
	return "TikWM"
}

type tikwmResponse struct {
	Code int       `json:"code"`
	Msg  string    `json:"msg"`
	Data tikwmData `json:"data"`
}

type tikwmData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Play     string `json:"play"`
	Music    string `json:"music"`
	Cover    string `json:"cover"`
	Size     int64  `json:"size"`
	Duration int    `json:"duration"`
	Author   struct {
		UniqueID string `json:"unique_id"`
		Nickname string `json:"nickname"`
	} `json:"author"`
}

func (ts *tikwmStrategy) Fetch(ctx context.Context, req Request) (Attempt, error) {
	payload := map[string]string{"url": req.URL}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return Attempt{}, fmt.Errorf("marshal failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.baseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return Attempt{}, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := ts.client.Do(httpReq)
	if err != nil {
		return Attempt{}, fmt.Errorf("tikwm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Attempt{}, fmt.Errorf("tikwm returned status %d", resp.StatusCode)
	}

	var tr tikwmResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Attempt{}, fmt.Errorf("decode failed: %w", err)
	}
	if tr.Code != 0 {
		return Attempt{}, fmt.Errorf("tikwm API error: %s", tr.Msg)
	}

	author := tr.Data.Author.Nickname
	if author == "" {
		author = tr.Data.Author.UniqueID
	}

	if req.AudioOnly {
		if tr.Data.Music == "" {
			return Attempt{}, fmt.Errorf("no audio track in tikwm response")
		}
		return Attempt{
			MediaURL:        ts.absolute(tr.Data.Music),
			Title:           tr.Data.Title,
			Author:          author,
			DurationSeconds: tr.Data.Duration,
			ThumbnailURL:    ts.absolute(tr.Data.Cover),
			Quality:         "audio",
		}, nil
	}

	if tr.Data.Play == "" {
		return Attempt{}, fmt.Errorf("no video URL in tikwm response")
	}
	return Attempt{
		MediaURL:        ts.absolute(tr.Data.Play),
		Title:           tr.Data.Title,
		Author:          author,
		DurationSeconds: tr.Data.Duration,
		ThumbnailURL:    ts.absolute(tr.Data.Cover),
		SizeBytes:       tr.Data.Size,
		Quality:         "no-watermark",
	}, nil
}

// tikwm sometimes returns host-relative paths.
func (ts *tikwmStrategy) absolute(u string) string {
	if u == "" || strings.HasPrefix(u, "http") {
		return u
	}
	return "https://www.tikwm.com" + u
}
