package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const igramTimeout = 10 * time.Second

// igramStrategy hits an Instagram scraping mirror with a plain GET. These
// mirrors come and go; the base URL is configurable for that reason.
type igramStrategy struct {
	baseURL string
	client  *http.Client
}

func newIgram(baseURL string) *igramStrategy {
	return &igramStrategy{
		baseURL: baseURL,
		client:  &http.Client{Timeout: igramTimeout},
	}
}

func (is *igramStrategy) Name() string {
	return "IGram"
}

type igramResponse struct {
	VideoURL  string `json:"video_url"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Thumbnail string `json:"thumbnail"`
	Duration  int    `json:"duration"`
}

func (is *igramStrategy) Fetch(ctx context.Context, req Request) (Attempt, error) {
	target := is.baseURL + "?url=" + url.QueryEscape(req.URL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Attempt{}, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := is.client.Do(httpReq)
	if err != nil {
		return Attempt{}, fmt.Errorf("instagram mirror request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Attempt{}, fmt.Errorf("instagram mirror returned status %d", resp.StatusCode)
	}

	var ir igramResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return Attempt{}, fmt.Errorf("decode failed: %w", err)
	}
	if ir.VideoURL == "" {
		return Attempt{}, fmt.Errorf("no video URL in instagram mirror response")
	}

	title := ir.Title
	if title == "" {
		title = "Instagram Video"
	}

	return Attempt{
		MediaURL:        ir.VideoURL,
		Title:           title,
		Author:          ir.Author,
		DurationSeconds: ir.Duration,
		ThumbnailURL:    ir.Thumbnail,
	}, nil
}
