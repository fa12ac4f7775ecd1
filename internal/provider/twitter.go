package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	vxTwitterTimeout = 15 * time.Second
	twitsaveTimeout  = 20 * time.Second
)

// vxTwitterStrategy rewrites the tweet URL onto a vxtwitter API host, which
// mirrors the tweet as JSON including direct media links.
type vxTwitterStrategy struct {
	baseURL string
	client  *http.Client
}

func newVxTwitter(baseURL string) *vxTwitterStrategy {
	return &vxTwitterStrategy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: vxTwitterTimeout},
	}
}

func (vs *vxTwitterStrategy) Name() string {
	return "VxTwitter"
}

type vxTwitterResponse struct {
	Text          string `json:"text"`
	UserName      string `json:"user_name"`
	MediaExtended []struct {
		URL            string `json:"url"`
		Type           string `json:"type"`
		DurationMillis int    `json:"duration_millis"`
		ThumbnailURL   string `json:"thumbnail_url"`
	} `json:"media_extended"`
}

func (vs *vxTwitterStrategy) Fetch(ctx context.Context, req Request) (Attempt, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return Attempt{}, fmt.Errorf("invalid tweet URL: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, vs.baseURL+u.Path, nil)
	if err != nil {
		return Attempt{}, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := vs.client.Do(httpReq)
	if err != nil {
		return Attempt{}, fmt.Errorf("vxtwitter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Attempt{}, fmt.Errorf("vxtwitter returned status %d", resp.StatusCode)
	}

	var vr vxTwitterResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return Attempt{}, fmt.Errorf("decode failed: %w", err)
	}

	for _, m := range vr.MediaExtended {
		if m.URL == "" {
			continue
		}
		if m.Type != "video" && m.Type != "gif" {
			continue
		}
		return Attempt{
			MediaURL:        m.URL,
			Title:           firstLine(vr.Text),
			Author:          vr.UserName,
			DurationSeconds: m.DurationMillis / 1000,
			ThumbnailURL:    m.ThumbnailURL,
		}, nil
	}

	return Attempt{}, fmt.Errorf("no video media in tweet")
}

// twitsaveStrategy scrapes a twitsave-style HTML page for the highest
// quality download link. Purely a fallback; the markup is fragile.
type twitsaveStrategy struct {
	baseURL string
	client  *http.Client
}

func newTwitsave(baseURL string) *twitsaveStrategy {
	return &twitsaveStrategy{
		baseURL: baseURL,
		client:  &http.Client{Timeout: twitsaveTimeout},
	}
}

func (ts *twitsaveStrategy) Name() string {
	return "Twitsave"
}

func (ts *twitsaveStrategy) Fetch(ctx context.Context, req Request) (Attempt, error) {
	target := ts.baseURL + "?url=" + url.QueryEscape(req.URL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Attempt{}, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := ts.client.Do(httpReq)
	if err != nil {
		return Attempt{}, fmt.Errorf("twitsave request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Attempt{}, fmt.Errorf("twitsave returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Attempt{}, fmt.Errorf("parse page failed: %w", err)
	}

	var mediaURL string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(href, ".mp4") {
			mediaURL = href
			return false
		}
		return true
	})
	if mediaURL == "" {
		return Attempt{}, fmt.Errorf("no download link on page")
	}

	title := strings.TrimSpace(doc.Find("p.m-2").First().Text())

	return Attempt{
		MediaURL: mediaURL,
		Title:    firstLine(title),
	}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i != -1 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
