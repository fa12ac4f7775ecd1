package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const cobaltTimeout = 30 * time.Second

// cobaltStrategy talks to a cobalt instance, the general-purpose converter
// API shared by several platform chains.
type cobaltStrategy struct {
	baseURL string
	client  *http.Client
}

func newCobalt(baseURL string) *cobaltStrategy {
	return &cobaltStrategy{
		baseURL: baseURL,
		client:  &http.Client{Timeout: cobaltTimeout},
	}
}

func (cs *cobaltStrategy) Name() string {
	return "Cobalt"
}

type cobaltResponse struct {
	Status   string       `json:"status"`
	URL      string       `json:"url"`
	Audio    string       `json:"audio"`
	Filename string       `json:"filename"`
	Picker   []cobaltItem `json:"picker"`
	Error    cobaltError  `json:"error"`
}

type cobaltItem struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type cobaltError struct {
	Code    string `json:"code"`
	Context string `json:"context"`
}

func (cs *cobaltStrategy) Fetch(ctx context.Context, req Request) (Attempt, error) {
	body := map[string]interface{}{
		"url":          req.URL,
		"downloadMode": "auto",
		"videoQuality": "max",
	}
	if req.AudioOnly {
		body["downloadMode"] = "audio"
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Attempt{}, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cs.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return Attempt{}, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := cs.client.Do(httpReq)
	if err != nil {
		return Attempt{}, fmt.Errorf("cobalt request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Attempt{}, fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Attempt{}, fmt.Errorf("cobalt returned status %d", resp.StatusCode)
	}

	var cr cobaltResponse
	if err := json.Unmarshal(bodyBytes, &cr); err != nil {
		return Attempt{}, fmt.Errorf("decode response failed: %w", err)
	}

	switch cr.Status {
	case "tunnel", "redirect":
		if cr.URL == "" {
			return Attempt{}, fmt.Errorf("empty URL in cobalt response")
		}
		return Attempt{
			MediaURL: cr.URL,
			Title:    cr.Filename,
		}, nil

	case "picker":
		if url := pickItem(&cr, req.AudioOnly); url != "" {
			return Attempt{
				MediaURL: url,
				Title:    cr.Filename,
			}, nil
		}
		return Attempt{}, fmt.Errorf("no usable items in cobalt picker")

	case "error":
		return Attempt{}, fmt.Errorf("cobalt API error: %s (%s)", cr.Error.Code, cr.Error.Context)

	default:
		return Attempt{}, fmt.Errorf("unknown cobalt status: %q", cr.Status)
	}
}

// pickItem selects from a picker response by mode: audio requests take an
// audio item (or the top-level audio track), video requests take only
// video/gif items, photos never qualify.
func pickItem(cr *cobaltResponse, audioOnly bool) string {
	if audioOnly {
		for _, item := range cr.Picker {
			if item.URL != "" && item.Type == "audio" {
				return item.URL
			}
		}
		return cr.Audio
	}

	for _, item := range cr.Picker {
		if item.URL == "" {
			continue
		}
		if item.Type == "video" || item.Type == "gif" {
			return item.URL
		}
	}
	return ""
}
