package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	pipedTimeout     = 15 * time.Second
	innertubeTimeout = 20 * time.Second

	innertubeEndpoint = "https://www.youtube.com/youtubei/v1/player"
	// Android client, the least picky one about signatures.
	innertubeUserAgent  = "com.google.android.youtube/19.09.37 (Linux; U; Android 14) gzip"
	innertubeClientName = "ANDROID"
	innertubeClientVer  = "19.09.37"
)

var videoIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{6,16}$`)

// ExtractVideoID pulls the video ID out of the usual YouTube URL shapes:
// youtu.be/<id>, watch?v=<id>, shorts/<id>, embed/<id>.
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid YouTube URL: %w", err)
	}

	var id string
	switch {
	case strings.Contains(u.Host, "youtu.be"):
		id = strings.Trim(u.Path, "/")
	case u.Query().Get("v") != "":
		id = u.Query().Get("v")
	case strings.Contains(u.Path, "/shorts/"):
		id = strings.TrimPrefix(u.Path, "/shorts/")
	case strings.Contains(u.Path, "/embed/"):
		id = strings.TrimPrefix(u.Path, "/embed/")
	}
	id = strings.Trim(id, "/")
	if i := strings.IndexAny(id, "/?&"); i != -1 {
		id = id[:i]
	}

	if !ValidVideoID(id) {
		return "", fmt.Errorf("could not extract video ID from %q", rawURL)
	}
	return id, nil
}

func ValidVideoID(id string) bool {
	return videoIDRegex.MatchString(id)
}

// pipedStrategy resolves YouTube streams through a Piped API instance.
type pipedStrategy struct {
	baseURL string
	client  *http.Client
}

func newPiped(baseURL string) *pipedStrategy {
	return &pipedStrategy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: pipedTimeout},
	}
}

func (ps *pipedStrategy) Name() string {
	return "Piped"
}

type pipedResponse struct {
	Title        string        `json:"title"`
	Uploader     string        `json:"uploader"`
	Duration     int           `json:"duration"`
	ThumbnailURL string        `json:"thumbnailUrl"`
	VideoStreams []pipedStream `json:"videoStreams"`
	AudioStreams []pipedStream `json:"audioStreams"`
}

type pipedStream struct {
	URL           string `json:"url"`
	Quality       string `json:"quality"`
	MimeType      string `json:"mimeType"`
	Bitrate       int    `json:"bitrate"`
	ContentLength int64  `json:"contentLength"`
	VideoOnly     bool   `json:"videoOnly"`
}

func (ps *pipedStrategy) Fetch(ctx context.Context, req Request) (Attempt, error) {
	id, err := ExtractVideoID(req.URL)
	if err != nil {
		return Attempt{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, ps.baseURL+"/streams/"+id, nil)
	if err != nil {
		return Attempt{}, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := ps.client.Do(httpReq)
	if err != nil {
		return Attempt{}, fmt.Errorf("piped request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Attempt{}, fmt.Errorf("piped returned status %d", resp.StatusCode)
	}

	var pr pipedResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Attempt{}, fmt.Errorf("decode response failed: %w", err)
	}

	stream, ok := pickPipedStream(&pr, req.AudioOnly)
	if !ok {
		return Attempt{}, fmt.Errorf("no suitable stream in piped response")
	}

	return Attempt{
		MediaURL:        stream.URL,
		Title:           pr.Title,
		Author:          pr.Uploader,
		DurationSeconds: pr.Duration,
		ThumbnailURL:    pr.ThumbnailURL,
		Quality:         stream.Quality,
		SizeBytes:       stream.ContentLength,
	}, nil
}

func pickPipedStream(pr *pipedResponse, audioOnly bool) (pipedStream, bool) {
	if audioOnly {
		var best pipedStream
		for _, s := range pr.AudioStreams {
			if s.URL == "" {
				continue
			}
			if s.Bitrate > best.Bitrate || best.URL == "" {
				best = s
			}
		}
		return best, best.URL != ""
	}

	// Prefer muxed mp4; Telegram cannot join separate tracks.
	var fallback pipedStream
	for _, s := range pr.VideoStreams {
		if s.URL == "" || s.VideoOnly {
			continue
		}
		if strings.Contains(s.MimeType, "mp4") {
			return s, true
		}
		if fallback.URL == "" {
			fallback = s
		}
	}
	return fallback, fallback.URL != ""
}

// innertubeStrategy calls YouTube's own player endpoint directly with a
// spoofed Android client. Last resort: the contract is undocumented and
// changes without notice.
type innertubeStrategy struct {
	client *http.Client
}

func newInnertube() *innertubeStrategy {
	return &innertubeStrategy{
		client: &http.Client{Timeout: innertubeTimeout},
	}
}

func (is *innertubeStrategy) Name() string {
	return "InnerTube"
}

type innertubeResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		Title         string `json:"title"`
		Author        string `json:"author"`
		LengthSeconds string `json:"lengthSeconds"`
		Thumbnail     struct {
			Thumbnails []struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
	StreamingData struct {
		Formats         []innertubeFormat `json:"formats"`
		AdaptiveFormats []innertubeFormat `json:"adaptiveFormats"`
	} `json:"streamingData"`
}

type innertubeFormat struct {
	URL           string `json:"url"`
	MimeType      string `json:"mimeType"`
	QualityLabel  string `json:"qualityLabel"`
	Bitrate       int    `json:"bitrate"`
	ContentLength string `json:"contentLength"`
}

func (is *innertubeStrategy) Fetch(ctx context.Context, req Request) (Attempt, error) {
	id, err := ExtractVideoID(req.URL)
	if err != nil {
		return Attempt{}, err
	}

	payload := map[string]interface{}{
		"videoId": id,
		"context": map[string]interface{}{
			"client": map[string]interface{}{
				"clientName":        innertubeClientName,
				"clientVersion":     innertubeClientVer,
				"androidSdkVersion": 34,
				"hl":                "en",
			},
		},
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return Attempt{}, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, innertubeEndpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return Attempt{}, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", innertubeUserAgent)

	resp, err := is.client.Do(httpReq)
	if err != nil {
		return Attempt{}, fmt.Errorf("innertube request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Attempt{}, fmt.Errorf("innertube returned status %d", resp.StatusCode)
	}

	var ir innertubeResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return Attempt{}, fmt.Errorf("decode response failed: %w", err)
	}

	if ir.PlayabilityStatus.Status != "OK" {
		return Attempt{}, fmt.Errorf("video not playable: %s (%s)",
			ir.PlayabilityStatus.Status, ir.PlayabilityStatus.Reason)
	}

	f, ok := pickInnertubeFormat(&ir, req.AudioOnly)
	if !ok {
		return Attempt{}, fmt.Errorf("no suitable format in innertube response")
	}

	duration, _ := strconv.Atoi(ir.VideoDetails.LengthSeconds)
	size, _ := strconv.ParseInt(f.ContentLength, 10, 64)

	var thumb string
	if n := len(ir.VideoDetails.Thumbnail.Thumbnails); n > 0 {
		thumb = ir.VideoDetails.Thumbnail.Thumbnails[n-1].URL
	}

	quality := f.QualityLabel
	if req.AudioOnly {
		quality = "audio"
	}

	return Attempt{
		MediaURL:        f.URL,
		Title:           ir.VideoDetails.Title,
		Author:          ir.VideoDetails.Author,
		DurationSeconds: duration,
		ThumbnailURL:    thumb,
		Quality:         quality,
		SizeBytes:       size,
	}, nil
}

func pickInnertubeFormat(ir *innertubeResponse, audioOnly bool) (innertubeFormat, bool) {
	if audioOnly {
		var best innertubeFormat
		for _, f := range ir.StreamingData.AdaptiveFormats {
			if f.URL == "" || !strings.HasPrefix(f.MimeType, "audio/") {
				continue
			}
			if f.Bitrate > best.Bitrate || best.URL == "" {
				best = f
			}
		}
		return best, best.URL != ""
	}

	// Muxed formats carry both tracks; pick the highest bitrate one.
	var best innertubeFormat
	for _, f := range ir.StreamingData.Formats {
		if f.URL == "" {
			continue
		}
		if f.Bitrate > best.Bitrate || best.URL == "" {
			best = f
		}
	}
	return best, best.URL != ""
}
