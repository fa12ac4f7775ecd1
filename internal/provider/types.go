package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
)

// Request describes a single media retrieval. It is built once per inbound
// message (or batch item) and never mutated afterwards.
type Request struct {
	ID        string
	URL       string
	Platform  platform.Platform
	AudioOnly bool
}

func NewRequest(url string, p platform.Platform, audioOnly bool) Request {
	return Request{
		ID:        uuid.NewString(),
		URL:       url,
		Platform:  p,
		AudioOnly: audioOnly,
	}
}

// Attempt is the normalized outcome of one provider strategy.
// Succeeded is only ever true with a non-empty MediaURL; the chain runner
// enforces that.
type Attempt struct {
	Succeeded       bool
	MediaURL        string
	Title           string
	Author          string
	DurationSeconds int
	ThumbnailURL    string
	Quality         string
	SizeBytes       int64
	Provider        string
	Err             string
}

// Strategy is one concrete technique for resolving a platform URL to a
// direct media link. Implementations own their HTTP client and timeout;
// a timeout, a non-2xx status and a malformed payload are all just errors.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, req Request) (Attempt, error)
}
