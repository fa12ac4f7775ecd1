package provider

import (
	"context"
	"fmt"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/config"
	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

// Chain holds the ordered fallback strategies for every supported platform.
// Reordering or swapping providers is a data change here, not a code change.
type Chain struct {
	strategies map[platform.Platform][]Strategy
}

// NewChain wires the default strategy tables. Base URLs come from config so
// deployments can point at their own mirrors.
func NewChain(cfg *config.Config) *Chain {
	cobalt := newCobalt(cfg.CobaltAPI)

	return &Chain{
		strategies: map[platform.Platform][]Strategy{
			platform.YouTube: {
				cobalt,
				newPiped(cfg.PipedAPI),
				newInnertube(),
			},
			platform.TikTok: {
				newTikwm(cfg.TikwmAPI),
				cobalt,
			},
			platform.Instagram: {
				newIgram(cfg.IgramAPI),
				cobalt,
			},
			platform.Twitter: {
				newVxTwitter(cfg.VxTwitterAPI),
				newTwitsave(cfg.TwitsaveAPI),
				cobalt,
			},
		},
	}
}

// NewChainWith builds a chain from explicit strategy tables; used by tests.
func NewChainWith(strategies map[platform.Platform][]Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Resolve tries each strategy for the request's platform in strict order and
// returns the first success. On total failure the result carries only the
// LAST strategy's error message; that policy is deliberate, the user gets one
// short reason instead of a wall of diagnostics.
func (c *Chain) Resolve(ctx context.Context, req Request) Attempt {
	list := c.strategies[req.Platform]
	if len(list) == 0 {
		return failed("none", fmt.Sprintf("no providers configured for %s", req.Platform))
	}

	var last Attempt
	for _, s := range list {
		att, err := s.Fetch(ctx, req)
		if err != nil {
			logger.Warn("Provider attempt failed",
				"request", req.ID, "provider", s.Name(), "error", err)
			last = failed(s.Name(), err.Error())
			continue
		}
		if att.MediaURL == "" {
			logger.Warn("Provider returned empty media URL",
				"request", req.ID, "provider", s.Name())
			last = failed(s.Name(), fmt.Sprintf("%s returned an empty media URL", s.Name()))
			continue
		}

		att.Succeeded = true
		att.Provider = s.Name()
		logger.Info("Media resolved",
			"request", req.ID, "provider", s.Name(), "platform", req.Platform)
		return Normalize(att)
	}

	return last
}
