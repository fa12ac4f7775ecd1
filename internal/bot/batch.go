package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

// BatchOutcome is the tally reported after a multi-URL message.
type BatchOutcome struct {
	Attempted int
	Succeeded int
	Failed    int
}

// runBatch processes the URLs strictly in input order, one at a time, with a
// pacing delay between items so neither the providers nor the transport get
// hammered. One item's failure never aborts the rest.
func (h *Handler) runBatch(ctx context.Context, chatID, userID int64, urls []string, audioOnly bool) BatchOutcome {
	h.sendText(chatID, fmt.Sprintf("📦 Found %d links — downloading them one by one.", len(urls)))

	var out BatchOutcome
	for i, url := range urls {
		if i > 0 {
			select {
			case <-time.After(h.cfg.BatchDelay):
			case <-ctx.Done():
				logger.Warn("Batch interrupted", "processed", out.Attempted, "total", len(urls))
				h.sendSummary(chatID, out)
				return out
			}
		}

		out.Attempted++
		if err := h.retrieve(ctx, chatID, userID, url, audioOnly); err != nil {
			out.Failed++
			logger.Warn("Batch item failed", "index", i, "url", url, "error", err)
		} else {
			out.Succeeded++
		}
	}

	h.sendSummary(chatID, out)
	return out
}

func (h *Handler) sendSummary(chatID int64, out BatchOutcome) {
	h.sendText(chatID, fmt.Sprintf(
		"📦 Batch finished: %d attempted, %d succeeded, %d failed.",
		out.Attempted, out.Succeeded, out.Failed))
}
