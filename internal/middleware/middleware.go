package middleware

import (
	"runtime/debug"
	"time"

	"github.com/carestel-arch/advanced-video-downloader-bot/pkg/logger"
)

// Middleware wraps one unit of update handling.
type Middleware func(next func()) func()

// Updates that take longer than this get logged at info instead of debug.
const slowThreshold = 100 * time.Millisecond

// Recover contains a panic to the one update that caused it; the polling
// loop never sees it.
func Recover(next func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic while handling update",
					"error", r, "stack", string(debug.Stack()))
			}
		}()
		next()
	}
}

// Logger times the wrapped handler under the given name.
func Logger(name string) Middleware {
	return func(next func()) func() {
		return func() {
			start := time.Now()
			next()

			elapsed := time.Since(start)
			if elapsed > slowThreshold {
				logger.Info("Slow update", "name", name, "duration", elapsed)
			} else {
				logger.Debug("Update handled", "name", name, "duration", elapsed)
			}
		}
	}
}

// Chain applies the middlewares around f, first listed outermost.
func Chain(f func(), mws ...Middleware) func() {
	for i := len(mws) - 1; i >= 0; i-- {
		f = mws[i](f)
	}
	return f
}
