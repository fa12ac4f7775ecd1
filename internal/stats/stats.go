package stats

import (
	"sync"
	"time"

	"github.com/carestel-arch/advanced-video-downloader-bot/internal/platform"
)

// Aggregator keeps process-wide download counters. One instance is created
// at startup and mutated only through RecordSuccess; counters reset on
// restart, there is no persistence.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	total       int64
	perPlatform map[platform.Platform]int64
	audio       int64
	video       int64
	users       map[int64]struct{}
	lastUpdated time.Time
}

func New() *Aggregator {
	return &Aggregator{
		startTime:   time.Now(),
		perPlatform: make(map[platform.Platform]int64),
		users:       make(map[int64]struct{}),
	}
}

// RecordSuccess is called once per delivered download, after the transport
// accepted the media. There is no decrement path.
func (a *Aggregator) RecordSuccess(p platform.Platform, userID int64, audioOnly bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.perPlatform[p]++
	if audioOnly {
		a.audio++
	} else {
		a.video++
	}
	a.users[userID] = struct{}{}
	a.lastUpdated = time.Now()
}

type Snapshot struct {
	Total       int64
	PerPlatform map[platform.Platform]int64
	Audio       int64
	Video       int64
	UniqueUsers int
	LastUpdated time.Time
	Uptime      time.Duration
}

// Snapshot returns a copy of the counters. Reading never mutates.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	per := make(map[platform.Platform]int64, len(a.perPlatform))
	for k, v := range a.perPlatform {
		per[k] = v
	}

	return Snapshot{
		Total:       a.total,
		PerPlatform: per,
		Audio:       a.audio,
		Video:       a.video,
		UniqueUsers: len(a.users),
		LastUpdated: a.lastUpdated,
		Uptime:      time.Since(a.startTime),
	}
}
