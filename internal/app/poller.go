package app

import (
	"context"
	"time"

	"github.com/five82/dinemenu/internal/sensor"
)

const defaultPollInterval = 5 * time.Minute

// StartPoller launches a background goroutine that refreshes r at a fixed
// cadence and hands it to onUpdate after every refresh. The first refresh
// runs immediately. It returns immediately.
func StartPoller(ctx context.Context, r sensor.Refresher, interval time.Duration, onUpdate func(sensor.Refresher)) {
	go poll(ctx, r, interval, onUpdate)
}

// poll drives r until ctx is cancelled. Refreshes run on this goroutine
// only, so cycles of one entity never overlap with each other.
func poll(ctx context.Context, r sensor.Refresher, interval time.Duration, onUpdate func(sensor.Refresher)) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		r.Refresh(ctx)
		if onUpdate != nil {
			onUpdate(r)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
