package app

import (
	"context"
	"time"

	"github.com/five82/chatlog/internal/state"
)

// StartPoller launches a background goroutine that reloads the chatlog at a
// fixed cadence. The first load happens after one interval because the UI
// issues its own initial load. It returns immediately; a non-positive
// interval disables polling.
func StartPoller(ctx context.Context, loader *state.Loader, interval time.Duration) {
	if interval <= 0 || loader == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = loader.Load(ctx) // logged by the loader
			}
		}
	}()
}
