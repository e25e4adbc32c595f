package store

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner is implemented by stores that need expired objects swept.
type Cleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// RunJanitor calls Cleanup every interval until ctx is done.
func RunJanitor(ctx context.Context, c Cleaner, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			n, err := c.Cleanup(ctx)

			if err != nil {
				slog.WarnContext(ctx, "store cleanup failed", "error", err)
				continue
			}

			if n > 0 {
				slog.DebugContext(ctx, "expired documents removed", "count", n)
			}
		}
	}
}
