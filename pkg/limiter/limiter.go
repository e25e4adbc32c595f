package limiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

type Limiter interface {
	limiterSetup()
}

// New returns a limiter allowing limit calls per second, or nil when limit is
// not positive.
func New(limit int) *rate.Limiter {
	if limit <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(limit), limit)
}

// wait blocks until l admits one call. A nil limiter admits every call.
func wait(ctx context.Context, l *rate.Limiter, kind string) error {
	if l == nil {
		return nil
	}

	start := time.Now()

	if err := l.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit: %w", kind, err)
	}

	if delay := time.Since(start); delay > 100*time.Millisecond {
		slog.DebugContext(ctx, "call delayed by rate limit", "kind", kind, "delay", delay)
	}

	return nil
}
