package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExpired(t *testing.T) {
	now := time.Now()

	require.False(t, (&Object{}).Expired(now))
	require.False(t, (&Object{ExpiresAt: now.Add(time.Second)}).Expired(now))
	require.True(t, (&Object{ExpiresAt: now}).Expired(now))

	require.Equal(t, time.Duration(0), (&Object{}).TTL(now))
	require.Equal(t, time.Minute, (&Object{ExpiresAt: now.Add(time.Minute)}).TTL(now))
}

type countingCleaner struct {
	calls atomic.Int64
}

func (c *countingCleaner) Cleanup(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return 1, nil
}

func TestRunJanitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	c := &countingCleaner{}
	done := make(chan struct{})

	go func() {
		RunJanitor(ctx, c, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return c.calls.Load() >= 2
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}
