package roundrobin

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scansoal/scansoal/pkg/provider"
	"github.com/scansoal/scansoal/pkg/router"
)

type mockCompleter struct {
	err      error
	response string
	calls    atomic.Int64
}

func (m *mockCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		m.calls.Add(1)

		if m.err != nil {
			yield(nil, m.err)
			return
		}

		message := provider.AssistantMessage(m.response)

		yield(&provider.Completion{
			ID:      "test",
			Message: &message,
		}, nil)
	}
}

var messages = []provider.Message{provider.UserMessage("test")}

func TestNewCompleter(t *testing.T) {
	_, err := NewCompleter(nil)
	require.Error(t, err)

	c, err := NewCompleter([]provider.Completer{&mockCompleter{response: "hello"}})
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestComplete(t *testing.T) {
	mock := &mockCompleter{response: "hello"}

	c, err := NewCompleter([]provider.Completer{mock})
	require.NoError(t, err)

	result, err := provider.Collect(c.Complete(context.Background(), messages, nil))
	require.NoError(t, err)
	require.Equal(t, "hello", result.Message.Text())
	require.EqualValues(t, 1, mock.calls.Load())
}

func TestFailover(t *testing.T) {
	failing := &mockCompleter{err: errors.New("provider error")}
	healthy := &mockCompleter{response: "ok"}

	c, err := NewCompleter([]provider.Completer{failing, healthy})
	require.NoError(t, err)

	for range 20 {
		result, err := provider.Collect(c.Complete(context.Background(), messages, nil))
		require.NoError(t, err)
		require.Equal(t, "ok", result.Message.Text())
	}

	require.EqualValues(t, 20, healthy.calls.Load())
	require.LessOrEqual(t, failing.calls.Load(), int64(router.DefaultFailureThreshold))
	require.Equal(t, router.CircuitOpen, c.stats[0].State())
}

func TestAllFailing(t *testing.T) {
	cause := errors.New("provider error")

	c, err := NewCompleter([]provider.Completer{&mockCompleter{err: cause}, &mockCompleter{err: cause}}, WithFailureThreshold(1))
	require.NoError(t, err)

	_, err = provider.Collect(c.Complete(context.Background(), messages, nil))
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, cause)

	require.Equal(t, router.CircuitOpen, c.stats[0].State())
	require.Equal(t, router.CircuitOpen, c.stats[1].State())

	// every circuit open: the least recently failed one is still probed
	_, err = provider.Collect(c.Complete(context.Background(), messages, nil))
	require.ErrorIs(t, err, cause)
}

func TestCanceled(t *testing.T) {
	mock := &mockCompleter{response: "hello"}

	c, err := NewCompleter([]provider.Completer{mock})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = provider.Collect(c.Complete(ctx, messages, nil))
	require.ErrorIs(t, err, context.Canceled)
	require.EqualValues(t, 0, mock.calls.Load())
}
