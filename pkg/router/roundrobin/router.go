package roundrobin

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/scansoal/scansoal/pkg/provider"
	"github.com/scansoal/scansoal/pkg/router"
)

var ErrUnavailable = errors.New("all providers are unavailable")

var _ provider.Completer = (*Completer)(nil)

// Completer spreads requests randomly across healthy completers and fails
// over to the next one when a completer errors before producing output.
type Completer struct {
	completers []provider.Completer
	stats      []*router.ProviderStats

	failureThreshold int
	recoveryTimeout  time.Duration
}

type Option func(*Completer)

func WithFailureThreshold(n int) Option {
	return func(c *Completer) {
		c.failureThreshold = n
	}
}

func WithRecoveryTimeout(d time.Duration) Option {
	return func(c *Completer) {
		c.recoveryTimeout = d
	}
}

func NewCompleter(completers []provider.Completer, options ...Option) (*Completer, error) {
	if len(completers) == 0 {
		return nil, errors.New("at least one completer is required")
	}

	stats := make([]*router.ProviderStats, len(completers))

	for i := range stats {
		stats[i] = router.NewProviderStats()
	}

	c := &Completer{
		completers: completers,
		stats:      stats,

		failureThreshold: router.DefaultFailureThreshold,
		recoveryTimeout:  router.DefaultRecoveryTimeout,
	}

	for _, option := range options {
		option(c)
	}

	if c.failureThreshold <= 0 {
		c.failureThreshold = router.DefaultFailureThreshold
	}

	if c.recoveryTimeout <= 0 {
		c.recoveryTimeout = router.DefaultRecoveryTimeout
	}

	return c, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) iter.Seq2[*provider.Completion, error] {
	return func(yield func(*provider.Completion, error) bool) {
		var errs []error

		for _, index := range c.candidates() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			stats := c.stats[index]
			stats.AddInflight(1)

			var hasResponse bool
			var failure error

			for completion, err := range c.completers[index].Complete(ctx, messages, options) {
				if err != nil {
					failure = err
					break
				}

				hasResponse = true

				if !yield(completion, nil) {
					break
				}
			}

			stats.AddInflight(-1)

			if failure == nil {
				stats.RecordSuccess()
				return
			}

			stats.RecordFailure(c.failureThreshold)

			if hasResponse || ctx.Err() != nil {
				yield(nil, failure)
				return
			}

			slog.WarnContext(ctx, "completer failed, trying next", "index", index, "error", failure)

			errs = append(errs, failure)
		}

		if len(errs) == 0 {
			yield(nil, ErrUnavailable)
			return
		}

		yield(nil, errors.Join(append([]error{ErrUnavailable}, errs...)...))
	}
}

// candidates returns healthy completers in random order. When every circuit
// is open the least recently failed completer is probed.
func (c *Completer) candidates() []int {
	result := make([]int, 0, len(c.completers))

	for i, stat := range c.stats {
		if stat.IsAvailable(c.recoveryTimeout) {
			result = append(result, i)
		}
	}

	if len(result) == 0 {
		return []int{c.fallbackProvider()}
	}

	rand.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})

	return result
}

func (c *Completer) fallbackProvider() int {
	bestIndex := 0

	var oldestFailure time.Time

	for i, stat := range c.stats {
		lastFailure := stat.LastFailure()

		if i == 0 || lastFailure.Before(oldestFailure) {
			oldestFailure = lastFailure
			bestIndex = i
		}
	}

	c.stats[bestIndex].SetHalfOpen()

	return bestIndex
}
