// Package feed keeps a client's interaction list fresh by re-polling it on a
// fixed interval and pushing the whole list each cycle.
package feed

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the refresh period of the interaction list
const DefaultInterval = 30 * time.Second

// Poller fetches a value immediately and then once per interval, handing each
// successful result to sink. Results replace each other; there is no diffing.
type Poller[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	sink     func(T) error
	interval time.Duration
	log      *zap.Logger
}

// NewPoller builds a poller. A non-positive interval falls back to DefaultInterval.
func NewPoller[T any](fetch func(ctx context.Context) (T, error), sink func(T) error, interval time.Duration, log *zap.Logger) *Poller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller[T]{fetch: fetch, sink: sink, interval: interval, log: log}
}

// Run polls until ctx is cancelled or the sink fails. A failed fetch is logged
// and retried on the next tick. Cancellation stops the ticker and returns ctx.Err().
func (p *Poller[T]) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.cycle(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller[T]) cycle(ctx context.Context) error {
	value, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.log.Warn("Feed refresh failed", zap.Error(err))
		return nil
	}
	return p.sink(value)
}
