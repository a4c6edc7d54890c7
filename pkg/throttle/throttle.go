// Package throttle paces calls against an external API budget.
//
// The deletion executor must stay under Discord's per-channel delete limit
// (roughly 5 deletions per second). Pacing is behind the Limiter interface so
// the policy is swappable and tests can run without real sleeps.
package throttle

import (
	"context"
	"time"
)

// Limiter grants permission to issue the next call. Wait blocks until a slot
// is available or the context is canceled.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Interval is a fixed-interval Limiter: every Wait after the first blocks
// for the configured interval. An interval of 0 never blocks.
type Interval struct {
	interval time.Duration
}

// NewInterval creates an Interval limiter
func NewInterval(interval time.Duration) *Interval {
	return &Interval{interval: interval}
}

// Wait pauses for the configured interval, honoring context cancellation
func (l *Interval) Wait(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(l.interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Nop is a Limiter that never blocks, for tests and dry runs
type Nop struct{}

// Wait returns immediately
func (Nop) Wait(ctx context.Context) error {
	return ctx.Err()
}
