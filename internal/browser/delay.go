package browser

import (
	"context"
	"math/rand"
	"time"
)

// Window is an inclusive politeness delay range.
type Window struct {
	Min time.Duration
	Max time.Duration
}

// Pauser waits somewhere inside w or until ctx is done.
type Pauser func(ctx context.Context, w Window) error

// RandomDelay sleeps for a uniformly random duration in w.
func RandomDelay(ctx context.Context, w Window) error {
	d := w.Min
	if w.Max > w.Min {
		d += time.Duration(rand.Int63n(int64(w.Max-w.Min) + 1))
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay is a Pauser that only honours cancellation.
func NoDelay(ctx context.Context, _ Window) error {
	return ctx.Err()
}
