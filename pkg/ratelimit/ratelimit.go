// Package ratelimit enforces a minimum spacing between outbound requests.
//
// A [Limiter] hands out grants no closer together than 1/rps. Each source
// client owns its own Limiter, so the structured endpoint and the HTML pages
// are paced independently. Waiting is cancellable: a caller whose context
// ends gives its slot back and leaves the window as if it had never asked.
//
//	lim := ratelimit.New(0.5) // one grant every two seconds
//	if err := lim.Acquire(ctx); err != nil {
//	    return err // ctx cancelled or deadline exceeded
//	}
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces grants at a fixed minimum interval.
// It is safe for concurrent use.
type Limiter struct {
	lim      *rate.Limiter
	interval time.Duration
}

// New creates a limiter allowing rps grants per second.
// rps <= 0 disables pacing.
func New(rps float64) *Limiter {
	if rps <= 0 {
		return &Limiter{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	interval := time.Duration(float64(time.Second) / rps)
	return &Limiter{
		lim:      rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Acquire blocks until the next grant is due. Grants are reserved in call
// order; the returned error is non-nil only when ctx ends first, in which
// case the reservation is released.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.lim.Wait(ctx)
}

// Interval returns the minimum spacing between grants (zero when unlimited).
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
