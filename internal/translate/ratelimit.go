package translate

import (
	"context"
	"time"
)

// fixedDelayLimiter sleeps a constant duration after every API call.
// Crude but matches what the external quota actually tolerates; no
// backoff is performed on failure.
type fixedDelayLimiter struct {
	delay time.Duration
}

// NewFixedDelayLimiter returns a limiter pausing the given duration per
// call. A non-positive delay disables pacing.
func NewFixedDelayLimiter(delay time.Duration) Limiter {
	return &fixedDelayLimiter{delay: delay}
}

func (l *fixedDelayLimiter) Wait(ctx context.Context) error {
	if l.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(l.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NopLimiter performs no pacing. Used by tests and offline providers.
type NopLimiter struct{}

func (NopLimiter) Wait(context.Context) error { return nil }
