package upload

import (
	"context"
	"time"
)

// Clock supplies the poll loop's notion of time. Production code uses the
// system clock; tests substitute a virtual clock so polling scenarios run
// without real sleeps.
type Clock interface {
	Now() time.Time
	// Sleep blocks for the given duration or until the context is done,
	// returning the context error in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
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
