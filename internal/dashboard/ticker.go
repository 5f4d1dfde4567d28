package dashboard

import (
	"context"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Run calls fn with clock.Now() immediately and then on every tick until ctx
// is cancelled. It returns ctx.Err().
func Run(ctx context.Context, interval time.Duration, clock Clock, fn func(time.Time)) error {
	fn(clock.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn(clock.Now())
		}
	}
}
