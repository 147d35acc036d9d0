package hardware

import (
	"context"
	"time"
)

// WaitFunc blocks for d or until ctx is done
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production WaitFunc. It uses a timer so a cancelled
// context releases the caller immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Latency simulates the time a command spends on the virtual hardware
type Latency struct {
	// Scale multiplies every delay; 0 disables waiting
	Scale float64
	Wait  WaitFunc
}

// NewLatency returns a Latency using Sleep
func NewLatency(scale float64) Latency {
	return Latency{Scale: scale, Wait: Sleep}
}

// Delay computes base scaled by multiplier and the configured scale
func (l Latency) Delay(base time.Duration, multiplier float64) time.Duration {
	if l.Scale <= 0 || multiplier <= 0 {
		return 0
	}
	return time.Duration(float64(base) * multiplier * l.Scale)
}

// Simulate waits for the scaled delay and returns it. VIP players never
// wait and get a zero delay.
func (l Latency) Simulate(ctx context.Context, base time.Duration, multiplier float64, vip bool) (time.Duration, error) {
	if vip {
		return 0, nil
	}
	d := l.Delay(base, multiplier)
	if d == 0 {
		return 0, nil
	}
	wait := l.Wait
	if wait == nil {
		wait = Sleep
	}
	if err := wait(ctx, d); err != nil {
		return d, err
	}
	return d, nil
}
