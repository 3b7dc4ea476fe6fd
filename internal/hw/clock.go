// internal/hw/clock.go
package hw

import "time"

// Clock is the monotonic time source behind every busy-wait:
// response timeout, inter-byte gap, silent interval and PWM phases.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Monotonic reads the process monotonic clock (time.Now carries it).
type Monotonic struct{}

func (Monotonic) Now() time.Time { return time.Now() }

func (Monotonic) Since(t time.Time) time.Duration { return time.Since(t) }

// Spin busy-waits for d on c. It never yields.
func Spin(c Clock, d time.Duration) {
	if d <= 0 {
		return
	}
	start := c.Now()
	for c.Since(start) < d {
	}
}
