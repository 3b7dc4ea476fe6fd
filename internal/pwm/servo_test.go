// internal/pwm/servo_test.go
package pwm

import (
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/humidity-actuator/internal/hw/hwtest"
)

func TestPulseWidth(t *testing.T) {
	s := NewServo(&hwtest.RecordingPin{}, hwtest.NewStepClock(time.Microsecond))

	testCases := []struct {
		angle int
		want  time.Duration
	}{
		{angle: 0, want: 500 * time.Microsecond},
		{angle: 60, want: 1500 * time.Microsecond},
		{angle: 120, want: 2500 * time.Microsecond},
		{angle: 1, want: 516 * time.Microsecond},
		{angle: -30, want: 500 * time.Microsecond},
		{angle: 180, want: 2500 * time.Microsecond},
	}

	for _, tc := range testCases {
		if got := s.PulseWidth(tc.angle); got != tc.want {
			t.Errorf("PulseWidth(%d)=%v, want %v", tc.angle, got, tc.want)
		}
	}
}

func TestPulseWidth_CustomRange(t *testing.T) {
	s := NewServo(&hwtest.RecordingPin{}, hwtest.NewStepClock(time.Microsecond))
	s.MinPulse = 1000 * time.Microsecond
	s.MaxPulse = 2000 * time.Microsecond

	if got := s.PulseWidth(60); got != 1500*time.Microsecond {
		t.Fatalf("PulseWidth(60)=%v, want 1.5ms", got)
	}
}

func TestCycle(t *testing.T) {
	clock := hwtest.NewStepClock(10 * time.Microsecond)
	pin := &hwtest.RecordingPin{Clock: clock}
	s := NewServo(pin, clock)

	start := clock.T
	if err := s.Cycle(120); err != nil {
		t.Fatalf("Cycle err=%v", err)
	}

	if len(pin.Events) != 2 || !pin.Events[0].High || pin.Events[1].High {
		t.Fatalf("events = %+v, want [high low]", pin.Events)
	}
	high := pin.Events[1].At.Sub(pin.Events[0].At)
	if high < 2500*time.Microsecond || high > 2550*time.Microsecond {
		t.Fatalf("high phase %v, want ~2.5ms", high)
	}
	if total := clock.T.Sub(start); total < DefaultPeriod {
		t.Fatalf("cycle took %v, want at least %v", total, DefaultPeriod)
	}
}

func TestCycle_PinError(t *testing.T) {
	pin := &hwtest.RecordingPin{Err: errors.New("gpio busy")}
	s := NewServo(pin, hwtest.NewStepClock(time.Microsecond))

	if err := s.Cycle(60); err == nil {
		t.Fatalf("expected pin error")
	}
}
