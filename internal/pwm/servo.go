// internal/pwm/servo.go
package pwm

import (
	"time"

	"github.com/tamzrod/humidity-actuator/internal/hw"
)

const (
	DefaultMinPulse = 500 * time.Microsecond
	DefaultMaxPulse = 2500 * time.Microsecond
	DefaultPeriod   = 20 * time.Millisecond
	DefaultMaxAngle = 120
)

// Servo generates the servo signal in software: one call to Cycle is one
// period, high for the pulse and low for the rest, both busy-waited.
type Servo struct {
	Pin   hw.OutputPin
	Clock hw.Clock

	MinPulse time.Duration
	MaxPulse time.Duration
	Period   time.Duration
	MaxAngle int
}

// NewServo returns a servo with the default 50 Hz timing.
func NewServo(pin hw.OutputPin, clock hw.Clock) *Servo {
	return &Servo{
		Pin:      pin,
		Clock:    clock,
		MinPulse: DefaultMinPulse,
		MaxPulse: DefaultMaxPulse,
		Period:   DefaultPeriod,
		MaxAngle: DefaultMaxAngle,
	}
}

// PulseWidth maps angle, clamped to [0, MaxAngle], linearly onto
// [MinPulse, MaxPulse] in whole microseconds.
func (s *Servo) PulseWidth(angle int) time.Duration {
	if angle < 0 {
		angle = 0
	}
	if angle > s.MaxAngle {
		angle = s.MaxAngle
	}
	minUs := s.MinPulse.Microseconds()
	maxUs := s.MaxPulse.Microseconds()
	us := minUs + int64(angle)*(maxUs-minUs)/int64(s.MaxAngle)
	return time.Duration(us) * time.Microsecond
}

// Cycle drives one full period for angle.
func (s *Servo) Cycle(angle int) error {
	pulse := s.PulseWidth(angle)

	if err := s.Pin.High(); err != nil {
		return err
	}
	hw.Spin(s.Clock, pulse)
	if err := s.Pin.Low(); err != nil {
		return err
	}
	hw.Spin(s.Clock, s.Period-pulse)
	return nil
}
