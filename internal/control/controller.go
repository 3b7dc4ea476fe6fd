// internal/control/controller.go
package control

import "fmt"

// Servo positions, degrees.
const (
	AngleLow  = 0
	AngleMid  = 60
	AngleHigh = 120
)

// Thresholds are the humidity (%RH) decision points.
type Thresholds struct {
	// Below LowRH the servo goes to AngleLow, above HighRH to AngleHigh.
	LowRH  float64
	HighRH float64

	// The fan switches on above FanOnAbove and off below FanOffBelow.
	// Between the two (or exactly at both when equal) it keeps its state.
	FanOnAbove  float64
	FanOffBelow float64
}

// DefaultThresholds reproduce the field installation.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowRH:       60,
		HighRH:      70,
		FanOnAbove:  80,
		FanOffBelow: 80,
	}
}

// Validate rejects orderings that would make the bands overlap.
func (t Thresholds) Validate() error {
	if t.LowRH > t.HighRH {
		return fmt.Errorf("control: low_rh %.1f > high_rh %.1f", t.LowRH, t.HighRH)
	}
	if t.FanOffBelow > t.FanOnAbove {
		return fmt.Errorf("control: fan_off_below %.1f > fan_on_above %.1f", t.FanOffBelow, t.FanOnAbove)
	}
	return nil
}

// State is the actuation state. It is logical: relay polarity is
// applied by Relay, never here.
type State struct {
	Angle int
	FanOn bool
}

// Controller holds the actuation state between polls. It starts at
// angle 0 with the fan off and only changes on Update.
type Controller struct {
	th    Thresholds
	state State
}

func NewController(th Thresholds) *Controller {
	return &Controller{th: th}
}

// Update folds a successful humidity reading into the state.
func (c *Controller) Update(rh float64) State {
	switch {
	case rh < c.th.LowRH:
		c.state.Angle = AngleLow
	case rh > c.th.HighRH:
		c.state.Angle = AngleHigh
	default:
		c.state.Angle = AngleMid
	}

	if rh > c.th.FanOnAbove {
		c.state.FanOn = true
	}
	if rh < c.th.FanOffBelow {
		c.state.FanOn = false
	}
	return c.state
}

func (c *Controller) State() State { return c.state }
