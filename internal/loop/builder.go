// internal/loop/builder.go
package loop

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/humidity-actuator/internal/config"
	"github.com/tamzrod/humidity-actuator/internal/control"
	"github.com/tamzrod/humidity-actuator/internal/hw"
	"github.com/tamzrod/humidity-actuator/internal/metrics"
	"github.com/tamzrod/humidity-actuator/internal/poller"
	"github.com/tamzrod/humidity-actuator/internal/pwm"
	"github.com/tamzrod/humidity-actuator/internal/rtu"
	"github.com/tamzrod/humidity-actuator/internal/writer"
)

// Hardware is what the loop drives. Opening it is the caller's job.
type Hardware struct {
	Clock     hw.Clock
	Port      io.ReadWriter
	Direction hw.OutputPin // nil for an auto-direction transceiver
	Servo     hw.OutputPin
	Relay     hw.OutputPin
}

// Build wires a Loop from a normalized config.
// w and m may be nil.
func Build(c cfg.Config, h Hardware, w writer.Writer, m *metrics.Metrics, log *logrus.Entry) (*Loop, error) {
	th := control.Thresholds{
		LowRH:       *c.Thresholds.LowRH,
		HighRH:      *c.Thresholds.HighRH,
		FanOnAbove:  *c.Thresholds.FanOnAbove,
		FanOffBelow: *c.Thresholds.FanOffBelow,
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}

	tr := rtu.NewTransport(h.Port, h.Direction, h.Clock, c.Serial.BaudRate)
	tr.SilentInterval = ms(c.Sensor.SilentMs)

	master := rtu.NewMaster(tr, h.Clock, ms(c.Sensor.TimeoutMs), ms(c.Sensor.GapMs))
	if c.Log.Trace {
		master.Tracef = log.WithField("component", "rtu").Debugf
	}

	p, err := poller.Build(c, master)
	if err != nil {
		return nil, err
	}

	servo := pwm.NewServo(h.Servo, h.Clock)
	servo.MinPulse = us(c.Servo.MinPulseUs)
	servo.MaxPulse = us(c.Servo.MaxPulseUs)
	servo.Period = us(c.Servo.PeriodUs)
	servo.MaxAngle = c.Servo.MaxAngle

	return New(Deps{
		Clock:      h.Clock,
		Poller:     p,
		Controller: control.NewController(th),
		Relay:      control.Relay{Pin: h.Relay, ActiveLow: *c.Relay.ActiveLow},
		Servo:      servo,
		Writer:     w,
		Metrics:    m,
		Log:        log,
	})
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func us(v int) time.Duration { return time.Duration(v) * time.Microsecond }
