// internal/loop/loop.go
package loop

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/humidity-actuator/internal/control"
	"github.com/tamzrod/humidity-actuator/internal/hw"
	"github.com/tamzrod/humidity-actuator/internal/metrics"
	"github.com/tamzrod/humidity-actuator/internal/poller"
	"github.com/tamzrod/humidity-actuator/internal/pwm"
	"github.com/tamzrod/humidity-actuator/internal/rtu"
	"github.com/tamzrod/humidity-actuator/internal/status"
	"github.com/tamzrod/humidity-actuator/internal/writer"
)

// Deps is everything the loop owns. Writer and Metrics are optional.
type Deps struct {
	Clock      hw.Clock
	Poller     *poller.Poller
	Controller *control.Controller
	Relay      control.Relay
	Servo      *pwm.Servo
	Writer     writer.Writer
	Metrics    *metrics.Metrics
	Log        *logrus.Entry
}

// Loop is the control loop. It is single-threaded: every field is owned
// by the goroutine calling Step or Run.
type Loop struct {
	d       Deps
	tracker status.Tracker
	last    poller.PollResult
}

func New(d Deps) (*Loop, error) {
	if d.Clock == nil || d.Poller == nil || d.Controller == nil || d.Servo == nil || d.Relay.Pin == nil {
		return nil, errors.New("loop: clock, poller, controller, relay and servo are required")
	}
	if d.Log == nil {
		d.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Loop{d: d}, nil
}

// Step runs one iteration: a poll if one is due, then one PWM period.
// The PWM period runs whatever the poll outcome.
func (l *Loop) Step() error {
	if now := l.d.Clock.Now(); l.d.Poller.Due(now) {
		l.poll(now)
	}
	return l.d.Servo.Cycle(l.d.Controller.State().Angle)
}

func (l *Loop) poll(now time.Time) {
	res := l.d.Poller.PollOnce(now)
	l.last = res
	snap := l.tracker.Observe(res.HumidityErr, now)

	l.logFailure(poller.RegHumidity, res.HumidityErr)
	l.logFailure(poller.RegTemperature, res.TemperatureErr)

	if res.Reading.HumidityOK {
		prev := l.d.Controller.State()
		state := l.d.Controller.Update(res.Reading.Humidity)
		if err := l.d.Relay.Set(state.FanOn); err != nil {
			l.d.Log.WithError(err).Error("relay write failed")
		}
		if state != prev {
			l.d.Log.WithFields(logrus.Fields{
				"humidity": res.Reading.Humidity,
				"angle":    state.Angle,
				"fan":      state.FanOn,
			}).Info("actuation changed")
		}
	}

	l.d.Log.WithFields(logrus.Fields{
		"humidity":       res.Reading.Humidity,
		"humidity_ok":    res.Reading.HumidityOK,
		"temperature":    res.Reading.Temperature,
		"temperature_ok": res.Reading.TemperatureOK,
	}).Debug("poll")

	state := l.d.Controller.State()
	if l.d.Metrics != nil {
		l.d.Metrics.ObservePoll(res)
		l.d.Metrics.ObserveState(state, snap)
	}
	if l.d.Writer != nil {
		rec := writer.Record{At: now, Reading: res.Reading, State: state, Snapshot: snap}
		if err := l.d.Writer.Write(rec); err != nil {
			l.d.Log.WithError(err).Warn("writer error")
		}
	}
}

func (l *Loop) logFailure(register string, err error) {
	if err == nil {
		return
	}
	l.d.Log.WithFields(logrus.Fields{
		"register": register,
		"kind":     rtu.Classify(err).String(),
	}).WithError(err).Warn("read failed")
}

// Run arms the poll schedule and steps until ctx is done. On exit the
// relay is released to off and the servo line is left low.
func (l *Loop) Run(ctx context.Context) error {
	l.d.Poller.Start(l.d.Clock.Now())
	defer l.release()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := l.Step(); err != nil {
			return err
		}
	}
}

func (l *Loop) release() {
	if err := l.d.Relay.Set(false); err != nil {
		l.d.Log.WithError(err).Error("relay release failed")
	}
	if err := l.d.Servo.Pin.Low(); err != nil {
		l.d.Log.WithError(err).Error("servo release failed")
	}
}

// State is the current actuation state.
func (l *Loop) State() control.State { return l.d.Controller.State() }

// Status is the current link status.
func (l *Loop) Status() status.Snapshot { return l.tracker.Snapshot() }

// LastPoll is the result of the most recent poll.
func (l *Loop) LastPoll() poller.PollResult { return l.last }
