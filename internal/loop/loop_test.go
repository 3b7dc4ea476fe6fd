// internal/loop/loop_test.go
package loop

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/humidity-actuator/internal/config"
	"github.com/tamzrod/humidity-actuator/internal/control"
	"github.com/tamzrod/humidity-actuator/internal/hw/hwtest"
	"github.com/tamzrod/humidity-actuator/internal/metrics"
	"github.com/tamzrod/humidity-actuator/internal/rtu"
	"github.com/tamzrod/humidity-actuator/internal/rtu/rtutest"
	"github.com/tamzrod/humidity-actuator/internal/status"
	"github.com/tamzrod/humidity-actuator/internal/writer"
)

type fakeWriter struct {
	recs    []writer.Record
	onWrite func()
}

func (f *fakeWriter) Write(rec writer.Record) error {
	f.recs = append(f.recs, rec)
	if f.onWrite != nil {
		f.onWrite()
	}
	return nil
}

type rig struct {
	clock   *hwtest.StepClock
	slave   *rtutest.Slave
	dir     *hwtest.RecordingPin
	servo   *hwtest.RecordingPin
	relay   *hwtest.RecordingPin
	writer  *fakeWriter
	metrics *metrics.Metrics
	loop    *Loop
}

func newRig(t *testing.T, humidity uint16) *rig {
	t.Helper()

	c := &cfg.Config{Serial: cfg.SerialConfig{Device: "/dev/null", DirectionPin: "GPIO18"}}
	if err := cfg.Validate(c); err != nil {
		t.Fatalf("Validate err=%v", err)
	}
	cfg.Normalize(c)

	clock := hwtest.NewStepClock(100 * time.Microsecond)
	slave := &rtutest.Slave{
		ID:   0x01,
		Regs: map[uint16]uint16{0x0002: humidity, 0x0001: 250},
	}
	port := &hwtest.ScriptedPort{OnWrite: slave.Handle}

	r := &rig{
		clock:   clock,
		slave:   slave,
		dir:     &hwtest.RecordingPin{Clock: clock},
		servo:   &hwtest.RecordingPin{Clock: clock},
		relay:   &hwtest.RecordingPin{Clock: clock},
		writer:  &fakeWriter{},
		metrics: metrics.New(prometheus.NewRegistry()),
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	l, err := Build(*c, Hardware{
		Clock:     clock,
		Port:      port,
		Direction: r.dir,
		Servo:     r.servo,
		Relay:     r.relay,
	}, r.writer, r.metrics, logrus.NewEntry(logger))
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	r.loop = l
	return r
}

// pollNow makes the next Step poll.
func (r *rig) pollNow() {
	r.clock.Advance(time.Second)
}

func TestStep_EndToEnd(t *testing.T) {
	r := newRig(t, 0x02BC)
	r.loop.d.Poller.Start(r.clock.Now())
	r.pollNow()

	if err := r.loop.Step(); err != nil {
		t.Fatalf("Step err=%v", err)
	}

	if len(r.slave.Requests) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(r.slave.Requests))
	}
	hum, temp := r.slave.Requests[0], r.slave.Requests[1]
	if hum.Function() != rtu.FuncReadInputRegisters || hum.Start() != 0x0002 || hum.Count() != 1 {
		t.Fatalf("humidity request %v", hum)
	}
	if temp.Start() != 0x0001 {
		t.Fatalf("temperature request %v", temp)
	}

	res := r.loop.LastPoll()
	if res.Err() != nil || res.Reading.RawHumidity != 700 || res.Reading.Humidity != 70.0 {
		t.Fatalf("poll %+v", res)
	}
	if res.Reading.Temperature != 25.0 {
		t.Fatalf("temperature %v", res.Reading.Temperature)
	}

	// 70 is not above the 70 threshold
	if s := r.loop.State(); s != (control.State{Angle: 60, FanOn: false}) {
		t.Fatalf("state %+v, want 60/off", s)
	}
	// active-low relay: off is a high level
	if !r.relay.Level() {
		t.Fatalf("relay level low, want high (fan off, active-low)")
	}
	if s := r.loop.Status(); s.Health != status.HealthOK {
		t.Fatalf("status %+v", s)
	}

	if len(r.dir.Events) != 4 {
		t.Fatalf("direction events %d, want 4 (two transactions)", len(r.dir.Events))
	}
	if len(r.servo.Events) != 2 {
		t.Fatalf("servo events %d, want one cycle", len(r.servo.Events))
	}
	high := r.servo.Events[1].At.Sub(r.servo.Events[0].At)
	if high < 1500*time.Microsecond || high > 1700*time.Microsecond {
		t.Fatalf("servo pulse %v, want ~1.5ms for 60°", high)
	}

	if len(r.writer.recs) != 1 || r.writer.recs[0].State.Angle != 60 {
		t.Fatalf("writer records %+v", r.writer.recs)
	}
	if got := testutil.ToFloat64(r.metrics.Transactions.WithLabelValues("humidity", "ok")); got != 1 {
		t.Fatalf("humidity ok count %v", got)
	}
}

func TestStep_NotDueStillCycles(t *testing.T) {
	r := newRig(t, 0x02BC)
	r.loop.d.Poller.Start(r.clock.Now())

	for i := 0; i < 3; i++ {
		if err := r.loop.Step(); err != nil {
			t.Fatalf("Step err=%v", err)
		}
	}

	if len(r.slave.Requests) != 0 {
		t.Fatalf("polled before the interval elapsed")
	}
	if len(r.servo.Events) != 6 {
		t.Fatalf("servo events %d, want 3 cycles", len(r.servo.Events))
	}
	if len(r.writer.recs) != 0 {
		t.Fatalf("writer called without a poll")
	}
}

func TestStep_FailedPollKeepsState(t *testing.T) {
	r := newRig(t, 850)
	r.loop.d.Poller.Start(r.clock.Now())
	r.pollNow()

	if err := r.loop.Step(); err != nil {
		t.Fatalf("Step err=%v", err)
	}
	want := control.State{Angle: 120, FanOn: true}
	if s := r.loop.State(); s != want {
		t.Fatalf("state %+v, want %+v", s, want)
	}
	if r.relay.Level() {
		t.Fatalf("relay level high, want low (fan on, active-low)")
	}
	relayEvents := len(r.relay.Events)

	r.slave.Silent = true
	r.pollNow()
	if err := r.loop.Step(); err != nil {
		t.Fatalf("Step err=%v", err)
	}

	if s := r.loop.State(); s != want {
		t.Fatalf("state after failed poll %+v, want unchanged %+v", s, want)
	}
	if len(r.relay.Events) != relayEvents {
		t.Fatalf("relay driven after failed poll")
	}
	snap := r.loop.Status()
	if snap.Health != status.HealthError || snap.LastErrorCode != uint16(rtu.KindTimeout) {
		t.Fatalf("status %+v, want error/timeout", snap)
	}
	if len(r.servo.Events) != 4 {
		t.Fatalf("servo events %d, want a cycle on every step", len(r.servo.Events))
	}
	if got := testutil.ToFloat64(r.metrics.Transactions.WithLabelValues("humidity", "timeout")); got != 1 {
		t.Fatalf("humidity timeout count %v", got)
	}
	if len(r.writer.recs) != 2 || r.writer.recs[1].Reading.HumidityOK {
		t.Fatalf("writer records %+v", r.writer.recs)
	}
}

func TestRun_FirstPollAfterOneInterval(t *testing.T) {
	r := newRig(t, 0x02BC)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.writer.onWrite = cancel

	start := r.clock.T
	if err := r.loop.Run(ctx); err != nil {
		t.Fatalf("Run err=%v", err)
	}

	if len(r.writer.recs) != 1 {
		t.Fatalf("writer records %d, want 1", len(r.writer.recs))
	}
	if at := r.writer.recs[0].At.Sub(start); at < time.Second {
		t.Fatalf("first poll %v after start, want at least 1s", at)
	}
	if r.servo.Level() {
		t.Fatalf("servo line left high")
	}
	if !r.relay.Level() {
		t.Fatalf("relay not released to off (high, active-low)")
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	r := newRig(t, 850)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.loop.Run(ctx); err != nil {
		t.Fatalf("Run err=%v", err)
	}
	if len(r.slave.Requests) != 0 {
		t.Fatalf("polled after cancel")
	}
	if len(r.relay.Events) != 1 || !r.relay.Level() {
		t.Fatalf("relay events %+v, want a single release to off", r.relay.Events)
	}
}
