// internal/writer/writer_test.go
package writer

import (
	"errors"
	"strings"
	"testing"

	cfg "github.com/tamzrod/humidity-actuator/internal/config"
	"github.com/tamzrod/humidity-actuator/internal/control"
	"github.com/tamzrod/humidity-actuator/internal/status"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	lastRegs     []uint16
	lastRegsAddr uint16
	writes       int
	fail         error
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	f.writes++
	if f.fail != nil {
		return f.fail
	}
	f.lastRegsAddr = addr
	f.lastRegs = append([]uint16(nil), regs...)
	return nil
}

type fakeWriter struct {
	recs []Record
	err  error
}

func (f *fakeWriter) Write(rec Record) error {
	f.recs = append(f.recs, rec)
	return f.err
}

func testPlan() MirrorPlan {
	return MirrorPlan{
		Endpoint:   "status-endpoint",
		UnitID:     1,
		Address:    100,
		DeviceName: "DEV-01",
	}
}

// ---- tests ----

func TestMirror_FullAssertThenIncremental(t *testing.T) {
	cli := &fakeEndpointClient{}
	m := NewMirror(testPlan(), cli)

	first := Record{Snapshot: status.Snapshot{Health: status.HealthOK}}
	if err := m.Write(first); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}
	if len(cli.lastRegs) != status.SlotsPerDevice || cli.lastRegsAddr != 100 {
		t.Fatalf("expected full block at 100, got %d regs at %d", len(cli.lastRegs), cli.lastRegsAddr)
	}

	name := status.EncodeDeviceName("DEV-01")
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		if cli.lastRegs[status.SlotDeviceNameStart+i] != name[i] {
			t.Fatalf("device name slot %d mismatch", i)
		}
	}

	second := Record{
		Snapshot: status.Snapshot{Health: status.HealthOK},
		State:    control.State{Angle: 120, FanOn: true},
	}
	if err := m.Write(second); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}
	if cli.lastRegsAddr != 100+status.SlotServoAngle || len(cli.lastRegs) != 2 {
		t.Fatalf("incremental write at %d len %d, want %d len 2",
			cli.lastRegsAddr, len(cli.lastRegs), 100+status.SlotServoAngle)
	}
	if cli.lastRegs[0] != 120 || cli.lastRegs[1] != 1 {
		t.Fatalf("incremental regs %v", cli.lastRegs)
	}

	writes := cli.writes
	if err := m.Write(second); err != nil {
		t.Fatalf("unchanged write failed: %v", err)
	}
	if cli.writes != writes {
		t.Fatalf("unchanged block written again")
	}
}

func TestMirror_SecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	m := NewMirror(testPlan(), cli)

	errRec := Record{Snapshot: status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  42,
		SecondsInError: 3,
	}}
	if err := m.Write(errRec); err != nil {
		t.Fatalf("error snapshot write failed: %v", err)
	}

	okRec := Record{Snapshot: status.Snapshot{Health: status.HealthOK}}
	if err := m.Write(okRec); err != nil {
		t.Fatalf("recovery snapshot write failed: %v", err)
	}

	if cli.lastRegsAddr != 100+status.SlotHealthCode {
		t.Fatalf("unexpected write addr: got=%d", cli.lastRegsAddr)
	}
	if len(cli.lastRegs) != 3 {
		t.Fatalf("expected 3 register write, got %d", len(cli.lastRegs))
	}
	if cli.lastRegs[status.SlotSecondsInError] != 0 {
		t.Fatalf("seconds_in_error not reset: got=%d want=0", cli.lastRegs[status.SlotSecondsInError])
	}
}

func TestMirror_FailureForcesFullAssert(t *testing.T) {
	cli := &fakeEndpointClient{}
	m := NewMirror(testPlan(), cli)

	if err := m.Write(Record{}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	cli.fail = errors.New("connection reset")
	if err := m.Write(Record{State: control.State{Angle: 60}}); err == nil {
		t.Fatalf("expected error")
	}

	cli.fail = nil
	if err := m.Write(Record{State: control.State{Angle: 60}}); err != nil {
		t.Fatalf("write after recovery failed: %v", err)
	}
	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf("expected full re-assert after failure, got %d regs", len(cli.lastRegs))
	}
}

func TestMulti(t *testing.T) {
	a := &fakeWriter{err: errors.New("a down")}
	b := &fakeWriter{}
	m := Multi{{Name: "a", Writer: a}, {Name: "b", Writer: b}}

	err := m.Write(Record{})
	if err == nil || !strings.Contains(err.Error(), "writer a") {
		t.Fatalf("err=%v, want failure naming a", err)
	}
	if len(a.recs) != 1 || len(b.recs) != 1 {
		t.Fatalf("fan-out stopped at failing writer")
	}

	if err := (Multi{}).Write(Record{}); err != nil {
		t.Fatalf("empty Multi err=%v", err)
	}
}

func TestBuildMirror_AddressRange(t *testing.T) {
	if cfg.MirrorBlockSlots != status.SlotsPerDevice {
		t.Fatalf("config block size %d != status block size %d", cfg.MirrorBlockSlots, status.SlotsPerDevice)
	}

	c := cfg.Config{Outputs: cfg.OutputsConfig{Mirror: &cfg.MirrorConfig{
		Endpoint: "127.0.0.1:502",
		Address:  65530,
	}}}
	if _, _, _, err := BuildMirror(c); err == nil {
		t.Fatalf("expected error for block past 65535")
	}

	c.Outputs.Mirror.Address = 65536 - status.SlotsPerDevice
	m, closeFn, ok, err := BuildMirror(c)
	if err != nil || !ok || m == nil {
		t.Fatalf("last fitting address rejected: ok=%v err=%v", ok, err)
	}
	_ = closeFn()
}
