// internal/rtu/transport.go
package rtu

import (
	"io"
	"time"

	"github.com/tamzrod/humidity-actuator/internal/hw"
)

// DefaultSilentInterval approximates 3.5 character times at 9600 baud.
const DefaultSilentInterval = 4 * time.Millisecond

const maxDiscardReads = 32

// Flusher is implemented by ports that can block until the transmit
// buffer has physically drained.
type Flusher interface {
	Flush() error
}

// Transport is the half-duplex side of the RS-485 link.
type Transport struct {
	port  io.ReadWriter
	dir   hw.OutputPin
	clock hw.Clock
	baud  int

	SilentInterval time.Duration
}

// NewTransport wraps port. dir may be nil for an auto-direction transceiver.
func NewTransport(port io.ReadWriter, dir hw.OutputPin, clock hw.Clock, baud int) *Transport {
	if dir == nil {
		dir = hw.NoopPin{}
	}
	if baud <= 0 {
		baud = 9600
	}
	return &Transport{
		port:           port,
		dir:            dir,
		clock:          clock,
		baud:           baud,
		SilentInterval: DefaultSilentInterval,
	}
}

// Send transmits frame: stale input is discarded first, the direction pin
// is held active from before the first byte until the silent interval after
// the last one has elapsed.
func (t *Transport) Send(frame []byte) error {
	t.Discard()

	if err := t.dir.High(); err != nil {
		return &IOError{Op: "direction", Err: err}
	}
	err := t.write(frame)
	hw.Spin(t.clock, t.SilentInterval)
	if derr := t.dir.Low(); err == nil && derr != nil {
		err = &IOError{Op: "direction", Err: derr}
	}
	return err
}

func (t *Transport) write(frame []byte) error {
	if _, err := t.port.Write(frame); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	if f, ok := t.port.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return &IOError{Op: "flush", Err: err}
		}
		return nil
	}
	hw.Spin(t.clock, t.WireTime(len(frame)))
	return nil
}

// Discard drops whatever is pending on the receive side and reports how
// many bytes were dropped.
func (t *Transport) Discard() int {
	var tmp [64]byte
	dropped := 0
	for i := 0; i < maxDiscardReads; i++ {
		n, err := t.port.Read(tmp[:])
		dropped += n
		if n == 0 || err != nil {
			break
		}
	}
	return dropped
}

// Read gives byte-level access to the receive side.
func (t *Transport) Read(b []byte) (int, error) {
	return t.port.Read(b)
}

// WireTime is how long n characters take on the line (8N1: 10 bits each).
func (t *Transport) WireTime(n int) time.Duration {
	return time.Duration(n*10) * time.Second / time.Duration(t.baud)
}
