// internal/rtu/master.go
package rtu

import (
	"errors"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/humidity-actuator/internal/hw"
)

const responseBufLen = 64

// Master runs single request/response transactions on one link.
// It never retries: the caller's next scheduled poll is the retry.
type Master struct {
	tr *Transport
	rd *Reader

	// Tracef, when set, receives every frame sent and captured.
	Tracef func(format string, args ...interface{})
}

// NewMaster builds a master on tr, capturing responses with the given
// absolute timeout and inter-byte gap (zero selects the default).
func NewMaster(tr *Transport, clock hw.Clock, timeout, gap time.Duration) *Master {
	rd := NewReader(tr, clock)
	if timeout > 0 {
		rd.Timeout = timeout
	}
	if gap > 0 {
		rd.Gap = gap
	}
	return &Master{tr: tr, rd: rd}
}

// ReadRegisters reads count registers starting at start with function fn
// (read-holding or read-input) from slaveID into out.
func (m *Master) ReadRegisters(slaveID, fn byte, start, count uint16, out []uint16) error {
	if count == 0 || int(count) > len(out) || count > MaxRegisters {
		return ErrInvalidCount
	}
	req, err := NewReadRequest(slaveID, fn, start, count)
	if err != nil {
		return err
	}

	err = m.tr.Send(req[:])
	m.tracef("<- %v", req)
	if err != nil {
		return err
	}

	var buf [responseBufLen]byte
	n, rerr := m.rd.Capture(buf[:], ResponseLen(count))
	frame := buf[:n]
	m.tracef("-> [%d] % x", n, frame)
	if n == 0 {
		if rerr != nil {
			return &IOError{Op: "read", Err: rerr}
		}
		return ErrTimeout
	}

	err = DecodeReadResponse(slaveID, fn, count, frame, out)
	var xerr *modbus.ModbusError
	if errors.As(err, &xerr) {
		m.tracef("slave %d exception code %d", slaveID, xerr.ExceptionCode)
	}
	return err
}

func (m *Master) tracef(format string, args ...interface{}) {
	if m.Tracef != nil {
		m.Tracef(format, args...)
	}
}
