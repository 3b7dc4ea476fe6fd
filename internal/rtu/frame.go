// internal/rtu/frame.go
package rtu

import (
	"encoding/binary"
	"fmt"

	"github.com/goburrow/modbus"
)

const (
	FuncReadHoldingRegisters byte = modbus.FuncCodeReadHoldingRegisters
	FuncReadInputRegisters   byte = modbus.FuncCodeReadInputRegisters

	// MaxRegisters caps a single read.
	MaxRegisters = 10

	// RequestLen is the size of a read-registers request ADU.
	RequestLen = 8

	exceptionFlag = 0x80
	fieldSlaveID  = "slave id"
	fieldFunction = "function"
)

// Request is a read-registers request ADU:
// id, function, start (BE), count (BE), CRC (LE).
type Request [RequestLen]byte

// NewReadRequest builds a request. Nothing is sent when it fails.
func NewReadRequest(slaveID, fn byte, start, count uint16) (Request, error) {
	var r Request
	if count == 0 || count > MaxRegisters {
		return r, ErrInvalidCount
	}
	if fn != FuncReadHoldingRegisters && fn != FuncReadInputRegisters {
		return r, ErrInvalidFunction
	}
	r[0] = slaveID
	r[1] = fn
	binary.BigEndian.PutUint16(r[2:4], start)
	binary.BigEndian.PutUint16(r[4:6], count)
	crc := CRC16(r[:6])
	r[6] = byte(crc)
	r[7] = byte(crc >> 8)
	return r, nil
}

// ParseReadRequest validates b as a read-registers request.
func ParseReadRequest(b []byte) (Request, error) {
	var r Request
	if len(b) != RequestLen {
		return r, ErrShortFrame
	}
	if !CheckCRC(b) {
		return r, ErrCRC
	}
	copy(r[:], b)
	if r.Function() != FuncReadHoldingRegisters && r.Function() != FuncReadInputRegisters {
		return r, ErrInvalidFunction
	}
	if c := r.Count(); c == 0 || c > MaxRegisters {
		return r, ErrInvalidCount
	}
	return r, nil
}

func (r Request) SlaveID() byte { return r[0] }

func (r Request) Function() byte { return r[1] }

func (r Request) Start() uint16 { return binary.BigEndian.Uint16(r[2:4]) }

func (r Request) Count() uint16 { return binary.BigEndian.Uint16(r[4:6]) }

func (r Request) String() string { return fmt.Sprintf("% x", r[:]) }

// ResponseLen is the size of a normal response carrying count registers.
func ResponseLen(count uint16) int {
	return 5 + 2*int(count)
}

// DecodeReadResponse validates a captured response against the request
// parameters and, on success, stores the registers in out.
func DecodeReadResponse(slaveID, fn byte, count uint16, frame []byte, out []uint16) error {
	if count == 0 || int(count) > len(out) || count > MaxRegisters {
		return ErrInvalidCount
	}
	if len(frame) < 5 {
		return ErrShortFrame
	}
	if frame[0] != slaveID {
		return &MismatchError{Field: fieldSlaveID, Want: slaveID, Got: frame[0]}
	}
	if frame[1] == fn|exceptionFlag {
		return &modbus.ModbusError{FunctionCode: frame[1], ExceptionCode: frame[2]}
	}
	if frame[1] != fn {
		return &MismatchError{Field: fieldFunction, Want: fn, Got: frame[1]}
	}
	bc := int(frame[2])
	if bc != 2*int(count) {
		return &ByteCountError{Want: 2 * int(count), Got: bc}
	}
	if len(frame) < 3+bc+2 {
		return ErrShortFrame
	}
	if !CheckCRC(frame[:3+bc+2]) {
		return ErrCRC
	}
	for i := 0; i < int(count); i++ {
		out[i] = binary.BigEndian.Uint16(frame[3+2*i:])
	}
	return nil
}
