// internal/rtu/errors.go
package rtu

import (
	"errors"
	"fmt"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
)

// Error is a fixed transaction failure.
type Error string

func (e Error) Error() string {
	return "rtu: " + string(e)
}

var (
	ErrTimeout         = Error("timeout")
	ErrShortFrame      = Error("short frame")
	ErrCRC             = Error("CRC mismatch")
	ErrInvalidCount    = Error("register count out of range")
	ErrInvalidFunction = Error("unsupported function code")
)

// MismatchError reports a response header field that does not echo the request.
type MismatchError struct {
	Field string // "slave id" or "function"
	Want  byte
	Got   byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("rtu: %s mismatch (want 0x%02x, got 0x%02x)", e.Field, e.Want, e.Got)
}

// ByteCountError reports a byte-count field inconsistent with the request.
type ByteCountError struct {
	Want int
	Got  int
}

func (e *ByteCountError) Error() string {
	return fmt.Sprintf("rtu: byte count %d, want %d", e.Got, e.Want)
}

// IOError wraps a failure of the serial channel itself.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return "rtu: " + e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// Kind is the failure class of a transaction.
type Kind uint8

const (
	KindNone Kind = iota
	KindTimeout
	KindShortFrame
	KindSlaveMismatch
	KindFunctionMismatch
	KindException
	KindByteCount
	KindCRC
	KindInvalidRequest
	KindIO
	KindOther
)

var kindNames = [...]string{
	KindNone:             "ok",
	KindTimeout:          "timeout",
	KindShortFrame:       "short_frame",
	KindSlaveMismatch:    "slave_mismatch",
	KindFunctionMismatch: "function_mismatch",
	KindException:        "exception",
	KindByteCount:        "byte_count",
	KindCRC:              "crc",
	KindInvalidRequest:   "invalid_request",
	KindIO:               "io",
	KindOther:            "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Classify maps err onto the transaction failure taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var (
		mismatch *MismatchError
		count    *ByteCountError
		xerr     *modbus.ModbusError
		ioerr    *IOError
	)
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, serial.ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrShortFrame):
		return KindShortFrame
	case errors.Is(err, ErrCRC):
		return KindCRC
	case errors.Is(err, ErrInvalidCount), errors.Is(err, ErrInvalidFunction):
		return KindInvalidRequest
	case errors.As(err, &mismatch):
		if mismatch.Field == fieldSlaveID {
			return KindSlaveMismatch
		}
		return KindFunctionMismatch
	case errors.As(err, &count):
		return KindByteCount
	case errors.As(err, &xerr):
		return KindException
	case errors.As(err, &ioerr):
		return KindIO
	}
	return KindOther
}

// Code condenses err into a status register value: the Kind, or for slave
// exceptions 0x100 plus the exception code.
func Code(err error) uint16 {
	var xerr *modbus.ModbusError
	if errors.As(err, &xerr) {
		return 0x100 | uint16(xerr.ExceptionCode)
	}
	return uint16(Classify(err))
}
