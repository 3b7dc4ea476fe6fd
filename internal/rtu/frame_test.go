// internal/rtu/frame_test.go
package rtu

import (
	"errors"
	"testing"

	"github.com/goburrow/modbus"
)

func TestNewReadRequestLayout(t *testing.T) {
	req, err := NewReadRequest(0x01, FuncReadInputRegisters, 0x0002, 1)
	if err != nil {
		t.Fatalf("NewReadRequest err=%v", err)
	}
	want := Request{0x01, 0x04, 0x00, 0x02, 0x00, 0x01, 0x90, 0x0A}
	if req != want {
		t.Fatalf("request = %v, want %v", req, want)
	}
}

func TestNewReadRequestRejectsCount(t *testing.T) {
	for _, count := range []uint16{0, MaxRegisters + 1, 0xFFFF} {
		if _, err := NewReadRequest(1, FuncReadHoldingRegisters, 0, count); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("count=%d: err=%v, want ErrInvalidCount", count, err)
		}
	}
	if _, err := NewReadRequest(1, FuncReadHoldingRegisters, 0, MaxRegisters); err != nil {
		t.Errorf("count=%d: unexpected err=%v", MaxRegisters, err)
	}
}

func TestNewReadRequestRejectsFunction(t *testing.T) {
	if _, err := NewReadRequest(1, 0x06, 0, 1); !errors.Is(err, ErrInvalidFunction) {
		t.Fatalf("err=%v, want ErrInvalidFunction", err)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	req, err := NewReadRequest(0x11, FuncReadHoldingRegisters, 0x006B, 3)
	if err != nil {
		t.Fatalf("NewReadRequest err=%v", err)
	}
	if !CheckCRC(req[:]) {
		t.Fatalf("built request fails its own CRC check")
	}

	got, err := ParseReadRequest(req[:])
	if err != nil {
		t.Fatalf("ParseReadRequest err=%v", err)
	}
	if got.SlaveID() != 0x11 || got.Function() != FuncReadHoldingRegisters ||
		got.Start() != 0x006B || got.Count() != 3 {
		t.Fatalf("parsed fields mismatch: %v", got)
	}

	bad := req
	bad[2] ^= 0xFF
	if _, err := ParseReadRequest(bad[:]); !errors.Is(err, ErrCRC) {
		t.Fatalf("corrupted request: err=%v, want ErrCRC", err)
	}
}

// response builds a valid response locally; rtutest cannot be imported
// from inside the package.
func response(id, fn byte, regs ...uint16) []byte {
	b := []byte{id, fn, byte(2 * len(regs))}
	for _, r := range regs {
		b = append(b, byte(r>>8), byte(r))
	}
	return AppendCRC(b)
}

func TestDecodeReadResponse(t *testing.T) {
	valid := response(0x01, FuncReadInputRegisters, 0x02BC)

	out := make([]uint16, 1)
	if err := DecodeReadResponse(0x01, FuncReadInputRegisters, 1, valid, out); err != nil {
		t.Fatalf("valid frame rejected: %v", err)
	}
	if out[0] != 700 {
		t.Fatalf("decoded %d, want 700", out[0])
	}

	corrupt := func(i int) []byte {
		b := append([]byte(nil), valid...)
		b[i] ^= 0x01
		return b
	}

	testCases := []struct {
		name  string
		frame []byte
		kind  Kind
	}{
		{"truncated", valid[:4], KindShortFrame},
		{"missing crc byte", valid[:6], KindShortFrame},
		{"flipped slave id", append([]byte{0x02}, valid[1:]...), KindSlaveMismatch},
		{"exception", AppendCRC([]byte{0x01, 0x84, 0x02}), KindException},
		{"other function", response(0x01, FuncReadHoldingRegisters, 0x02BC), KindFunctionMismatch},
		{"wrong byte count", response(0x01, FuncReadInputRegisters, 0x02BC, 0x0001), KindByteCount},
		{"corrupted payload", corrupt(4), KindCRC},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := []uint16{0xDEAD}
			err := DecodeReadResponse(0x01, FuncReadInputRegisters, 1, tc.frame, out)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if k := Classify(err); k != tc.kind {
				t.Fatalf("kind=%v, want %v (err=%v)", k, tc.kind, err)
			}
			if out[0] != 0xDEAD {
				t.Fatalf("out written on failure: %d", out[0])
			}
		})
	}
}

func TestExceptionCarriesCode(t *testing.T) {
	err := DecodeReadResponse(0x01, FuncReadInputRegisters, 1, AppendCRC([]byte{0x01, 0x84, 0x02}), make([]uint16, 1))

	var xerr *modbus.ModbusError
	if !errors.As(err, &xerr) {
		t.Fatalf("err=%v, want *modbus.ModbusError", err)
	}
	if xerr.ExceptionCode != modbus.ExceptionCodeIllegalDataAddress {
		t.Fatalf("exception code %d, want %d", xerr.ExceptionCode, modbus.ExceptionCodeIllegalDataAddress)
	}
	if Code(err) != 0x102 {
		t.Fatalf("Code=0x%x, want 0x102", Code(err))
	}
}
