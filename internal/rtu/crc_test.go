// internal/rtu/crc_test.go
package rtu

import (
	"testing"

	"github.com/sigurn/crc16"
)

func TestCRC16KnownVectors(t *testing.T) {
	testCases := []struct {
		data     []byte
		expected uint16
	}{
		{data: []byte{}, expected: 0xFFFF},
		{data: []byte{0x01, 0x04, 0x00, 0x02, 0x00, 0x01}, expected: 0x0A90},
		{data: []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01}, expected: 0x0A84},
		{data: []byte{0x01, 0x04, 0x02, 0x02, 0xBC}, expected: 0xE1B9},
	}

	for i, tc := range testCases {
		if got := CRC16(tc.data); got != tc.expected {
			t.Errorf("case %d: CRC16(% x) = 0x%04X, want 0x%04X", i, tc.data, got, tc.expected)
		}
	}
}

func TestCRC16MatchesLibraryTable(t *testing.T) {
	table := crc16.MakeTable(crc16.CRC16_MODBUS)

	inputs := [][]byte{
		{0x00},
		{0xFF},
		{0x11, 0x03, 0x00, 0x6B, 0x00, 0x03},
		[]byte("123456789"),
	}
	for _, in := range inputs {
		want := crc16.Checksum(in, table)
		if got := CRC16(in); got != want {
			t.Errorf("CRC16(% x) = 0x%04X, library says 0x%04X", in, got, want)
		}
	}
}

func TestAppendAndCheckCRC(t *testing.T) {
	frame := AppendCRC([]byte{0x01, 0x04, 0x00, 0x02, 0x00, 0x01})
	if frame[6] != 0x90 || frame[7] != 0x0A {
		t.Fatalf("crc bytes = % x, want 90 0a (low byte first)", frame[6:])
	}
	if !CheckCRC(frame) {
		t.Fatalf("CheckCRC rejected a freshly appended checksum")
	}

	frame[3] ^= 0x01
	if CheckCRC(frame) {
		t.Fatalf("CheckCRC accepted a corrupted frame")
	}

	if CheckCRC([]byte{0x01, 0x02}) {
		t.Fatalf("CheckCRC accepted a frame with no payload")
	}
}
