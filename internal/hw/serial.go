// internal/hw/serial.go
package hw

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"
)

// SerialConfig is the line setup for the RS-485 tty.
type SerialConfig struct {
	Device   string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string

	// ReadPoll bounds a single Read when no byte is pending.
	// Keep it well below the inter-byte gap.
	ReadPoll time.Duration
}

// OpenSerial opens the tty. Reads that find nothing pending return (0, nil)
// after ReadPoll instead of serial.ErrTimeout, so callers can poll.
func OpenSerial(c SerialConfig) (io.ReadWriteCloser, error) {
	if c.ReadPoll <= 0 {
		c.ReadPoll = time.Millisecond
	}
	port, err := serial.Open(&serial.Config{
		Address:  c.Device,
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		StopBits: c.StopBits,
		Parity:   c.Parity,
		Timeout:  c.ReadPoll,
	})
	if err != nil {
		return nil, fmt.Errorf("hw: open serial %s: %w", c.Device, err)
	}
	return &pollingPort{Port: port}, nil
}

type pollingPort struct {
	serial.Port
}

func (p *pollingPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if errors.Is(err, serial.ErrTimeout) {
		return n, nil
	}
	return n, err
}
