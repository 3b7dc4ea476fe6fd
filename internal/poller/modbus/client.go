// internal/poller/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements poller.Client on goburrow/modbus's RTU client. It is
// the library counterpart of rtu.Master, used to cross-check wiring.
type Client struct {
	mu      sync.Mutex
	handler *modbus.RTUClientHandler
	client  modbus.Client
}

// Config is the RTU line setup.
type Config struct {
	Device   string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
	Timeout  time.Duration
}

// New opens the serial line.
func New(cfg Config) (*Client, error) {
	if cfg.Device == "" {
		return nil, errors.New("modbus client: device required")
	}

	h := modbus.NewRTUClientHandler(cfg.Device)
	h.BaudRate = cfg.BaudRate
	h.DataBits = cfg.DataBits
	h.StopBits = cfg.StopBits
	h.Parity = cfg.Parity
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the serial line.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadRegisters implements poller.Client.
func (c *Client) ReadRegisters(slaveID, fn byte, start, count uint16, out []uint16) error {
	if count == 0 || int(count) > len(out) {
		return fmt.Errorf("modbus client: count %d does not fit %d registers", count, len(out))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = slaveID

	var (
		payload []byte
		err     error
	)
	switch fn {
	case modbus.FuncCodeReadHoldingRegisters:
		payload, err = c.client.ReadHoldingRegisters(start, count)
	case modbus.FuncCodeReadInputRegisters:
		payload, err = c.client.ReadInputRegisters(start, count)
	default:
		return fmt.Errorf("modbus client: unsupported function %d", fn)
	}
	if err != nil {
		return err
	}
	return unpackRegisters(payload, out[:count])
}

func unpackRegisters(data []byte, out []uint16) error {
	if len(data) != 2*len(out) {
		return fmt.Errorf("modbus client: %d payload bytes for %d registers", len(data), len(out))
	}
	for i := range out {
		out[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return nil
}
