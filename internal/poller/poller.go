// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/humidity-actuator/internal/rtu"
)

// Client is the single transaction the poller needs. rtu.Master is the
// production implementation.
type Client interface {
	ReadRegisters(slaveID, fn byte, start, count uint16, out []uint16) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	SlaveID     uint8
	Function    uint8
	Humidity    uint16
	Temperature uint16
	Interval    time.Duration
}

// Poller reads the transducer. It never retries; the next due poll is
// the retry.
type Poller struct {
	cfg    Config
	client Client
	next   time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Function != rtu.FuncReadHoldingRegisters && cfg.Function != rtu.FuncReadInputRegisters {
		return nil, errors.New("poller: function must be 3 or 4")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// Interval is the poll period.
func (p *Poller) Interval() time.Duration { return p.cfg.Interval }

// PollOnce performs exactly one poll cycle: humidity, then temperature.
// A failed humidity read does not skip the temperature read.
func (p *Poller) PollOnce(now time.Time) PollResult {
	res := PollResult{At: now}

	if raw, err := p.read(p.cfg.Humidity); err != nil {
		res.HumidityErr = err
	} else {
		res.Reading.SetHumidity(raw)
	}

	if raw, err := p.read(p.cfg.Temperature); err != nil {
		res.TemperatureErr = err
	} else {
		res.Reading.SetTemperature(raw)
	}

	return res
}

func (p *Poller) read(addr uint16) (uint16, error) {
	var out [1]uint16
	if err := p.client.ReadRegisters(p.cfg.SlaveID, p.cfg.Function, addr, 1, out[:]); err != nil {
		return 0, err
	}
	return out[0], nil
}
