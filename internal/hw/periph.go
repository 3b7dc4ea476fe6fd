// internal/hw/periph.go
package hw

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// InitHost loads the periph.io host drivers. Must run once before OpenPin.
func InitHost() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("hw: periph host init: %w", err)
	}
	return nil
}

// PeriphPin is an OutputPin backed by a periph.io GPIO.
type PeriphPin struct {
	name string
	p    gpio.PinOut
}

// OpenPin claims the named GPIO (e.g. "GPIO4") as an output at the given level.
func OpenPin(name string, initialHigh bool) (*PeriphPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("hw: unknown gpio %q", name)
	}
	if err := p.Out(gpio.Level(initialHigh)); err != nil {
		return nil, fmt.Errorf("hw: configure %s as output: %w", name, err)
	}
	return &PeriphPin{name: name, p: p}, nil
}

// OpenOptionalPin returns NoopPin when name is empty.
func OpenOptionalPin(name string, initialHigh bool) (OutputPin, error) {
	if name == "" {
		return NoopPin{}, nil
	}
	return OpenPin(name, initialHigh)
}

func (p *PeriphPin) High() error { return p.p.Out(gpio.High) }

func (p *PeriphPin) Low() error { return p.p.Out(gpio.Low) }

func (p *PeriphPin) String() string { return p.name }
