// internal/writer/builder.go
package writer

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/humidity-actuator/internal/config"
	"github.com/tamzrod/humidity-actuator/internal/status"
	wmodbus "github.com/tamzrod/humidity-actuator/internal/writer/modbus"
)

// BuildMirror creates the Modbus TCP mirror, if configured.
// The returned bool is false when the mirror is disabled.
func BuildMirror(c cfg.Config) (*Mirror, func() error, bool, error) {
	m := c.Outputs.Mirror
	if m == nil {
		return nil, nil, false, nil
	}
	if int(m.Address)+status.SlotsPerDevice > 0x10000 {
		return nil, nil, false, fmt.Errorf("mirror: address %d leaves no room for %d registers", m.Address, status.SlotsPerDevice)
	}

	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: m.Endpoint,
		Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, false, err
	}

	plan := MirrorPlan{
		Endpoint:   m.Endpoint,
		UnitID:     m.UnitID,
		Address:    m.Address,
		DeviceName: m.DeviceName,
	}
	return NewMirror(plan, cli), cli.Close, true, nil
}
