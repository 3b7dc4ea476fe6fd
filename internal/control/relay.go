// internal/control/relay.go
package control

import "github.com/tamzrod/humidity-actuator/internal/hw"

// Relay drives the fan output. With ActiveLow the coil is energised by a
// low level, as on the common opto-isolated relay boards.
type Relay struct {
	Pin       hw.OutputPin
	ActiveLow bool
}

// Set drives the pin to the physical level for the logical state on.
func (r Relay) Set(on bool) error {
	return hw.Set(r.Pin, on != r.ActiveLow)
}
