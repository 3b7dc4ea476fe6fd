// internal/hw/pin.go
package hw

// OutputPin is a single digital output.
// Implementations drive the physical level; polarity is the caller's concern.
type OutputPin interface {
	High() error
	Low() error
}

// NoopPin stands in for an absent pin, e.g. the direction control
// of an auto-direction RS-485 transceiver.
type NoopPin struct{}

func (NoopPin) High() error { return nil }

func (NoopPin) Low() error { return nil }

// Set drives p high or low.
func Set(p OutputPin, high bool) error {
	if high {
		return p.High()
	}
	return p.Low()
}
