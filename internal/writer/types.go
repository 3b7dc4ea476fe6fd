// internal/writer/types.go
package writer

import (
	"time"

	"github.com/tamzrod/humidity-actuator/internal/control"
	"github.com/tamzrod/humidity-actuator/internal/sensor"
	"github.com/tamzrod/humidity-actuator/internal/status"
)

// Record is what every sink receives after a poll.
type Record struct {
	At       time.Time
	Reading  sensor.Reading
	State    control.State
	Snapshot status.Snapshot
}

// Writer delivers records to one sink.
// Delivery never feeds back into actuation.
type Writer interface {
	Write(rec Record) error
}
