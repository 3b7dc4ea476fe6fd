// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/humidity-actuator/internal/sensor"
)

// Register names, also used as metric labels.
const (
	RegHumidity    = "humidity"
	RegTemperature = "temperature"
)

// PollResult is what one poll cycle produced. The two transactions fail
// independently; Reading marks which values are valid.
type PollResult struct {
	At      time.Time
	Reading sensor.Reading

	HumidityErr    error
	TemperatureErr error
}

// Err is the humidity error, else the temperature error.
func (r PollResult) Err() error {
	if r.HumidityErr != nil {
		return r.HumidityErr
	}
	return r.TemperatureErr
}
