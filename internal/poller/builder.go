// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/humidity-actuator/internal/config"
)

// Build constructs a Poller around client.
// c MUST have been normalized.
func Build(c cfg.Config, client Client) (*Poller, error) {
	return New(
		Config{
			SlaveID:     c.Sensor.SlaveID,
			Function:    c.Sensor.Function,
			Humidity:    *c.Sensor.HumidityRegister,
			Temperature: *c.Sensor.TemperatureRegister,
			Interval:    time.Duration(c.Poll.IntervalMs) * time.Millisecond,
		},
		client,
	)
}
