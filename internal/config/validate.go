// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values mean "use the default" and are accepted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	if cfg.Log.Level != "" {
		if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	// ------------------------------------------------------------
	// SERIAL LINE
	// ------------------------------------------------------------

	s := cfg.Serial
	if s.Device == "" {
		return errors.New("serial.device is required")
	}
	if s.BaudRate < 0 {
		return fmt.Errorf("serial.baud_rate %d must be > 0", s.BaudRate)
	}
	if s.DataBits != 0 && (s.DataBits < 5 || s.DataBits > 8) {
		return fmt.Errorf("serial.data_bits %d must be 5..8", s.DataBits)
	}
	if s.StopBits != 0 && s.StopBits != 1 && s.StopBits != 2 {
		return fmt.Errorf("serial.stop_bits %d must be 1 or 2", s.StopBits)
	}
	switch strings.ToUpper(s.Parity) {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("serial.parity %q must be N, E or O", s.Parity)
	}

	// ------------------------------------------------------------
	// SENSOR
	// ------------------------------------------------------------

	if fn := cfg.Sensor.Function; fn != 0 && fn != 3 && fn != 4 {
		return fmt.Errorf("sensor.function %d must be 3 or 4", fn)
	}
	if id := cfg.Sensor.SlaveID; id > 247 {
		return fmt.Errorf("sensor.slave_id %d must be 1..247", id)
	}
	if r := cfg.Sensor.HumidityRegister; r != nil && cfg.Sensor.TemperatureRegister != nil && *r == *cfg.Sensor.TemperatureRegister {
		return fmt.Errorf("sensor: humidity and temperature share register %d", *r)
	}
	if cfg.Sensor.TimeoutMs < 0 || cfg.Sensor.GapMs < 0 || cfg.Sensor.SilentMs < 0 {
		return errors.New("sensor: timings must be >= 0")
	}
	if t, g := orInt(cfg.Sensor.TimeoutMs, DefaultTimeoutMs), orInt(cfg.Sensor.GapMs, DefaultGapMs); g >= t {
		return fmt.Errorf("sensor.gap_ms %d must be below timeout_ms %d", g, t)
	}

	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll.interval_ms %d must be > 0", cfg.Poll.IntervalMs)
	}

	// ------------------------------------------------------------
	// ACTUATORS
	// ------------------------------------------------------------

	sv := cfg.Servo
	if sv.MinPulseUs < 0 || sv.MaxPulseUs < 0 || sv.PeriodUs < 0 || sv.MaxAngle < 0 {
		return errors.New("servo: timings and max_angle must be >= 0")
	}

	// Checked on resolved values: a one-sided override meets the default.
	minPulse := orInt(sv.MinPulseUs, DefaultMinPulseUs)
	maxPulse := orInt(sv.MaxPulseUs, DefaultMaxPulseUs)
	period := orInt(sv.PeriodUs, DefaultPeriodUs)
	if minPulse >= maxPulse {
		return fmt.Errorf("servo: min_pulse_us %d must be below max_pulse_us %d", minPulse, maxPulse)
	}
	if maxPulse >= period {
		return fmt.Errorf("servo: max_pulse_us %d must be below period_us %d", maxPulse, period)
	}
	if pin := orString(sv.Pin, DefaultServoPin); pin == orString(cfg.Relay.Pin, DefaultRelayPin) {
		return fmt.Errorf("servo and relay share pin %s", pin)
	}

	th := cfg.Thresholds
	lowRH, highRH := orFloat(th.LowRH, DefaultLowRH), orFloat(th.HighRH, DefaultHighRH)
	if lowRH > highRH {
		return fmt.Errorf("thresholds: low_rh %.1f > high_rh %.1f", lowRH, highRH)
	}
	onAbove, offBelow := orFloat(th.FanOnAbove, DefaultFanOnAbove), orFloat(th.FanOffBelow, DefaultFanOffBelow)
	if offBelow > onAbove {
		return fmt.Errorf("thresholds: fan_off_below %.1f > fan_on_above %.1f", offBelow, onAbove)
	}

	// ------------------------------------------------------------
	// OUTPUTS (opt-in)
	// ------------------------------------------------------------

	if m := cfg.Outputs.Mirror; m != nil {
		if m.Endpoint == "" {
			return errors.New("outputs.mirror.endpoint is required")
		}
		if int(m.Address)+MirrorBlockSlots > 0x10000 {
			return fmt.Errorf("outputs.mirror.address %d: block of %d registers runs past 65535", m.Address, MirrorBlockSlots)
		}
		for i := 0; i < len(m.DeviceName); i++ {
			if m.DeviceName[i] > 0x7F {
				return errors.New("outputs.mirror.device_name must contain ASCII characters only")
			}
		}
	}

	if in := cfg.Outputs.Influx; in != nil {
		if in.URL == "" || in.Org == "" || in.Bucket == "" {
			return errors.New("outputs.influx: url, org and bucket are required")
		}
	}

	if mc := cfg.Outputs.Metrics; mc != nil && mc.Listen == "" {
		return errors.New("outputs.metrics.listen is required")
	}

	return nil
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
