// internal/config/normalize.go
package config

import "strings"

// Defaults for a 9600 8N1 SHT20 transducer, a 50 Hz servo and an
// active-low relay board.
const (
	DefaultBaudRate   = 9600
	DefaultDataBits   = 8
	DefaultStopBits   = 1
	DefaultParity     = "N"
	DefaultReadPollMs = 1

	DefaultSlaveID             = 1
	DefaultFunction            = 4
	DefaultHumidityRegister    = 0x0002
	DefaultTemperatureRegister = 0x0001
	DefaultTimeoutMs           = 300
	DefaultGapMs               = 20
	DefaultSilentMs            = 4

	DefaultPollIntervalMs = 1000

	DefaultServoPin   = "GPIO4"
	DefaultMinPulseUs = 500
	DefaultMaxPulseUs = 2500
	DefaultPeriodUs   = 20000
	DefaultMaxAngle   = 120

	DefaultRelayPin = "GPIO10"

	DefaultLowRH       = 60
	DefaultHighRH      = 70
	DefaultFanOnAbove  = 80
	DefaultFanOffBelow = 80

	// MirrorBlockSlots is the status block length (status.SlotsPerDevice).
	MirrorBlockSlots = 20

	DefaultLogLevel          = "info"
	DefaultMirrorTimeoutMs   = 1000
	DefaultMirrorDeviceName  = "SHT20"
	DefaultInfluxMeasurement = "data_sht20"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	setString(&cfg.Log.Level, DefaultLogLevel)

	s := &cfg.Serial
	setInt(&s.BaudRate, DefaultBaudRate)
	setInt(&s.DataBits, DefaultDataBits)
	setInt(&s.StopBits, DefaultStopBits)
	setString(&s.Parity, DefaultParity)
	s.Parity = strings.ToUpper(s.Parity)
	setInt(&s.ReadPollMs, DefaultReadPollMs)

	se := &cfg.Sensor
	if se.SlaveID == 0 {
		se.SlaveID = DefaultSlaveID
	}
	if se.Function == 0 {
		se.Function = DefaultFunction
	}
	if se.HumidityRegister == nil {
		r := uint16(DefaultHumidityRegister)
		se.HumidityRegister = &r
	}
	if se.TemperatureRegister == nil {
		r := uint16(DefaultTemperatureRegister)
		se.TemperatureRegister = &r
	}
	setInt(&se.TimeoutMs, DefaultTimeoutMs)
	setInt(&se.GapMs, DefaultGapMs)
	setInt(&se.SilentMs, DefaultSilentMs)

	setInt(&cfg.Poll.IntervalMs, DefaultPollIntervalMs)

	sv := &cfg.Servo
	setString(&sv.Pin, DefaultServoPin)
	setInt(&sv.MinPulseUs, DefaultMinPulseUs)
	setInt(&sv.MaxPulseUs, DefaultMaxPulseUs)
	setInt(&sv.PeriodUs, DefaultPeriodUs)
	setInt(&sv.MaxAngle, DefaultMaxAngle)

	setString(&cfg.Relay.Pin, DefaultRelayPin)
	if cfg.Relay.ActiveLow == nil {
		activeLow := true
		cfg.Relay.ActiveLow = &activeLow
	}

	th := &cfg.Thresholds
	setFloat(&th.LowRH, DefaultLowRH)
	setFloat(&th.HighRH, DefaultHighRH)
	setFloat(&th.FanOnAbove, DefaultFanOnAbove)
	setFloat(&th.FanOffBelow, DefaultFanOffBelow)

	if m := cfg.Outputs.Mirror; m != nil {
		setInt(&m.TimeoutMs, DefaultMirrorTimeoutMs)
		setString(&m.DeviceName, DefaultMirrorDeviceName)
		if len(m.DeviceName) > 16 {
			m.DeviceName = m.DeviceName[:16]
		}
		if m.UnitID == 0 {
			m.UnitID = 1
		}
	}

	if in := cfg.Outputs.Influx; in != nil {
		setString(&in.Measurement, DefaultInfluxMeasurement)
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setFloat(v **float64, def float64) {
	if *v == nil {
		*v = &def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
