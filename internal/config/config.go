// internal/config/config.go
package config

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Serial     SerialConfig     `yaml:"serial"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Poll       PollConfig       `yaml:"poll"`
	Servo      ServoConfig      `yaml:"servo"`
	Relay      RelayConfig      `yaml:"relay"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Outputs    OutputsConfig    `yaml:"outputs"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"` // logrus level name
	Trace bool   `yaml:"trace"` // log every RTU frame at debug level
}

// ---- SERIAL LINE ----

type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	StopBits int    `yaml:"stop_bits"`
	Parity   string `yaml:"parity"` // "N", "E" or "O"

	// Informational on Linux: the tty owns its pins.
	TxPin string `yaml:"tx_pin"`
	RxPin string `yaml:"rx_pin"`

	// Empty means an auto-direction transceiver.
	DirectionPin string `yaml:"direction_pin"`

	ReadPollMs int `yaml:"read_poll_ms"`
}

// ---- SENSOR (RTU SLAVE) ----

type SensorConfig struct {
	SlaveID  uint8 `yaml:"slave_id"`
	Function uint8 `yaml:"function"`

	// Pointers so that register 0 is not mistaken for "unset".
	HumidityRegister    *uint16 `yaml:"humidity_register"`
	TemperatureRegister *uint16 `yaml:"temperature_register"`

	TimeoutMs int `yaml:"timeout_ms"`
	GapMs     int `yaml:"gap_ms"`
	SilentMs  int `yaml:"silent_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- ACTUATORS ----

type ServoConfig struct {
	Pin        string `yaml:"pin"`
	MinPulseUs int    `yaml:"min_pulse_us"`
	MaxPulseUs int    `yaml:"max_pulse_us"`
	PeriodUs   int    `yaml:"period_us"`
	MaxAngle   int    `yaml:"max_angle"`
}

type RelayConfig struct {
	Pin       string `yaml:"pin"`
	ActiveLow *bool  `yaml:"active_low"`
}

// Pointers so that an explicit 0 %RH is kept.
type ThresholdsConfig struct {
	LowRH       *float64 `yaml:"low_rh"`
	HighRH      *float64 `yaml:"high_rh"`
	FanOnAbove  *float64 `yaml:"fan_on_above"`
	FanOffBelow *float64 `yaml:"fan_off_below"`
}

// ---- OUTPUTS (all optional) ----

type OutputsConfig struct {
	Mirror  *MirrorConfig  `yaml:"mirror"`
	Influx  *InfluxConfig  `yaml:"influx"`
	Metrics *MetricsConfig `yaml:"metrics"`
}

// MirrorConfig places the status block in a Modbus TCP server's
// holding registers.
type MirrorConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Address    uint16 `yaml:"address"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	DeviceName string `yaml:"device_name"`
}

type InfluxConfig struct {
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	Org         string `yaml:"org"`
	Bucket      string `yaml:"bucket"`
	Measurement string `yaml:"measurement"`
	Device      string `yaml:"device"` // value of the "device" tag
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}
