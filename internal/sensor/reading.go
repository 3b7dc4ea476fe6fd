// internal/sensor/reading.go
package sensor

// Scale is the implied decimal factor of both registers.
const Scale = 10.0

// Plausible unsigned temperature range; outside it the register is
// reinterpreted as two's complement.
const (
	MinTemperature = -40.0
	MaxTemperature = 125.0
)

// Reading is one poll of the transducer. The two registers are read by
// separate transactions, so each value carries its own validity.
type Reading struct {
	RawHumidity    uint16
	RawTemperature uint16

	Humidity    float64 // %RH
	Temperature float64 // °C

	HumidityOK    bool
	TemperatureOK bool
}

// Humidity converts a raw humidity register.
func Humidity(raw uint16) float64 {
	return float64(raw) / Scale
}

// Temperature converts a raw temperature register.
func Temperature(raw uint16) float64 {
	t := float64(raw) / Scale
	if t < MinTemperature || t > MaxTemperature {
		t = float64(int16(raw)) / Scale
	}
	return t
}

// SetHumidity records a successful humidity read.
func (r *Reading) SetHumidity(raw uint16) {
	r.RawHumidity = raw
	r.Humidity = Humidity(raw)
	r.HumidityOK = true
}

// SetTemperature records a successful temperature read.
func (r *Reading) SetTemperature(raw uint16) {
	r.RawTemperature = raw
	r.Temperature = Temperature(raw)
	r.TemperatureOK = true
}
