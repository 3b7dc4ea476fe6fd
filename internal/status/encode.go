// internal/status/encode.go
package status

import (
	"github.com/tamzrod/humidity-actuator/internal/control"
	"github.com/tamzrod/humidity-actuator/internal/sensor"
)

// Block is everything the status block carries.
type Block struct {
	Snapshot
	Reading    sensor.Reading
	State      control.State
	DeviceName string
}

// Encode converts a Block into a full status block.
// Layout is locked. No IO. No side effects.
func Encode(b Block) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = b.Health
	regs[SlotLastErrorCode] = b.LastErrorCode
	regs[SlotSecondsInError] = b.SecondsInError

	if b.Reading.HumidityOK {
		regs[SlotHumidity] = b.Reading.RawHumidity
		regs[SlotValidity] |= FlagHumidityValid
	}
	if b.Reading.TemperatureOK {
		regs[SlotTemperature] = b.Reading.RawTemperature
		regs[SlotValidity] |= FlagTemperatureValid
	}
	regs[SlotServoAngle] = uint16(b.State.Angle)
	if b.State.FanOn {
		regs[SlotFan] = 1
	}

	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], EncodeDeviceName(b.DeviceName))

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
