// internal/status/constants.go
package status

// Status block layout constants.
// These values define the mirror layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers in the block.
const SlotsPerDevice = 20

// ---- LINK HEALTH ----

// SlotHealthCode holds the link health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last transaction error code (see rtu.Code).
const SlotLastErrorCode = 1

// SlotSecondsInError holds how long (in seconds) the link has been in error.
const SlotSecondsInError = 2

// ---- PROCESS VALUES ----

// SlotHumidity holds this poll's raw humidity (x10), 0 when the read
// failed. SlotValidity tells the two apart.
const SlotHumidity = 3

// SlotTemperature holds this poll's raw temperature (x10, two's
// complement), 0 when the read failed.
const SlotTemperature = 4

// SlotServoAngle holds the commanded servo angle in degrees.
const SlotServoAngle = 5

// SlotFan holds the logical fan state (1 = on).
const SlotFan = 6

// SlotValidity holds FlagHumidityValid | FlagTemperatureValid.
const SlotValidity = 7

const (
	FlagHumidityValid    uint16 = 1 << 0
	FlagTemperatureValid uint16 = 1 << 1
)

// ---- RESERVED RANGE ----

// Slots 8-10 and 19 are reserved and always written as 0.

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// MaxSecondsInError is where SecondsInError saturates.
const MaxSecondsInError = 65535

// ---- HEALTH CODES ----

// HealthUnknown is the boot state, before the first poll.
const HealthUnknown uint16 = 0

// HealthOK means the last humidity transaction succeeded.
const HealthOK uint16 = 1

// HealthError means the last humidity transaction failed.
const HealthError uint16 = 2
