package model

// Status is the health classification shown next to a cell.
// Keep these values stable; they are intended for CSV and JSON output.
type Status string

const (
	StatusGood     Status = "Good"
	StatusWarning  Status = "Warning"
	StatusCritical Status = "Critical"
)

// Temperature limits used by ClassifyStatus, in °C.
const (
	MinSafeTemperature = 25.0
	MaxSafeTemperature = 40.0
)

// ClassifyStatus derives a status from a cell's voltage and temperature.
// A voltage outside [minV, maxV] is Critical regardless of temperature.
func ClassifyStatus(voltage, minV, maxV, temperature float64) Status {
	voltageOK := minV <= voltage && voltage <= maxV
	tempOK := MinSafeTemperature <= temperature && temperature <= MaxSafeTemperature

	switch {
	case voltageOK && tempOK:
		return StatusGood
	case !voltageOK:
		return StatusCritical
	default:
		return StatusWarning
	}
}
