package cvbridge

import (
	"go.viam.com/accelcv/utils"
)

// Axis range and output scale. The axis range is the raw span at the default +/- 2g,
// 10-bit resolution.
const (
	AxisMin = -512
	AxisMax = 512

	// MaxVoltage is the top of the output range; complements are measured from it.
	MaxVoltage = 10.0

	mappedMax   = 1000
	mappedScale = 100.0
)

// ToVoltage maps a raw axis sample onto [0, MaxVoltage]. Samples beyond the axis range are
// extrapolated; only negative results are clamped, so a saturated positive sample can map above
// MaxVoltage.
func ToVoltage(sample int16) float64 {
	mapped := utils.MapRange(int(sample), AxisMin, AxisMax, 0, mappedMax)
	volts := float64(mapped) / mappedScale
	if volts < 0 {
		volts = 0
	}
	return volts
}

// Complement returns MaxVoltage - volts without clamping.
func Complement(volts float64) float64 {
	return MaxVoltage - volts
}
