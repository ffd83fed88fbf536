package adxl343

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/accelcv/utils"
)

const (
	// Sensitivity2G is the scale factor at the default +/- 2g range, in g per LSB.
	Sensitivity2G = 1.0 / 256
	// StandardGravity in m/s^2.
	StandardGravity = 9.80665
)

// Sample is one reading of the three axis data registers, in raw counts.
type Sample struct {
	X, Y, Z int16
}

// DecodeSample decodes a block read from RegDataX0: three little-endian signed 16-bit values.
func DecodeSample(raw []byte) (Sample, error) {
	if len(raw) < sampleBlockSize {
		return Sample{}, errors.Errorf("expected %d bytes of axis data, got %d", sampleBlockSize, len(raw))
	}
	return Sample{
		X: utils.Int16FromBytesLE(raw[0:2]),
		Y: utils.Int16FromBytesLE(raw[2:4]),
		Z: utils.Int16FromBytesLE(raw[4:6]),
	}, nil
}

// Axes returns the samples in X, Y, Z order.
func (s Sample) Axes() [3]int16 {
	return [3]int16{s.X, s.Y, s.Z}
}

// LinearAcceleration converts the raw counts to m/s^2 at the default sensitivity.
func (s Sample) LinearAcceleration() r3.Vector {
	toMetersPerSec2 := func(raw int16) float64 {
		return float64(raw) * Sensitivity2G * StandardGravity
	}
	return r3.Vector{
		X: toMetersPerSec2(s.X),
		Y: toMetersPerSec2(s.Y),
		Z: toMetersPerSec2(s.Z),
	}
}
