// Package fake implements an analog output that records the voltages it is given.
package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/accelcv/logging"
)

// AnalogOutput remembers the last voltage written to it.
type AnalogOutput struct {
	name   string
	logger logging.Logger

	mu      sync.Mutex
	voltage float64
	writes  int
	closed  bool
}

// NewAnalogOutput returns a fake output. Writes are logged at debug level under name.
func NewAnalogOutput(name string, logger logging.Logger) *AnalogOutput {
	return &AnalogOutput{name: name, logger: logger}
}

// SetVoltage records volts.
func (o *AnalogOutput) SetVoltage(ctx context.Context, volts float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return errors.Errorf("analog output %s is closed", o.name)
	}
	o.voltage = volts
	o.writes++
	o.logger.Debugw("set voltage", "output", o.name, "volts", volts)
	return nil
}

// Voltage returns the last voltage written.
func (o *AnalogOutput) Voltage() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.voltage
}

// Writes returns how many times SetVoltage succeeded.
func (o *AnalogOutput) Writes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writes
}

// Close marks the output closed.
func (o *AnalogOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}
