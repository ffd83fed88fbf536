// Package analogout defines control-voltage output channels and a PWM-backed implementation.
package analogout

import (
	"context"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"

	"go.viam.com/accelcv/components/board/genericlinux"
	"go.viam.com/accelcv/logging"
	"go.viam.com/accelcv/utils"
)

// An AnalogOutput drives one control-voltage channel. The value is passed through as given;
// any range limit belongs to the hardware behind the channel.
type AnalogOutput interface {
	SetVoltage(ctx context.Context, volts float64) error
	Close() error
}

// Defaults for PWM channels driving an RC-filtered 0-10V output stage.
const (
	DefaultPWMFrequency = 50 * physic.KiloHertz
	DefaultMaxVoltage   = 10.0
)

// PWMConfig describes a PWM channel.
type PWMConfig struct {
	Pin        string
	Frequency  physic.Frequency
	MaxVoltage float64
}

// PWM produces a voltage as the duty cycle of a PWM pin feeding a low-pass filter, so
// MaxVoltage corresponds to 100% duty. Voltages outside [0, MaxVoltage] saturate.
type PWM struct {
	pin        gpio.PinOut
	frequency  physic.Frequency
	maxVoltage float64
	logger     logging.Logger
}

// NewPWM looks up cfg.Pin in the periph GPIO registry.
func NewPWM(cfg PWMConfig, logger logging.Logger) (*PWM, error) {
	if err := genericlinux.InitHost(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph host drivers")
	}
	pin := gpioreg.ByName(cfg.Pin)
	if pin == nil {
		return nil, errors.Errorf("no GPIO pin named %q", cfg.Pin)
	}
	return NewPWMFromPin(pin, cfg, logger), nil
}

// NewPWMFromPin wraps an already resolved pin.
func NewPWMFromPin(pin gpio.PinOut, cfg PWMConfig, logger logging.Logger) *PWM {
	frequency := cfg.Frequency
	if frequency == 0 {
		frequency = DefaultPWMFrequency
	}
	maxVoltage := cfg.MaxVoltage
	if maxVoltage <= 0 {
		maxVoltage = DefaultMaxVoltage
	}
	return &PWM{pin: pin, frequency: frequency, maxVoltage: maxVoltage, logger: logger}
}

// DutyFor returns the duty cycle that produces volts.
func (p *PWM) DutyFor(volts float64) gpio.Duty {
	fraction := utils.Clamp(volts/p.maxVoltage, 0, 1)
	return gpio.Duty(fraction * float64(gpio.DutyMax))
}

// SetVoltage sets the duty cycle for volts.
func (p *PWM) SetVoltage(ctx context.Context, volts float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.pin.PWM(p.DutyFor(volts), p.frequency); err != nil {
		return errors.Wrapf(err, "failed to set PWM on pin %s", p.pin.Name())
	}
	return nil
}

// Close stops the PWM output.
func (p *PWM) Close() error {
	return p.pin.Halt()
}
