// Package adxl343 implements a driver for the Analog Devices ADXL343/ADXL345 3-axis
// accelerometer over I2C. A description of the registers is in the datasheet at
// https://www.analog.com/media/en/technical-documentation/data-sheets/adxl343.pdf
//
// We support the identity check, turning on measurement mode and reading the three axis data
// registers at the default +/- 2g, 10-bit resolution. We do not configure the data rate,
// the FIFO, or any of the interrupt sources.
//
// The chip has two possible I2C addresses, selected by the ALT ADDRESS pin:
//   - if ALT ADDRESS is wired to ground, it uses the address 0x53
//   - if ALT ADDRESS is wired to hot, it uses the address 0x1D
package adxl343

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/accelcv/components/board"
	"go.viam.com/accelcv/logging"
)

// Default and alternate I2C addresses.
const (
	DefaultAddress   byte = 0x53
	AlternateAddress byte = 0x1D
)

// Register addresses.
const (
	RegDevID    byte = 0x00
	RegPowerCtl byte = 0x2D
	RegDataX0   byte = 0x32
)

const (
	// DevID is the fixed value of the device id register.
	DevID byte = 0xE5
	// MeasureBit in the power control register switches the chip from standby to measurement.
	MeasureBit byte = 1 << 3

	sampleBlockSize = 6
)

// ErrDeviceNotFound is returned when the device id register does not hold DevID.
var ErrDeviceNotFound = errors.New("device not communicating")

var errNotMeasuring = errors.New("ADXL343 is not in measurement mode")

// State is the lifecycle state of the chip as far as this driver knows.
type State int

const (
	// StateUninitialized means the handshake has not completed.
	StateUninitialized State = iota
	// StateMeasuring means the chip was identified and measurement mode was enabled.
	StateMeasuring
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateMeasuring:
		return "measuring"
	default:
		return "unknown"
	}
}

// Config holds the driver options.
type Config struct {
	Address byte
	// StrictPowerCheck makes Initialize fail when the power control register does not report
	// the measure bit after it was written.
	StrictPowerCheck bool
}

// Device is an ADXL343 on an I2C bus.
type Device struct {
	regs             *Registers
	strictPowerCheck bool
	logger           logging.Logger

	mu    sync.Mutex
	state State
}

// NewDevice returns a driver for the chip at cfg.Address. No bus traffic happens until
// Initialize is called.
func NewDevice(bus board.I2C, cfg Config, logger logging.Logger) *Device {
	address := cfg.Address
	if address == 0 {
		address = DefaultAddress
	}
	logger.Debugf("using address %#x for ADXL343 sensor", address)
	return &Device{
		regs:             NewRegisters(bus, address),
		strictPowerCheck: cfg.StrictPowerCheck,
		logger:           logger,
	}
}

// Initialize checks the device id and turns on measurement mode. On an id mismatch it returns
// ErrDeviceNotFound without touching any other register.
func (d *Device) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, err := d.regs.ReadRegister(ctx, RegDevID)
	if err != nil {
		return errors.Wrapf(err, "can't read device id from I2C address %#x", d.regs.address)
	}
	if id != DevID {
		return errors.Wrapf(ErrDeviceNotFound, "unexpected device id %#x at I2C address %#x (want %#x)",
			id, d.regs.address, DevID)
	}

	err = d.regs.WithRegister(RegPowerCtl, func(reg *board.I2CRegister) error {
		powerCtl, err := reg.ReadByteData(ctx)
		if err != nil {
			return err
		}
		d.logger.Debugw("power control before enabling measurement", "value", powerCtl)

		if err := reg.WriteByteData(ctx, powerCtl|MeasureBit); err != nil {
			return errors.Wrap(err, "unable to enable ADXL343 measurement mode")
		}

		// The chip does not acknowledge the mode change, so read it back for the log. Only the
		// strict check treats a missing bit as a failure.
		verify, err := reg.ReadByteData(ctx)
		if err != nil {
			return err
		}
		d.logger.Debugw("power control after enabling measurement", "value", verify)
		if d.strictPowerCheck && verify&MeasureBit == 0 {
			return errors.Errorf("ADXL343 power control reads %#x after enabling measurement", verify)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.state = StateMeasuring
	return nil
}

// State returns the current lifecycle state.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// ReadSample reads the six data registers and decodes them.
func (d *Device) ReadSample(ctx context.Context) (Sample, error) {
	if d.State() != StateMeasuring {
		return Sample{}, errNotMeasuring
	}
	raw, err := d.regs.Read(ctx, RegDataX0, sampleBlockSize)
	if err != nil {
		return Sample{}, err
	}
	return DecodeSample(raw)
}

// Standby clears the measure bit so the chip drops back to its low power state.
func (d *Device) Standby(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateMeasuring {
		return nil
	}
	powerCtl, err := d.regs.ReadRegister(ctx, RegPowerCtl)
	if err != nil {
		return err
	}
	if err := d.regs.Write(ctx, RegPowerCtl, powerCtl&^MeasureBit); err != nil {
		return err
	}
	d.state = StateUninitialized
	return nil
}
