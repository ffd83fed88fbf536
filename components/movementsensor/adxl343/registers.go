package adxl343

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/accelcv/components/board"
)

// Registers reads and writes the chip's registers. Every call opens a handle on the bus for
// the duration of one transfer; there is no buffering and no retry.
type Registers struct {
	bus     board.I2C
	address byte
}

// NewRegisters returns an accessor for the device at address on bus.
func NewRegisters(bus board.I2C, address byte) *Registers {
	return &Registers{bus: bus, address: address}
}

// Read returns count bytes starting at register. The chip auto-increments its register pointer,
// so consecutive registers come back as one block. A count below 1 returns an empty slice
// without touching the bus.
func (r *Registers) Read(ctx context.Context, register byte, count int) (result []byte, err error) {
	if count < 1 {
		return []byte{}, nil
	}
	if count > math.MaxUint8 {
		return nil, errors.Errorf("cannot read %d registers in one transfer", count)
	}
	handle, err := r.bus.OpenHandle(r.address)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, handle.Close())
	}()

	data, err := handle.ReadBlockData(ctx, register, uint8(count))
	if err != nil {
		return nil, err
	}
	if len(data) != count {
		return nil, errors.Errorf("read %d bytes from register %#x but expected %d", len(data), register, count)
	}
	return data, nil
}

// ReadRegister reads a single register.
func (r *Registers) ReadRegister(ctx context.Context, register byte) (byte, error) {
	result, err := r.Read(ctx, register, 1)
	if err != nil {
		return 0, err
	}
	return result[0], nil
}

// Write stores value in register.
func (r *Registers) Write(ctx context.Context, register, value byte) (err error) {
	handle, err := r.bus.OpenHandle(r.address)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, handle.Close())
	}()

	return handle.WriteByteData(ctx, register, value)
}

// WithRegister opens one handle for register and passes it to fn, so a read-modify-write
// sequence holds the bus for its whole length.
func (r *Registers) WithRegister(register byte, fn func(reg *board.I2CRegister) error) (err error) {
	handle, err := r.bus.OpenHandle(r.address)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, handle.Close())
	}()

	return fn(&board.I2CRegister{Handle: handle, Register: register})
}
