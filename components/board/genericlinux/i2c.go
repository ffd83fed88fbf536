// Package genericlinux provides buses for Linux boards that expose /dev/i2c-* devices.
package genericlinux

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"go.viam.com/accelcv/components/board"
)

var (
	hostInitOnce sync.Once
	errHostInit  error
)

// InitHost loads the periph host drivers. It is safe to call more than once.
func InitHost() error {
	hostInitOnce.Do(func() {
		_, errHostInit = host.Init()
	})
	return errHostInit
}

// I2CBus is an I2C bus opened through periph. Only one handle may be open at a time.
type I2CBus struct {
	name string
	bus  i2c.BusCloser
	mu   sync.Mutex
}

// NewI2CBus opens the named bus; an empty name picks the first bus available.
func NewI2CBus(name string) (*I2CBus, error) {
	if err := InitHost(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph host drivers")
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open I2C bus %q", name)
	}
	return &I2CBus{name: name, bus: bus}, nil
}

// Bus returns the underlying periph bus, for drivers that talk to it directly.
func (b *I2CBus) Bus() i2c.Bus {
	return b.bus
}

// OpenHandle lets the I2CBus type implement the board.I2C interface.
func (b *I2CBus) OpenHandle(addr byte) (board.I2CHandle, error) {
	b.mu.Lock()
	return &i2cHandle{
		device: &i2c.Dev{Bus: b.bus, Addr: uint16(addr)},
		parent: b,
	}, nil
}

// Close releases the bus.
func (b *I2CBus) Close() error {
	return b.bus.Close()
}

type i2cHandle struct {
	device *i2c.Dev
	parent *I2CBus
	closed bool
}

func (h *i2cHandle) ReadByteData(ctx context.Context, register byte) (byte, error) {
	result, err := h.ReadBlockData(ctx, register, 1)
	if err != nil {
		return 0, err
	}
	return result[0], nil
}

func (h *i2cHandle) WriteByteData(ctx context.Context, register, data byte) error {
	return h.WriteBlockData(ctx, register, []byte{data})
}

func (h *i2cHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]byte, numBytes)
	if err := h.device.Tx([]byte{register}, results); err != nil {
		return nil, errors.Wrapf(err, "failed reading %d bytes from I2C register %#x, address %#x on bus %q",
			numBytes, register, h.device.Addr, h.parent.name)
	}
	return results, nil
}

func (h *i2cHandle) WriteBlockData(ctx context.Context, register byte, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// On devices that use registers this is equivalent to writing the register address and then
	// the relevant bytes.
	rawData := make([]byte, len(data)+1)
	rawData[0] = register
	copy(rawData[1:], data)
	if err := h.device.Tx(rawData, nil); err != nil {
		return errors.Wrapf(err, "failed writing %d bytes to I2C register %#x, address %#x on bus %q",
			len(data), register, h.device.Addr, h.parent.name)
	}
	return nil
}

func (h *i2cHandle) Close() error {
	if h.closed {
		return errors.New("I2C handle already closed")
	}
	h.closed = true
	h.parent.mu.Unlock()
	return nil
}
