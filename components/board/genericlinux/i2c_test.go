package genericlinux

import (
	"context"
	"testing"

	"go.viam.com/test"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestI2CHandle(t *testing.T) {
	ctx := context.Background()
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x53, W: []byte{0x00}, R: []byte{0xE5}},
			{Addr: 0x53, W: []byte{0x2D, 0x08}},
			{Addr: 0x53, W: []byte{0x32}, R: []byte{0x00, 0x01, 0x00, 0x00, 0xFF, 0xFF}},
		},
	}
	bus := &I2CBus{name: "playback", bus: playback}

	handle, err := bus.OpenHandle(0x53)
	test.That(t, err, test.ShouldBeNil)

	id, err := handle.ReadByteData(ctx, 0x00)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id, test.ShouldEqual, byte(0xE5))

	test.That(t, handle.WriteByteData(ctx, 0x2D, 0x08), test.ShouldBeNil)

	block, err := handle.ReadBlockData(ctx, 0x32, 6)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, block, test.ShouldResemble, []byte{0x00, 0x01, 0x00, 0x00, 0xFF, 0xFF})

	test.That(t, handle.Close(), test.ShouldBeNil)
	test.That(t, handle.Close(), test.ShouldNotBeNil)
	test.That(t, bus.Close(), test.ShouldBeNil)
}

func TestI2CHandleCanceledContext(t *testing.T) {
	bus := &I2CBus{name: "playback", bus: &i2ctest.Playback{}}
	handle, err := bus.OpenHandle(0x53)
	test.That(t, err, test.ShouldBeNil)
	defer handle.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = handle.ReadBlockData(ctx, 0x32, 6)
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, handle.WriteByteData(ctx, 0x2D, 0x08), test.ShouldBeError, context.Canceled)
}
