package ssd1306

import (
	"context"
	"testing"

	"go.viam.com/test"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"go.viam.com/accelcv/logging"
)

func litPixels(frame *image1bit.VerticalLSB) int {
	count := 0
	bounds := frame.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if frame.At(x, y) == image1bit.On {
				count++
			}
		}
	}
	return count
}

func TestWriteText(t *testing.T) {
	bus := &i2ctest.Record{}
	disp, err := NewDisplay(bus, Config{Width: 128, Height: 64}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, disp.frame.Bounds().Dx(), test.ShouldEqual, 128)
	test.That(t, disp.frame.Bounds().Dy(), test.ShouldEqual, 64)

	initOps := len(bus.Ops)
	test.That(t, disp.Clear(context.Background()), test.ShouldBeNil)
	test.That(t, litPixels(disp.frame), test.ShouldEqual, 0)

	test.That(t, disp.WriteText(context.Background(), "X: 7.50\nY: 5.00\nZ: 4.99"), test.ShouldBeNil)
	test.That(t, litPixels(disp.frame), test.ShouldBeGreaterThan, 0)
	test.That(t, len(bus.Ops), test.ShouldBeGreaterThan, initOps)

	test.That(t, disp.Clear(context.Background()), test.ShouldBeNil)
	test.That(t, litPixels(disp.frame), test.ShouldEqual, 0)
	test.That(t, disp.Close(), test.ShouldBeNil)
}
