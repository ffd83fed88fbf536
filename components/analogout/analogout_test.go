package analogout

import (
	"context"
	"testing"

	"go.viam.com/test"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"go.viam.com/accelcv/logging"
)

func TestPWM(t *testing.T) {
	ctx := context.Background()
	pin := &gpiotest.Pin{N: "CV1"}
	out := NewPWMFromPin(pin, PWMConfig{}, logging.NewTestLogger(t))

	test.That(t, out.frequency, test.ShouldEqual, DefaultPWMFrequency)
	test.That(t, out.maxVoltage, test.ShouldEqual, DefaultMaxVoltage)

	test.That(t, out.SetVoltage(ctx, 5), test.ShouldBeNil)
	test.That(t, pin.D, test.ShouldEqual, gpio.DutyHalf)
	test.That(t, pin.F, test.ShouldEqual, DefaultPWMFrequency)

	test.That(t, out.SetVoltage(ctx, 10), test.ShouldBeNil)
	test.That(t, pin.D, test.ShouldEqual, gpio.DutyMax)

	t.Run("saturates outside the output range", func(t *testing.T) {
		test.That(t, out.DutyFor(-2.5), test.ShouldEqual, gpio.Duty(0))
		test.That(t, out.DutyFor(15), test.ShouldEqual, gpio.DutyMax)
	})

	t.Run("custom range", func(t *testing.T) {
		out := NewPWMFromPin(pin, PWMConfig{MaxVoltage: 5, Frequency: physic.KiloHertz}, logging.NewTestLogger(t))
		test.That(t, out.DutyFor(2.5), test.ShouldEqual, gpio.DutyHalf)
		test.That(t, out.SetVoltage(ctx, 2.5), test.ShouldBeNil)
		test.That(t, pin.F, test.ShouldEqual, physic.KiloHertz)
	})

	test.That(t, out.Close(), test.ShouldBeNil)
}
