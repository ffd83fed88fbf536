// Package main runs an ADXL343 accelerometer as a six channel control-voltage source.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"go.viam.com/utils"
	"periph.io/x/conn/v3/physic"

	"go.viam.com/accelcv/components/analogout"
	fakeanalogout "go.viam.com/accelcv/components/analogout/fake"
	"go.viam.com/accelcv/components/board"
	"go.viam.com/accelcv/components/board/genericlinux"
	"go.viam.com/accelcv/components/display"
	"go.viam.com/accelcv/components/display/console"
	fakedisplay "go.viam.com/accelcv/components/display/fake"
	"go.viam.com/accelcv/components/display/ssd1306"
	"go.viam.com/accelcv/components/movementsensor/adxl343"
	"go.viam.com/accelcv/config"
	"go.viam.com/accelcv/logging"
	"go.viam.com/accelcv/services/cvbridge"
)

var logger = logging.NewLogger("accelcv")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"config,usage=path to a JSON config file"`
	Debug      bool   `flag:"debug,usage=enable debug logging"`
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Debug {
		logger.SetLevel(zapcore.DebugLevel)
	}

	cfg := config.Default()
	if argsParsed.ConfigFile != "" {
		var err error
		if cfg, err = config.Read(argsParsed.ConfigFile); err != nil {
			return err
		}
	}

	bus, err := genericlinux.NewI2CBus(cfg.I2CBus)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(bus.Close)

	return runBridge(ctx, cfg, bus, logger)
}

// runBridge wires the sensor on sensorBus to the configured sinks and runs until ctx is done.
func runBridge(ctx context.Context, cfg *config.Config, sensorBus board.I2C, logger logging.Logger) (err error) {
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Combine(err, closers[i].Close())
		}
	}()

	sensor := adxl343.NewDevice(sensorBus, adxl343.Config{
		Address:          byte(cfg.I2CAddress),
		StrictPowerCheck: cfg.StrictPowerCheck,
	}, logger.Sublogger("adxl343"))

	disp, displayClosers, err := newDisplay(cfg.Display, logger.Sublogger("display"))
	if err != nil {
		return err
	}
	closers = append(closers, displayClosers...)

	outputs, err := newOutputs(cfg.Outputs, logger.Sublogger("outputs"))
	if err != nil {
		return err
	}
	for _, out := range outputs {
		closers = append(closers, out)
	}

	bridge, err := cvbridge.New(sensor, disp, outputs, cvbridge.Config{Interval: cfg.PollInterval()}, logger)
	if err != nil {
		return err
	}

	runErr := bridge.Run(ctx)
	if sensor.State() == adxl343.StateMeasuring {
		// ctx may already be done; standby still has to reach the chip.
		if standbyErr := sensor.Standby(context.Background()); standbyErr != nil {
			logger.Warnw("failed to put ADXL343 in standby", "error", standbyErr)
		}
	}
	return runErr
}

// newDisplay returns the display and everything that must be closed after it, display first.
func newDisplay(cfg config.DisplayConfig, logger logging.Logger) (display.Display, []io.Closer, error) {
	switch cfg.Type {
	case config.DisplayTypeConsole:
		disp, err := console.NewDisplay()
		if err != nil {
			return nil, nil, err
		}
		return disp, []io.Closer{disp}, nil
	case config.DisplayTypeSSD1306:
		bus, err := genericlinux.NewI2CBus(cfg.I2CBus)
		if err != nil {
			return nil, nil, err
		}
		disp, err := ssd1306.NewDisplay(bus.Bus(), ssd1306.Config{Width: cfg.Width, Height: cfg.Height}, logger)
		if err != nil {
			return nil, nil, multierr.Combine(err, bus.Close())
		}
		// closers run in reverse, so the panel is halted before its bus closes.
		return disp, []io.Closer{bus, disp}, nil
	case config.DisplayTypeFake:
		disp := fakedisplay.NewDisplay()
		return disp, []io.Closer{disp}, nil
	default:
		return nil, nil, errors.Errorf("unknown display type %q", cfg.Type)
	}
}

func newOutputs(cfgs []config.OutputConfig, logger logging.Logger) (outputs []analogout.AnalogOutput, err error) {
	defer func() {
		if err == nil {
			return
		}
		for _, out := range outputs {
			err = multierr.Combine(err, out.Close())
		}
		outputs = nil
	}()

	for idx, cfg := range cfgs {
		name := fmt.Sprintf("cv%d", idx+1)
		switch cfg.Type {
		case config.OutputTypePWM:
			out, err := analogout.NewPWM(analogout.PWMConfig{
				Pin:        cfg.Pin,
				Frequency:  physic.Frequency(cfg.FrequencyHz) * physic.Hertz,
				MaxVoltage: cfg.MaxVoltage,
			}, logger.Sublogger(name))
			if err != nil {
				return outputs, errors.Wrapf(err, "cannot create output %s", name)
			}
			outputs = append(outputs, out)
		case config.OutputTypeFake:
			outputs = append(outputs, fakeanalogout.NewAnalogOutput(name, logger))
		default:
			return outputs, errors.Errorf("unknown output type %q for %s", cfg.Type, name)
		}
	}
	return outputs, nil
}
