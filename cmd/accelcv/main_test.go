package main

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/accelcv/components/board"
	"go.viam.com/accelcv/components/movementsensor/adxl343"
	"go.viam.com/accelcv/config"
	"go.viam.com/accelcv/logging"
	"go.viam.com/accelcv/testutils/inject"
)

func sensorBus(devID byte, writes *[]byte) *inject.I2C {
	registers := map[byte]byte{
		adxl343.RegDevID:      devID,
		adxl343.RegDataX0 + 1: 0x01,
	}
	handle := &inject.I2CHandle{
		ReadBlockDataFunc: func(_ context.Context, register byte, numBytes uint8) ([]byte, error) {
			out := make([]byte, numBytes)
			for i := range out {
				out[i] = registers[register+byte(i)]
			}
			return out, nil
		},
		ReadByteDataFunc: func(_ context.Context, register byte) (byte, error) {
			return registers[register], nil
		},
		WriteByteDataFunc: func(_ context.Context, register, data byte) error {
			registers[register] = data
			*writes = append(*writes, data)
			return nil
		},
		CloseFunc: func() error { return nil },
	}
	return &inject.I2C{OpenHandleFunc: func(byte) (board.I2CHandle, error) { return handle, nil }}
}

func fakeConfig() *config.Config {
	cfg := config.Default()
	cfg.Display.Type = config.DisplayTypeFake
	return cfg
}

func TestRunBridge(t *testing.T) {
	t.Run("polls until canceled then enters standby", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		var writes []byte
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := runBridge(ctx, fakeConfig(), sensorBus(adxl343.DevID, &writes), logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, writes, test.ShouldResemble, []byte{adxl343.MeasureBit, 0x00})
		test.That(t, logs.FilterMessageSnippet("7.50 | 5.00 | 5.00").Len(), test.ShouldBeGreaterThan, 0)
	})

	t.Run("wrong device exits without measuring", func(t *testing.T) {
		var writes []byte
		err := runBridge(context.Background(), fakeConfig(), sensorBus(0x12, &writes), logging.NewTestLogger(t))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, adxl343.ErrDeviceNotFound), test.ShouldBeTrue)
		test.That(t, writes, test.ShouldBeEmpty)
	})

	t.Run("bad output config", func(t *testing.T) {
		var writes []byte
		cfg := fakeConfig()
		cfg.Outputs[2].Type = "dac"
		err := runBridge(context.Background(), cfg, sensorBus(adxl343.DevID, &writes), logging.NewTestLogger(t))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "cv3")
		test.That(t, writes, test.ShouldBeEmpty)
	})
}

func TestMainWithArgsBadFlags(t *testing.T) {
	logger := logging.NewTestLogger(t)
	err := mainWithArgs(context.Background(), []string{"main", "--unknown"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not defined")

	err = mainWithArgs(context.Background(), []string{"main", "--config=/does/not/exist.json"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
