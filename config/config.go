// Package config defines the JSON configuration read by accelcv.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/accelcv/components/movementsensor/adxl343"
)

// NumOutputs is the number of analog output channels: one per axis and one complement per axis.
const NumOutputs = 6

// Display types.
const (
	DisplayTypeConsole = "console"
	DisplayTypeSSD1306 = "ssd1306"
	DisplayTypeFake    = "fake"
)

// Output types.
const (
	OutputTypePWM  = "pwm"
	OutputTypeFake = "fake"
)

// A Config describes the sensor, the display and the output channels.
type Config struct {
	I2CBus           string         `json:"i2c_bus"`
	I2CAddress       int            `json:"i2c_address,omitempty"`
	PollIntervalMs   int            `json:"poll_interval_ms,omitempty"`
	StrictPowerCheck bool           `json:"strict_power_check,omitempty"`
	Display          DisplayConfig  `json:"display"`
	Outputs          []OutputConfig `json:"outputs"`
}

// DisplayConfig describes the display.
type DisplayConfig struct {
	Type   string `json:"type"`
	I2CBus string `json:"i2c_bus,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// OutputConfig describes one analog output channel.
type OutputConfig struct {
	Type        string  `json:"type"`
	Pin         string  `json:"pin,omitempty"`
	FrequencyHz int     `json:"frequency_hz,omitempty"`
	MaxVoltage  float64 `json:"max_voltage,omitempty"`
}

// Default returns the configuration used when no file is given: the sensor at 0x53 on bus 1,
// polled every 10ms, a console display and six fake outputs.
func Default() *Config {
	outputs := make([]OutputConfig, 0, NumOutputs)
	for i := 0; i < NumOutputs; i++ {
		outputs = append(outputs, OutputConfig{Type: OutputTypeFake})
	}
	return &Config{
		I2CBus:         "1",
		I2CAddress:     int(adxl343.DefaultAddress),
		PollIntervalMs: 10,
		Display:        DisplayConfig{Type: DisplayTypeConsole},
		Outputs:        outputs,
	}
}

// PollInterval returns the configured cadence.
func (cfg *Config) PollInterval() time.Duration {
	return time.Duration(cfg.PollIntervalMs) * time.Millisecond
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.I2CBus == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "i2c_bus")
	}
	if cfg.I2CAddress != int(adxl343.DefaultAddress) && cfg.I2CAddress != int(adxl343.AlternateAddress) {
		return utils.NewConfigValidationError(path,
			errors.Errorf("i2c_address must be %#x or %#x but got %#x",
				adxl343.DefaultAddress, adxl343.AlternateAddress, cfg.I2CAddress))
	}
	if cfg.PollIntervalMs <= 0 {
		return utils.NewConfigValidationError(path, errors.New("poll_interval_ms must be positive"))
	}
	if err := cfg.Display.Validate(fmt.Sprintf("%s.%s", path, "display")); err != nil {
		return err
	}
	if len(cfg.Outputs) != NumOutputs {
		return utils.NewConfigValidationError(path,
			errors.Errorf("expected %d outputs but got %d", NumOutputs, len(cfg.Outputs)))
	}
	for idx, conf := range cfg.Outputs {
		if err := conf.Validate(fmt.Sprintf("%s.%s.%d", path, "outputs", idx)); err != nil {
			return err
		}
	}
	return nil
}

// Validate ensures all parts of the config are valid.
func (cfg *DisplayConfig) Validate(path string) error {
	switch cfg.Type {
	case DisplayTypeConsole, DisplayTypeFake:
	case DisplayTypeSSD1306:
		if cfg.I2CBus == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "i2c_bus")
		}
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown display type %q", cfg.Type))
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return utils.NewConfigValidationError(path, errors.New("width and height must not be negative"))
	}
	return nil
}

// Validate ensures all parts of the config are valid.
func (cfg *OutputConfig) Validate(path string) error {
	switch cfg.Type {
	case OutputTypeFake:
	case OutputTypePWM:
		if cfg.Pin == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "pin")
		}
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown output type %q", cfg.Type))
	}
	if cfg.FrequencyHz < 0 || cfg.MaxVoltage < 0 {
		return utils.NewConfigValidationError(path, errors.New("frequency_hz and max_voltage must not be negative"))
	}
	return nil
}

// Read reads and validates a config from the given file. Fields missing from the file keep
// their Default values.
func Read(filePath string) (*Config, error) {
	//nolint:gosec
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads and validates a config from the given reader, naming it originalPath in
// errors.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", originalPath)
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	return cfg, nil
}
