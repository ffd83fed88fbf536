package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	test.That(t, cfg.Validate(""), test.ShouldBeNil)
	test.That(t, cfg.I2CAddress, test.ShouldEqual, 0x53)
	test.That(t, cfg.PollInterval(), test.ShouldEqual, 10*time.Millisecond)
	test.That(t, cfg.StrictPowerCheck, test.ShouldBeFalse)
	test.That(t, cfg.Outputs, test.ShouldHaveLength, NumOutputs)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(cfg *Config)
		err    string
	}{
		{"missing bus", func(cfg *Config) { cfg.I2CBus = "" }, "i2c_bus"},
		{"address too large", func(cfg *Config) { cfg.I2CAddress = 0x153 }, "i2c_address must be 0x53 or 0x1d"},
		{"address of another chip", func(cfg *Config) { cfg.I2CAddress = 0x68 }, "i2c_address"},
		{"zero interval", func(cfg *Config) { cfg.PollIntervalMs = 0 }, "poll_interval_ms"},
		{"missing display type", func(cfg *Config) { cfg.Display.Type = "" }, "type"},
		{"unknown display", func(cfg *Config) { cfg.Display.Type = "lcd" }, "unknown display type"},
		{"ssd1306 without bus", func(cfg *Config) { cfg.Display.Type = DisplayTypeSSD1306 }, "i2c_bus"},
		{"five outputs", func(cfg *Config) { cfg.Outputs = cfg.Outputs[:5] }, "expected 6 outputs"},
		{"pwm without pin", func(cfg *Config) { cfg.Outputs[3] = OutputConfig{Type: OutputTypePWM} }, "pin"},
		{"unknown output", func(cfg *Config) { cfg.Outputs[0].Type = "dac" }, "unknown output type"},
		{"negative voltage", func(cfg *Config) { cfg.Outputs[0].MaxVoltage = -1 }, "max_voltage"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			err := cfg.Validate("")
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
		})
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accelcv.json")
	contents := `{
		"i2c_bus": "0",
		"poll_interval_ms": 20,
		"display": {"type": "ssd1306", "i2c_bus": "1", "height": 32},
		"outputs": [
			{"type": "pwm", "pin": "GPIO12"},
			{"type": "pwm", "pin": "GPIO13", "max_voltage": 5},
			{"type": "fake"},
			{"type": "fake"},
			{"type": "fake"},
			{"type": "pwm", "pin": "GPIO18", "frequency_hz": 1000}
		]
	}`
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.I2CBus, test.ShouldEqual, "0")
	test.That(t, cfg.I2CAddress, test.ShouldEqual, 0x53)
	test.That(t, cfg.PollInterval(), test.ShouldEqual, 20*time.Millisecond)
	test.That(t, cfg.Display, test.ShouldResemble, DisplayConfig{Type: DisplayTypeSSD1306, I2CBus: "1", Height: 32})
	test.That(t, cfg.Outputs[1].MaxVoltage, test.ShouldEqual, 5.0)
	test.That(t, cfg.Outputs[5].FrequencyHz, test.ShouldEqual, 1000)

	cfg, err = FromReader("alternate", strings.NewReader(`{"i2c_address": 29}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.I2CAddress, test.ShouldEqual, 0x1D)

	_, err = Read(filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader("unknown-field", strings.NewReader(`{"i2c_bux": "1"}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot parse config")

	_, err = FromReader("invalid", strings.NewReader(`{"poll_interval_ms": -5}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "poll_interval_ms")
}
