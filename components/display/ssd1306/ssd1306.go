// Package ssd1306 draws text on an SSD1306 monochrome OLED attached over I2C, like the 128x32
// and 128x64 modules found on Eurorack and hobby boards.
package ssd1306

import (
	"context"
	"image"
	"image/draw"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"go.viam.com/accelcv/logging"
)

// Config is the panel geometry.
type Config struct {
	Width  int
	Height int
}

// Display renders centred lines of text into a frame buffer and pushes it to the panel.
type Display struct {
	dev    *ssd1306.Dev
	frame  *image1bit.VerticalLSB
	face   font.Face
	logger logging.Logger
}

// NewDisplay initialises the panel on bus.
func NewDisplay(bus i2c.Bus, cfg Config, logger logging.Logger) (*Display, error) {
	opts := ssd1306.DefaultOpts
	if cfg.Width != 0 {
		opts.W = cfg.Width
	}
	if cfg.Height != 0 {
		opts.H = cfg.Height
	}
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize SSD1306")
	}
	logger.Debugf("SSD1306 panel is %dx%d", opts.W, opts.H)
	return &Display{
		dev:    dev,
		frame:  image1bit.NewVerticalLSB(dev.Bounds()),
		face:   basicfont.Face7x13,
		logger: logger,
	}, nil
}

// Clear blanks the frame buffer. The panel keeps its current image until the next WriteText.
func (d *Display) Clear(ctx context.Context) error {
	draw.Draw(d.frame, d.frame.Bounds(), &image.Uniform{C: image1bit.Off}, image.Point{}, draw.Src)
	return nil
}

// WriteText draws text centred on the panel, one row per line, and pushes the frame.
func (d *Display) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.render(text)
	return d.dev.Draw(d.frame.Bounds(), d.frame, image.Point{})
}

func (d *Display) render(text string) {
	bounds := d.frame.Bounds()
	metrics := d.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	lines := strings.Split(text, "\n")

	top := (bounds.Dy() - lineHeight*len(lines)) / 2
	drawer := font.Drawer{
		Dst:  d.frame,
		Src:  &image.Uniform{C: image1bit.On},
		Face: d.face,
	}
	for i, line := range lines {
		width := drawer.MeasureString(line).Ceil()
		x := (bounds.Dx() - width) / 2
		y := top + i*lineHeight + metrics.Ascent.Ceil()
		drawer.Dot = fixed.P(bounds.Min.X+x, bounds.Min.Y+y)
		drawer.DrawString(line)
	}
}

// Close turns the panel off.
func (d *Display) Close() error {
	return d.dev.Halt()
}
