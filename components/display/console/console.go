// Package console shows the display text in a live-updating terminal area.
package console

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
)

// area is the part of *pterm.AreaPrinter the display draws through.
type area interface {
	Update(text ...any)
	Stop() error
}

// Display redraws a boxed, centred block of text in place on the terminal.
type Display struct {
	area  area
	lines []string
}

// NewDisplay starts the terminal area.
func NewDisplay() (*Display, error) {
	printer, err := pterm.DefaultArea.WithCenter().Start()
	if err != nil {
		return nil, err
	}
	return newDisplay(printer), nil
}

func newDisplay(a area) *Display {
	return &Display{area: a}
}

// Clear empties the pending frame. The terminal keeps showing the last frame until the next
// WriteText.
func (d *Display) Clear(ctx context.Context) error {
	d.lines = d.lines[:0]
	return nil
}

// WriteText adds text to the pending frame and redraws the area once.
func (d *Display) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.lines = append(d.lines, text)
	d.area.Update(pterm.DefaultBox.Sprint(strings.Join(d.lines, "\n")))
	return nil
}

// Close stops redrawing and leaves the last frame on screen.
func (d *Display) Close() error {
	return d.area.Stop()
}
