// Package fake implements a display that remembers what was drawn on it.
package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Display records the last text written and how often it was cleared.
type Display struct {
	mu     sync.Mutex
	text   string
	clears int
	writes int
	closed bool
}

// NewDisplay returns an empty fake display.
func NewDisplay() *Display {
	return &Display{}
}

// Clear blanks the recorded text.
func (d *Display) Clear(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("display is closed")
	}
	d.text = ""
	d.clears++
	return nil
}

// WriteText records text.
func (d *Display) WriteText(ctx context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("display is closed")
	}
	d.text = text
	d.writes++
	return nil
}

// Text returns the last text written since the last clear.
func (d *Display) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// Counts returns how many clears and writes happened.
func (d *Display) Counts() (clears, writes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clears, d.writes
}

// Close marks the display closed.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
