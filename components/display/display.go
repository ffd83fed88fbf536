// Package display defines the text sink the bridge draws its readings on.
package display

import "context"

// A Display shows a few lines of text.
type Display interface {
	// Clear blanks the frame. Models with a frame buffer may defer the blank until the next
	// WriteText.
	Clear(ctx context.Context) error
	// WriteText draws text, one line per '\n'-separated row, and shows it.
	WriteText(ctx context.Context, text string) error
	Close() error
}
