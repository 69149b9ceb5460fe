package main

import (
	"fmt"
	"io"
)

// consoleWindow stands in for the desktop window when the player runs
// headless. It reports the geometry it was asked for.
type consoleWindow struct {
	out    io.Writer
	title  string
	width  uint32
	height uint32
}

func (w *consoleWindow) SetTitle(title string) error {
	w.title = title
	return nil
}

func (w *consoleWindow) SetSize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid window size %dx%d", width, height)
	}
	w.width, w.height = width, height
	return nil
}

func (w *consoleWindow) Center() error {
	if w.width == 0 || w.height == 0 {
		_, err := fmt.Fprintf(w.out, "🪟 %q (default size, centered)\n", w.title)
		return err
	}
	_, err := fmt.Fprintf(w.out, "🪟 %q %dx%d (centered)\n", w.title, w.width, w.height)
	return err
}
