package player

import (
	"github.com/hashicorp/go-hclog"

	"github.com/storynode/player/internal/manifest"
)

// Window is the part of the host window the player configures
type Window interface {
	SetTitle(title string) error
	SetSize(width, height uint32) error // logical pixels
	Center() error
}

// Apply sets title and size and centres the window. Window errors never
// block startup; they are logged and skipped.
func Apply(w Window, s manifest.Settings, logger hclog.Logger) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if err := w.SetTitle(s.Title); err != nil {
		logger.Warn("⚠️ Failed to set window title", "error", err)
	}
	if err := w.SetSize(s.WindowWidth, s.WindowHeight); err != nil {
		logger.Warn("⚠️ Failed to set window size", "error", err)
	}
	if err := w.Center(); err != nil {
		logger.Warn("⚠️ Failed to center window", "error", err)
	}
}
