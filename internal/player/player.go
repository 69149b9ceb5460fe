// Package player resolves the runtime configuration of a StoryNode player
// from the project archive embedded in its own executable.
package player

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/storynode/player/internal/manifest"
	"github.com/storynode/player/internal/workenv"
	"github.com/storynode/player/pkg/snpk"
)

var (
	// ErrNoGameData is returned when neither embedded data nor a local manifest exists
	ErrNoGameData = errors.New("no game data found")

	ErrExtractionFailed = errors.New("failed to extract embedded game data")
)

// Extractor writes an archive into the working directory
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Player ties the footer reader, the extractor and the settings resolver
// together for one host executable.
type Player struct {
	exePath   string
	extractor Extractor
	getwd     func() (string, error)
	logger    hclog.Logger
}

// Option customises a Player
type Option func(*Player)

// WithGetwd replaces os.Getwd for the current-directory fallback
func WithGetwd(getwd func() (string, error)) Option {
	return func(p *Player) {
		p.getwd = getwd
	}
}

// New creates a Player for the executable at exePath
func New(exePath string, extractor Extractor, logger hclog.Logger, opts ...Option) *Player {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	p := &Player{
		exePath:   exePath,
		extractor: extractor,
		getwd:     os.Getwd,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewWithWorkenv is New with a workenv.Workenv built from opts
func NewWithWorkenv(exePath string, opts workenv.Options, logger hclog.Logger) *Player {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return New(exePath, workenv.New(opts, logger), logger)
}

// Result is the outcome of Startup
type Result struct {
	State    State             `json:"state"`
	Fallback Fallback          `json:"fallback"`
	DataDir  string            `json:"dataDir,omitempty"`
	Settings manifest.Settings `json:"settings"`
}

// Startup resolves the window configuration once, before the window is
// shown. It never fails: every missing or broken stage falls back to the
// built-in defaults.
func (p *Player) Startup() Result {
	result := Result{State: StateUnresolved}

	data, ok := snpk.ReadEmbedded(p.exePath, p.logger)
	if !ok {
		p.logger.Debug("🔍 No embedded game data, using defaults")
		return p.configured(result, FallbackNoEmbeddedData, nil)
	}

	dir, err := p.extractor.Extract(data)
	if err != nil {
		p.logger.Error("❌ Failed to extract embedded game data, using defaults", "error", err)
		return p.configured(result, FallbackExtractionFailed, nil)
	}
	result.State = StateExtracted
	result.DataDir = dir

	settings, ok := manifest.ReadSettings(dir, p.logger)
	if !ok {
		return p.configured(result, FallbackNoSettings, nil)
	}
	result.State = StateSettingsLoaded

	return p.configured(result, FallbackNone, settings)
}

func (p *Player) configured(result Result, fallback Fallback, gs *manifest.GameSettings) Result {
	result.State = StateConfigured
	result.Fallback = fallback
	result.Settings = manifest.Resolve(gs)

	p.logger.Info("🎬 Startup configuration resolved",
		"fallback", fallback,
		"title", result.Settings.Title,
		"width", result.Settings.WindowWidth,
		"height", result.Settings.WindowHeight)
	return result
}

// GameDataPath locates the project root. Embedded data is extracted again on
// every call and extraction errors are returned; without embedded data the
// current directory is used if it holds a manifest.
func (p *Player) GameDataPath() (string, error) {
	if data, ok := snpk.ReadEmbedded(p.exePath, p.logger); ok {
		dir, err := p.extractor.Extract(data)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
		}
		return dir, nil
	}

	cwd, err := p.getwd()
	if err != nil {
		return "", fmt.Errorf("get current directory: %w", err)
	}
	if manifest.Exists(cwd) {
		p.logger.Debug("📁 Using game data from current directory", "path", cwd)
		return cwd, nil
	}

	return "", ErrNoGameData
}
