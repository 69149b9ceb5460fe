// Package manifest reads project.json from an extracted project and turns
// its optional gameSettings block into runtime settings.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// FileName is the manifest at the root of every project
const FileName = "project.json"

var (
	ErrMissingName   = errors.New("manifest: missing name")
	ErrMissingStages = errors.New("manifest: missing stages")
)

// GameSettings is the optional gameSettings block. Every field is optional
// and nil means absent.
type GameSettings struct {
	Title           *string `json:"title,omitempty"`
	WindowWidth     *uint32 `json:"windowWidth,omitempty"`
	WindowHeight    *uint32 `json:"windowHeight,omitempty"`
	Resizable       *bool   `json:"resizable,omitempty"`
	Fullscreen      *bool   `json:"fullscreen,omitempty"`
	DefaultThemeID  *string `json:"defaultThemeId,omitempty"`
	DefaultGameMode *string `json:"defaultGameMode,omitempty"`
}

// Project is the parsed project.json
type Project struct {
	Name         string        `json:"name"`
	Version      string        `json:"version,omitempty"`
	Stages       []string      `json:"stages"`
	GameSettings *GameSettings `json:"gameSettings,omitempty"`
}

// Path returns the manifest path inside dir
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir directly contains a manifest
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// Parse decodes a manifest. name and stages must be present; stages may be
// an empty list. Keys match exactly: "Name" is not "name".
func Parse(data []byte) (*Project, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("parse manifest: not an object")
	}

	var name *string
	if err := decodeField(fields, "name", &name); err != nil {
		return nil, err
	}
	if name == nil {
		return nil, ErrMissingName
	}

	var stages []string
	if err := decodeField(fields, "stages", &stages); err != nil {
		return nil, err
	}
	if stages == nil {
		return nil, ErrMissingStages
	}

	project := &Project{Name: *name, Stages: stages}
	if err := decodeField(fields, "version", &project.Version); err != nil {
		return nil, err
	}

	settings, err := parseGameSettings(fields["gameSettings"])
	if err != nil {
		return nil, err
	}
	project.GameSettings = settings
	return project, nil
}

func parseGameSettings(raw json.RawMessage) (*GameSettings, error) {
	var fields map[string]json.RawMessage
	if len(raw) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse gameSettings: %w", err)
	}
	if fields == nil {
		return nil, nil // null
	}

	gs := &GameSettings{}
	for key, dst := range map[string]any{
		"title":           &gs.Title,
		"windowWidth":     &gs.WindowWidth,
		"windowHeight":    &gs.WindowHeight,
		"resizable":       &gs.Resizable,
		"fullscreen":      &gs.Fullscreen,
		"defaultThemeId":  &gs.DefaultThemeID,
		"defaultGameMode": &gs.DefaultGameMode,
	} {
		if err := decodeField(fields, key, dst); err != nil {
			return nil, fmt.Errorf("gameSettings: %w", err)
		}
	}
	return gs, nil
}

// decodeField unmarshals fields[key] into dst. An absent key leaves dst
// untouched.
func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse manifest field %s: %w", key, err)
	}
	return nil
}

// Load reads and parses dir/project.json
func Load(dir string) (*Project, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// ReadSettings is the best-effort form of Load: any failure, and a manifest
// without a gameSettings block, is reported as "no settings".
func ReadSettings(dir string, logger hclog.Logger) (*GameSettings, bool) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	project, err := Load(dir)
	if err != nil {
		logger.Debug("🔍 No usable manifest", "dir", dir, "reason", err)
		return nil, false
	}
	if project.GameSettings == nil {
		logger.Debug("🔍 Manifest has no gameSettings", "project", project.Name)
		return nil, false
	}

	logger.Debug("📖 Loaded game settings", "project", project.Name, "version", project.Version, "stages", len(project.Stages))
	return project.GameSettings, true
}
