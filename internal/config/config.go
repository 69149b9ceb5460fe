// Package config loads the optional player configuration file and applies
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables recognised by the player
const (
	EnvConfig   = "STORYNODE_CONFIG"
	EnvWorkDir  = "STORYNODE_WORKDIR"
	EnvLogLevel = "STORYNODE_LOG_LEVEL"
	EnvJSONLog  = "STORYNODE_JSON_LOG"
	EnvLogPath  = "STORYNODE_LOG_PATH"
)

// Player contains extraction settings
type Player struct {
	WorkDir             string `toml:"work_dir"`
	LockTimeoutSeconds  int    `toml:"lock_timeout_seconds"`
	DiskSpaceMultiplier int64  `toml:"disk_space_multiplier"`
}

// Logging contains logger settings
type Logging struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
	Path  string `toml:"path"`
}

// Config is the full player configuration
type Config struct {
	Player  Player  `toml:"player"`
	Logging Logging `toml:"logging"`
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		Player: Player{
			LockTimeoutSeconds:  30,
			DiskSpaceMultiplier: 2,
		},
		Logging: Logging{
			Level: "warn",
		},
	}
}

// DefaultPath returns <user config dir>/storynode/player.toml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "storynode", "player.toml"), nil
}

// LockTimeout returns the lock timeout as a duration
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Player.LockTimeoutSeconds) * time.Second
}

// Load reads the config file at path (or the default location when path is
// empty), then applies environment overrides. A missing file is not an
// error. It returns the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		// No config dir (e.g. $HOME unset) means defaults only
		if defaultPath, err := DefaultPath(); err == nil {
			path = defaultPath
		}
	}

	exists := false
	if path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			decoder := toml.NewDecoder(file)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&cfg); err != nil {
				return nil, "", false, fmt.Errorf("parse config %s: %w", path, err)
			}
			exists = true
		case errors.Is(err, fs.ErrNotExist):
			// optional
		default:
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, path, exists, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvWorkDir); v != "" {
		c.Player.WorkDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvJSONLog); v != "" {
		c.Logging.JSON = isTrue(v)
	}
	if v := os.Getenv(EnvLogPath); v != "" {
		c.Logging.Path = v
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Player.LockTimeoutSeconds < 0 {
		return fmt.Errorf("player.lock_timeout_seconds must be >= 0, got %d", c.Player.LockTimeoutSeconds)
	}
	if c.Player.DiskSpaceMultiplier < 1 {
		return fmt.Errorf("player.disk_space_multiplier must be >= 1, got %d", c.Player.DiskSpaceMultiplier)
	}
	return nil
}

// isTrue checks if a value is set to a true value
func isTrue(val string) bool {
	valLower := strings.ToLower(val)
	if valLower == "on" || valLower == "yes" {
		return true
	}
	result, err := strconv.ParseBool(val)
	return err == nil && result
}
