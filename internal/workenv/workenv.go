// Package workenv manages the working directory that receives the project
// archive embedded in a player binary.
//
// The working directory is a single slot: each extraction removes whatever
// is there and writes the new archive from scratch.
package workenv

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultDirName is the working directory name under the OS temp root
	DefaultDirName = "storynode_game"

	// LockSuffix names the lock file that sits next to the working directory
	LockSuffix = ".lock"

	FilePerms = 0o600 // Read/write for owner only
	DirPerms  = 0o700 // Read/write/execute for owner only

	DefaultLockTimeout         = 30 * time.Second
	DefaultDiskSpaceMultiplier = 2 // Require 2x archive size for extraction
)

// DefaultPath returns the working directory used when none is configured
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultDirName)
}

// Options configures a Workenv
type Options struct {
	// Dir overrides DefaultPath when set
	Dir string

	// LockTimeout bounds how long an extraction waits for another one
	LockTimeout time.Duration

	// DiskSpaceMultiplier scales the archive size into the free space required
	DiskSpaceMultiplier int64
}

// Workenv is the single extraction slot
type Workenv struct {
	dir         string
	lockTimeout time.Duration
	multiplier  int64
	logger      hclog.Logger

	mu   sync.Mutex
	lock *flock.Flock
}

// New creates a Workenv. Zero option values fall back to defaults.
func New(opts Options, logger hclog.Logger) *Workenv {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	dir := opts.Dir
	if dir == "" {
		dir = DefaultPath()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	multiplier := opts.DiskSpaceMultiplier
	if multiplier <= 0 {
		multiplier = DefaultDiskSpaceMultiplier
	}

	return &Workenv{
		dir:         dir,
		lockTimeout: timeout,
		multiplier:  multiplier,
		logger:      logger.Named("workenv"),
		lock:        flock.New(dir + LockSuffix),
	}
}

// Path returns the working directory path
func (w *Workenv) Path() string {
	return w.dir
}

// LockPath returns the lock file path
func (w *Workenv) LockPath() string {
	return w.dir + LockSuffix
}

// Exists checks if the working directory exists
func (w *Workenv) Exists() bool {
	info, err := os.Stat(w.dir)
	return err == nil && info.IsDir()
}
