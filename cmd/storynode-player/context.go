package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/storynode/player/internal/config"
	"github.com/storynode/player/internal/player"
	"github.com/storynode/player/internal/workenv"
	"github.com/storynode/player/pkg/logging"
)

// commandContext carries what every subcommand needs, built once in
// PersistentPreRunE.
type commandContext struct {
	configFlag   string
	logLevelFlag string
	workDirFlag  string
	exeFlag      string

	config   *config.Config
	logger   hclog.Logger
	closeLog func()
	exePath  string
	workenv  *workenv.Workenv
	player   *player.Player
}

func (c *commandContext) setup() error {
	cfg, cfgPath, exists, err := config.Load(strings.TrimSpace(c.configFlag))
	if err != nil {
		return &exitError{code: ExitInvalidArgs, err: err}
	}
	if c.workDirFlag != "" {
		cfg.Player.WorkDir = c.workDirFlag
	}
	c.config = cfg

	level, source := logging.ResolveLevel(c.logLevelFlag, cfg.Logging.Level)
	logger, closeLog := logging.NewLogger(logging.Options{
		Name:  "storynode-player",
		Level: level,
		JSON:  cfg.Logging.JSON,
		Path:  cfg.Logging.Path,
	})
	runID := uuid.NewString()[:8]
	c.logger = logger.With("run", runID)
	c.closeLog = closeLog
	c.logger.Debug("Log level", "level", level, "source", source)
	c.logger.Debug("Configuration", "path", cfgPath, "exists", exists)

	exePath := c.exeFlag
	if exePath == "" {
		exePath, err = os.Executable()
		if err != nil {
			return &exitError{code: ExitIOError, err: fmt.Errorf("failed to get executable path: %w", err)}
		}
	}
	c.exePath = exePath

	c.workenv = workenv.New(workenv.Options{
		Dir:                 cfg.Player.WorkDir,
		LockTimeout:         cfg.LockTimeout(),
		DiskSpaceMultiplier: cfg.Player.DiskSpaceMultiplier,
	}, c.logger)
	c.player = player.New(exePath, c.workenv, c.logger)
	return nil
}

func (c *commandContext) teardown() {
	if c.closeLog != nil {
		c.closeLog()
	}
}
