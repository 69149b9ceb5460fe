package logging

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultLevel is used when neither the command line nor the config sets one
const DefaultLevel = "warn"

// Options configures NewLogger
type Options struct {
	Name   string
	Level  string    // "debug", "json", "json:trace", ...
	JSON   bool      // force JSON output regardless of Level
	Output io.Writer // defaults to os.Stderr
	Path   string    // append to this file instead of Output
}

// ResolveLevel picks the log level by precedence: command line, then the
// configured value (which already carries STORYNODE_LOG_LEVEL), then
// DefaultLevel. It also returns where the level came from.
func ResolveLevel(cliLevel, configLevel string) (string, string) {
	switch {
	case cliLevel != "":
		return cliLevel, "cli"
	case configLevel != "":
		return configLevel, "config"
	default:
		return DefaultLevel, "default"
	}
}

// ParseLevel splits an optional "json" / "json:<level>" prefix from level
func ParseLevel(level string) (hclog.Level, bool) {
	jsonFormat := false
	actual := level
	if strings.HasPrefix(level, "json") {
		jsonFormat = true
		parts := strings.SplitN(level, ":", 2)
		if len(parts) > 1 {
			actual = parts[1]
		} else {
			actual = "info"
		}
	}

	parsed := hclog.LevelFromString(actual)
	if parsed == hclog.NoLevel {
		parsed = hclog.LevelFromString(DefaultLevel)
	}
	return parsed, jsonFormat
}

// Prefix returns the line prefix for text output (ASCII on Windows)
func Prefix() string {
	if runtime.GOOS == "windows" {
		return "[SN] "
	}
	return "📖 "
}

// NewLogger creates an hclog logger with the player's standard settings. The
// returned close function releases the log file, if one was opened.
func NewLogger(opts Options) (hclog.Logger, func()) {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	closeFn := func() {}
	if opts.Path != "" {
		if file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			output = file
			closeFn = func() { file.Close() }
		}
	}

	level, jsonFormat := ParseLevel(opts.Level)
	jsonFormat = jsonFormat || opts.JSON

	var prefixed *PrefixWriter
	if !jsonFormat {
		prefixed = NewPrefixWriter(Prefix(), output)
		output = prefixed
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      level,
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})

	return logger, func() {
		if prefixed != nil {
			prefixed.Flush()
		}
		closeFn()
	}
}
