package liner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/float-ritual-stack/float-liner/store"
)

var (
	ErrSnapshotPathRequired     = errors.New("liner: snapshot path is required")
	ErrShellInterpreterRequired = errors.New("liner: shell interpreter is required")
	ErrShellTimeoutInvalid      = errors.New("liner: shell timeout must not be negative")
	ErrLoggingLevelInvalid      = errors.New("liner: unsupported logging level")
	ErrLoggingFormatInvalid     = errors.New("liner: unsupported logging format")
)

// Config drives App construction. Zero values are filled from
// DefaultConfig by New, so callers only set what they want to change.
type Config struct {
	// SnapshotPath locates the single-file document snapshot.
	SnapshotPath string

	// Replica pins the replica identity. Empty means a fresh random
	// identity per process, which is what a local-first peer wants.
	Replica string

	Shell   ShellConfig
	Logging LoggingConfig
}

// ShellConfig controls how block commands are executed.
type ShellConfig struct {
	// Interpreter is invoked as `interpreter -c <command>`.
	Interpreter string

	// Timeout bounds a single command dispatch. Zero keeps the handler
	// default.
	Timeout time.Duration
}

// LoggingConfig mirrors the go-logger options the module exposes.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// DefaultConfig returns the configuration used when the caller supplies
// nothing: snapshot under the per-user data dir, `sh` as interpreter,
// console logging at info.
func DefaultConfig() Config {
	return Config{
		SnapshotPath: store.DefaultPath(),
		Shell: ShellConfig{
			Interpreter: "sh",
			Timeout:     30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate performs consistency checks on an already-normalized Config.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.SnapshotPath) == "" {
		return ErrSnapshotPathRequired
	}
	if strings.TrimSpace(cfg.Shell.Interpreter) == "" {
		return ErrShellInterpreterRequired
	}
	if cfg.Shell.Timeout < 0 {
		return ErrShellTimeoutInvalid
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

// normalize fills unset fields from the defaults.
func (cfg Config) normalize() Config {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.SnapshotPath) == "" {
		cfg.SnapshotPath = defaults.SnapshotPath
	}
	if strings.TrimSpace(cfg.Shell.Interpreter) == "" {
		cfg.Shell.Interpreter = defaults.Shell.Interpreter
	}
	if cfg.Shell.Timeout == 0 {
		cfg.Shell.Timeout = defaults.Shell.Timeout
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if strings.TrimSpace(cfg.Logging.Format) == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}
	return cfg
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
