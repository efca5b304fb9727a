// Package logger is the process-wide charm logger. Every shiftdesk command
// and the stub API write to <config dir>/logs/shiftdesk.log; the helpers are
// no-ops until Init runs so packages can log from tests without setup.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

// Logger is nil until Init succeeds.
var Logger *log.Logger

// Config selects where and how much to log. ConfigDir is the resolved
// shiftdesk config directory, not the config file.
type Config struct {
	Debug     bool
	ConfigDir string
}

// LogFile returns the path Init writes to for configDir.
func LogFile(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

func rotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
}

// Init opens the rotating log file and installs Logger. Without Debug only
// warnings and errors are kept and nothing reaches the terminal, which the
// TUI and command output own. With Debug every level is also mirrored to
// stderr with caller info.
func Init(cfg Config) error {
	path := LogFile(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          constants.AppName,
		Level:           log.WarnLevel,
	}
	var out io.Writer = rotatingFile(path)
	if cfg.Debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
		out = io.MultiWriter(os.Stderr, out)
	}

	Logger = log.NewWithOptions(out, opts)
	return nil
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
