// Package logging provides the package-level leveled logger used throughout
// the simulator. Call sites look like logging.Debug("core/engine: ..."),
// logging.Error("core/batch: ...", err).
package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu     sync.RWMutex
	logger hclog.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "simulator",
		Level:  hclog.Info,
		Output: os.Stderr,
	})
)

// SetLevel adjusts the logger's verbosity. Accepts "DEBUG", "INFO", "WARN",
// "ERROR" (case-insensitive); unrecognized levels fall back to INFO.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()

	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	logger.SetLevel(lvl)
}

// Default returns the underlying hclog.Logger, for components (like
// go-metrics) that want a logger of their own rather than the package-level
// functions.
func Default() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Debug(fmt.Sprintf(format, args...))
}

// Info logs a formatted message at info level.
func Info(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Info(fmt.Sprintf(format, args...))
}

// Warning logs a formatted message at warn level.
func Warning(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Warn(fmt.Sprintf(format, args...))
}

// Error logs a formatted message at error level.
func Error(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Error(fmt.Sprintf(format, args...))
}
