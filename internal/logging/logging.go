// Package logging provides config-driven categorized debug logging for
// cmdtree. Each category writes to its own file under <dir>/logs, backed
// by a zap core. Logging is off until Initialize is called with debug
// mode enabled; all helpers are no-ops before that, so library code can
// log unconditionally.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	// CategoryTree covers insertion, verification and deletion.
	CategoryTree Category = "tree"
	// CategoryParse covers the tree walker.
	CategoryParse Category = "parse"
	// CategorySuggest covers suggestion computation.
	CategorySuggest Category = "suggest"
	// CategoryConfig covers configuration loading and reloading.
	CategoryConfig Category = "config"
	// CategoryRepl covers the interactive shell.
	CategoryRepl Category = "repl"
)

// allCategories lists every known category, used when the configuration
// does not restrict the set.
var allCategories = []Category{
	CategoryTree, CategoryParse, CategorySuggest, CategoryConfig, CategoryRepl,
}

// Config controls which categories log and at which level.
type Config struct {
	// DebugMode enables logging altogether.
	DebugMode bool
	// Directory is the base directory; log files land in Directory/logs.
	Directory string
	// Level is the minimum level: debug, info, warn or error.
	Level string
	// Categories enables individual categories; empty enables all.
	Categories map[string]bool
}

var (
	mu      sync.RWMutex
	loggers = make(map[Category]*zap.SugaredLogger)
	files   []*os.File
	nop     = zap.NewNop().Sugar()
)

// Initialize sets up per-category loggers according to cfg. Calling it
// again tears down the previous loggers first.
func Initialize(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	if !cfg.DebugMode {
		return nil
	}

	logsDir := filepath.Join(cfg.Directory, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	level := parseLevel(cfg.Level)
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	for _, category := range allCategories {
		if len(cfg.Categories) > 0 && !cfg.Categories[string(category)] {
			continue
		}
		path := filepath.Join(logsDir, string(category)+".log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file for %s: %w", category, err)
		}
		files = append(files, file)
		core := zapcore.NewCore(encoder, zapcore.AddSync(file), level)
		loggers[category] = zap.New(core).Named(string(category)).Sugar()
	}
	return nil
}

// Shutdown flushes and closes every category logger.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	for _, logger := range loggers {
		_ = logger.Sync()
	}
	for _, file := range files {
		_ = file.Close()
	}
	loggers = make(map[Category]*zap.SugaredLogger)
	files = nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

// Get returns the logger for a category, or a no-op logger when the
// category is disabled.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if logger, ok := loggers[category]; ok {
		return logger
	}
	return nop
}

// Tree logs a tree mutation event.
func Tree(format string, args ...any) {
	Get(CategoryTree).Debugf(format, args...)
}

// Parse logs a walker event.
func Parse(format string, args ...any) {
	Get(CategoryParse).Debugf(format, args...)
}

// Suggest logs a suggester event.
func Suggest(format string, args ...any) {
	Get(CategorySuggest).Debugf(format, args...)
}

// ConfigLog logs a configuration event.
func ConfigLog(format string, args ...any) {
	Get(CategoryConfig).Debugf(format, args...)
}

// Repl logs an interactive shell event.
func Repl(format string, args ...any) {
	Get(CategoryRepl).Debugf(format, args...)
}
