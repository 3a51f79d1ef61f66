// Package logger provides structured logging using zap.
//
// Subsystems ("window", "gpu", "shader", "app", ...) log through Named.
// Each one follows the root level unless Options.Subsystems overrides it,
// so a single noisy area can be raised to debug without flooding the rest.
package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the root logger. It discards everything until Setup is called.
var Log = zap.NewNop()

// Sugar is the sugared form of Log.
var Sugar = Log.Sugar()

var (
	mu sync.RWMutex
	// outputs accepts every level; Log and Named filter in front of it.
	outputs   = zapcore.NewNopCore()
	rootLevel = zap.NewAtomicLevel()
	overrides = map[string]zapcore.Level{}
)

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Options configures Setup.
type Options struct {
	Level      string
	File       FileConfig // empty Path disables file output
	Console    bool
	Subsystems map[string]string // subsystem name -> level
}

// Setup replaces the logging outputs and levels.
func Setup(opts Options) error {
	levels := make(map[string]zapcore.Level, len(opts.Subsystems))
	for name, s := range opts.Subsystems {
		lvl, err := zapcore.ParseLevel(s)
		if err != nil {
			return fmt.Errorf("subsystem %q: %w", name, err)
		}
		levels[name] = lvl
	}

	var cores []zapcore.Core
	if opts.Console {
		cores = append(cores, zapcore.NewCore(encoder(true), zapcore.AddSync(os.Stdout), zapcore.DebugLevel))
	}
	if opts.File.Path != "" {
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(encoder(false), zapcore.AddSync(w), zapcore.DebugLevel))
	}

	mu.Lock()
	defer mu.Unlock()
	rootLevel.SetLevel(ParseLevel(opts.Level))
	overrides = levels
	setOutputs(zapcore.NewTee(cores...))
	return nil
}

// InitNop discards all log output.
func InitNop() {
	mu.Lock()
	defer mu.Unlock()
	rootLevel.SetLevel(zapcore.InfoLevel)
	overrides = map[string]zapcore.Level{}
	setOutputs(zapcore.NewNopCore())
}

// Replace routes all logging into core and returns a func restoring the
// previous outputs. Tests use it with zaptest/observer.
func Replace(core zapcore.Core) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := outputs
	setOutputs(core)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		setOutputs(prev)
	}
}

// setOutputs must be called with mu held.
func setOutputs(core zapcore.Core) {
	outputs = core
	Log = zap.New(filterCore{core, rootLevel}, zap.AddCaller(), zap.AddCallerSkip(1))
	Sugar = Log.Sugar()
}

func encoder(console bool) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	if console {
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// ParseLevel converts a config level string to a zapcore.Level.
// Unknown strings fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Named returns a child logger for a subsystem, filtered at that
// subsystem's override level or the root level.
func Named(name string) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	var enab zapcore.LevelEnabler = rootLevel
	if lvl, ok := overrides[name]; ok {
		enab = lvl
	}
	return zap.New(filterCore{outputs, enab}, zap.AddCaller()).Named(name)
}

// filterCore drops entries its enabler rejects before they reach the outputs.
type filterCore struct {
	zapcore.Core
	enab zapcore.LevelEnabler
}

func (c filterCore) Enabled(lvl zapcore.Level) bool {
	return c.enab.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c filterCore) With(fields []zapcore.Field) zapcore.Core {
	return filterCore{c.Core.With(fields), c.enab}
}

func (c filterCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.enab.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}
