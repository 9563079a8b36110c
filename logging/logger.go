package logging

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"
)

// LogLevel is the configured verbosity, independent of slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

var levelNames = map[LogLevel]string{
	LogLevelDebug: "DEBUG",
	LogLevelInfo:  "INFO",
	LogLevelWarn:  "WARN",
	LogLevelError: "ERROR",
}

// String returns the upper case level name.
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

func (l LogLevel) slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a case-insensitive level name to a LogLevel. Unknown names
// yield LogLevelInfo and false.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, true
	case "info", "":
		return LogLevelInfo, true
	case "warn", "warning":
		return LogLevelWarn, true
	case "error":
		return LogLevelError, true
	default:
		return LogLevelInfo, false
	}
}

// Logger is what screens, conductors and the host log through. Arguments
// after msg are slog style key/value pairs; *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)

// Default returns slog.Default() as a Logger.
func Default() Logger { return slog.Default() }

// ScreenMeshLogger is a slog backed Logger carrying a component, a host
// operation ID and extra attributes. The With* methods return copies.
type ScreenMeshLogger struct {
	logger    *slog.Logger
	level     LogLevel
	attrs     map[string]any
	component string
	operation string
}

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultLoggerConfig returns an info level JSON configuration writing to stderr.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stderr}
}

// NewLogger builds a ScreenMeshLogger; a nil cfg means DefaultLoggerConfig.
func NewLogger(cfg *LoggerConfig) *ScreenMeshLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.slog(), AddSource: cfg.AddSource}
	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	}

	return &ScreenMeshLogger{
		logger:    slog.New(handler),
		level:     cfg.Level,
		attrs:     map[string]any{},
		component: cfg.Component,
	}
}

// NewSlogLogger is a shortcut for NewLogger writing to stderr.
func NewSlogLogger(level LogLevel, format string, addSource bool) *ScreenMeshLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func (l *ScreenMeshLogger) clone() *ScreenMeshLogger {
	nl := *l
	nl.attrs = maps.Clone(l.attrs)
	if nl.attrs == nil {
		nl.attrs = map[string]any{}
	}
	return &nl
}

// WithContext returns a copy that adds key=value to every record.
func (l *ScreenMeshLogger) WithContext(key string, value any) *ScreenMeshLogger {
	nl := l.clone()
	nl.attrs[key] = value
	return nl
}

// WithComponent returns a copy logging as component c (screen, conductor, host, cli).
func (l *ScreenMeshLogger) WithComponent(c string) *ScreenMeshLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithOperation returns a copy tagged with a host operation ID.
func (l *ScreenMeshLogger) WithOperation(id string) *ScreenMeshLogger {
	nl := l.clone()
	nl.operation = id
	return nl
}

func (l *ScreenMeshLogger) log(level LogLevel, msg string, args ...any) {
	if level < l.level {
		return
	}

	r := slog.NewRecord(time.Now(), level.slog(), msg, 0)
	if l.component != "" {
		r.AddAttrs(slog.String("component", l.component))
	}
	if l.operation != "" {
		r.AddAttrs(slog.String("operation_id", l.operation))
	}
	for k, v := range l.attrs {
		r.AddAttrs(slog.Any(k, v))
	}
	r.Add(args...)
	_ = l.logger.Handler().Handle(context.Background(), r)
}

// Debug logs at debug level.
func (l *ScreenMeshLogger) Debug(msg string, args ...any) { l.log(LogLevelDebug, msg, args...) }

// Info logs at info level.
func (l *ScreenMeshLogger) Info(msg string, args ...any) { l.log(LogLevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *ScreenMeshLogger) Warn(msg string, args ...any) { l.log(LogLevelWarn, msg, args...) }

// Error logs at error level.
func (l *ScreenMeshLogger) Error(msg string, args ...any) { l.log(LogLevelError, msg, args...) }

// LogTransition records a completed (or failed) lifecycle transition.
func (l *ScreenMeshLogger) LogTransition(screen, op string, dur time.Duration, err error) {
	if err != nil {
		l.Error("Lifecycle transition failed", "screen", screen, "op", op, "duration", dur, "error", err.Error())
		return
	}
	l.Debug("Lifecycle transition completed", "screen", screen, "op", op, "duration", dur)
}

// LogCloseDecision records the outcome of a close strategy evaluation.
func (l *ScreenMeshLogger) LogCloseDecision(conductor string, candidates, closable int, closeCanOccur bool) {
	l.Debug("Close strategy evaluated", "conductor", conductor, "candidates", candidates, "closable", closable, "close_can_occur", closeCanOccur)
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// Debug discards the record.
func (NoOpLogger) Debug(string, ...any) {}

// Info discards the record.
func (NoOpLogger) Info(string, ...any) {}

// Warn discards the record.
func (NoOpLogger) Warn(string, ...any) {}

// Error discards the record.
func (NoOpLogger) Error(string, ...any) {}

// OrNoOp returns l, or a NoOpLogger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}
