// Package logging provides structured JSON logging for nixdle components.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event is the shape of one emitted log line.
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     Level                  `json:"level"`
	Component string                 `json:"component"`
	Event     string                 `json:"event"`
	Session   string                 `json:"session,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Duration  int64                  `json:"duration_ms,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

var (
	mu    sync.RWMutex
	base  *zap.Logger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	base = build(os.Stderr)
}

func build(w io.Writer) *zap.Logger {
	enc := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Init redirects all loggers to w and sets the minimum level.
func Init(w io.Writer, lvl string) error {
	if err := SetLevel(lvl); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	base = build(w)
	return nil
}

// SetLevel changes the minimum level of every logger.
func SetLevel(lvl string) error {
	l, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", lvl, err)
	}
	level.SetLevel(l)
	return nil
}

// Sync flushes buffered log output.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Logger provides structured logging
type Logger struct {
	component string
	session   string
	requestID string
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{component: component}
}

// WithSession sets the game session context
func (l *Logger) WithSession(session string) *Logger {
	return &Logger{
		component: l.component,
		session:   session,
		requestID: l.requestID,
	}
}

// WithRequest sets the request context
func (l *Logger) WithRequest(id string) *Logger {
	return &Logger{
		component: l.component,
		session:   l.session,
		requestID: id,
	}
}

func (l *Logger) fields(extra map[string]interface{}, err error, dur time.Duration) []zap.Field {
	fields := make([]zap.Field, 0, len(extra)+4)
	if l.session != "" {
		fields = append(fields, zap.String("session", l.session))
	}
	if l.requestID != "" {
		fields = append(fields, zap.String("request_id", l.requestID))
	}
	if dur > 0 {
		fields = append(fields, zap.Int64("duration_ms", dur.Milliseconds()))
	}
	if err != nil {
		fields = append(fields, zap.String("error", err.Error()))
	}
	if len(extra) > 0 {
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields = append(fields, zap.Dict("extra", mapFields(keys, extra)...))
	}
	return fields
}

func mapFields(keys []string, extra map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, extra[k]))
	}
	return out
}

func (l *Logger) log(lvl zapcore.Level, event string, extra map[string]interface{}, err error, dur time.Duration) {
	z := current().Named(l.component)
	if ce := z.Check(lvl, event); ce != nil {
		ce.Write(l.fields(extra, err, dur)...)
	}
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(zapcore.DebugLevel, event, extra, nil, 0)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(zapcore.InfoLevel, event, extra, nil, 0)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(zapcore.WarnLevel, event, extra, err, 0)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(zapcore.ErrorLevel, event, extra, err, 0)
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	dur := time.Since(start)
	if dur <= 0 {
		dur = time.Nanosecond
	}
	l.log(zapcore.InfoLevel, event, extra, nil, dur)
}
