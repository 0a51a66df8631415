package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel accepts the level names in any case, plus "warning".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	// Named returns a child logger whose prefix is extended by name. The
	// child shares the parent's level and sinks.
	Named(name string) Logger
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// sink is the state shared by a logger and all of its named children.
type sink struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
	err   *log.Logger
}

// DefaultLogger writes timestamped lines; debug and info go to the out
// writer, warn and error to the err writer.
type DefaultLogger struct {
	sink   *sink
	prefix string
}

func New(prefix string, level Level) *DefaultLogger {
	return NewWithWriters(prefix, level, os.Stdout, os.Stderr)
}

func NewWithWriters(prefix string, level Level, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		prefix: prefix,
		sink: &sink{
			level: level,
			out:   log.New(out, "", flags),
			err:   log.New(errOut, "", flags),
		},
	}
}

func (l *DefaultLogger) Level() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

func (l *DefaultLogger) DebugEnabled() bool { return l.Level() <= LevelDebug }

// SetDebug toggles between debug and info. Turning it off leaves a
// stricter level alone.
func (l *DefaultLogger) SetDebug(enabled bool) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	switch {
	case enabled:
		l.sink.level = LevelDebug
	case l.sink.level == LevelDebug:
		l.sink.level = LevelInfo
	}
}

func (l *DefaultLogger) Named(name string) Logger {
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "/" + name
	}
	return &DefaultLogger{sink: l.sink, prefix: prefix}
}

func (l *DefaultLogger) logf(level Level, format string, args ...any) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if level < l.sink.level {
		return
	}
	dst := l.sink.out
	if level >= LevelWarn {
		dst = l.sink.err
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		dst.Printf("%s: %s", level, msg)
		return
	}
	dst.Printf("[%s] %s: %s", l.prefix, level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

type nopLogger struct{}

func Nop() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (n nopLogger) Named(name string) Logger        { return n }
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// OrNop returns l, or a no-op logger when l is nil. Never returns nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
