package gekko

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Named returns a logger for one part of the app. It shares the
	// writers and the level of its parent.
	Named(scope string) Logger
}

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int32(l))
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// DefaultLogger writes debug and info lines to one writer and warnings and
// errors to another, each tagged with its level and scope.
type DefaultLogger struct {
	min   *atomic.Int32 // shared with every Named child
	scope string
	out   *log.Logger
	err   *log.Logger
}

func NewDefaultLogger(scope string, debug bool) *DefaultLogger {
	return NewLoggerTo(os.Stdout, os.Stderr, scope, debug)
}

func NewLoggerTo(out, errOut io.Writer, scope string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		min:   new(atomic.Int32),
		scope: scope,
		out:   log.New(out, "", flags),
		err:   log.New(errOut, "", flags),
	}
	l.SetDebug(debug)
	return l
}

func (l *DefaultLogger) Level() Level {
	return Level(l.min.Load())
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.min.Store(int32(level))
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.Level() <= LevelDebug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.SetLevel(LevelDebug)
	} else {
		l.SetLevel(LevelInfo)
	}
}

func (l *DefaultLogger) Named(scope string) Logger {
	if l.scope != "" {
		scope = l.scope + "/" + scope
	}
	return &DefaultLogger{min: l.min, scope: scope, out: l.out, err: l.err}
}

func (l *DefaultLogger) write(level Level, format string, args ...any) {
	if level < l.Level() {
		return
	}
	dst := l.out
	if level >= LevelWarn {
		dst = l.err
	}
	msg := fmt.Sprintf(format, args...)
	if l.scope != "" {
		dst.Printf("[%s] %s: %s", l.scope, level, msg)
		return
	}
	dst.Printf("%s: %s", level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.write(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.write(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.write(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.write(LevelError, format, args...) }

// LoggingModule installs a DefaultLogger as a resource. With Logger set, that
// logger is installed instead.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Logger *DefaultLogger
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := m.Logger
	if logger == nil {
		logger = NewDefaultLogger(m.Prefix, m.Debug)
	}
	cmd.AddResources(logger)
}

// discard drops everything; apps without a LoggingModule log through it.
type discard struct{}

func NewNopLogger() Logger { return discard{} }

func (discard) DebugEnabled() bool    { return false }
func (discard) SetDebug(bool)         {}
func (discard) Debugf(string, ...any) {}
func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
func (d discard) Named(string) Logger { return d }

// Logger returns the installed *DefaultLogger, or a logger that drops
// everything. Never nil.
func (app *App) Logger() Logger {
	if app == nil || app.resources == nil {
		return NewNopLogger()
	}
	if l := Resource[DefaultLogger](app); l != nil {
		return l
	}
	return NewNopLogger()
}
