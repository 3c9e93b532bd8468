// Package log provides categorized structured logging for floof.
//
// The logger is silent until SetOutput is called, so embedding the library in
// another program never writes to that program's terminal uninvited.
package log

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Category groups log lines by subsystem.
type Category string

// Log categories.
const (
	CatVFS     Category = "vfs"
	CatAudio   Category = "audio"
	CatContext Category = "context"
	CatConfig  Category = "config"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// SetOutput directs log output to w at the given level ("debug", "info",
// "warn", "error"). A nil writer disables logging again.
func SetOutput(w io.Writer, level string) error {
	if w == nil {
		nop := zerolog.Nop()
		logger.Store(&nop)
		return nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	logger.Store(&l)
	return nil
}

// SetConsoleOutput is SetOutput with human-readable console formatting.
func SetConsoleOutput(w io.Writer, level string) error {
	if w == nil {
		return SetOutput(nil, level)
	}
	return SetOutput(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}, level)
}

// ParseLevel converts a level name into a zerolog level.
// An empty name means "info".
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return zerolog.ParseLevel(strings.ToLower(level))
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Debug logs a debug message with key-value pairs.
func Debug(cat Category, msg string, kv ...any) {
	emit(logger.Load().Debug(), cat, msg, kv)
}

// Info logs an informational message with key-value pairs.
func Info(cat Category, msg string, kv ...any) {
	emit(logger.Load().Info(), cat, msg, kv)
}

// Warn logs a warning with key-value pairs.
func Warn(cat Category, msg string, kv ...any) {
	emit(logger.Load().Warn(), cat, msg, kv)
}

// ErrorErr logs an error message along with the error that caused it.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	emit(logger.Load().Error().Err(err), cat, msg, kv)
}

func emit(e *zerolog.Event, cat Category, msg string, kv []any) {
	if e == nil {
		return
	}
	e = e.Str("category", string(cat))
	if len(kv) > 0 {
		e = e.Fields(kv)
	}
	e.Msg(msg)
}
