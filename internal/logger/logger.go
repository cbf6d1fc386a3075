// Package logger wraps a singleton zerolog logger behind a small
// message-plus-fields API used across the service.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// sane default so packages can log before Init runs (tests, init paths)
	instance = zerolog.New(os.Stdout).With().Timestamp().Logger()
	once     sync.Once
)

// Init initialises the singleton. Only the first call has any effect.
func Init(level string, pretty bool) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var out io.Writer = os.Stdout
		if pretty {
			out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		}
		instance = zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
	})
}

func Info(msg string, fields map[string]any) {
	withFields(instance.Info(), fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	withFields(instance.Warn(), fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	withFields(instance.Error(), fields).Msg(msg)
}

// Fatal logs and exits the process.
func Fatal(msg string, fields map[string]any) {
	withFields(instance.Fatal(), fields).Msg(msg)
}

func withFields(e *zerolog.Event, fields map[string]any) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
