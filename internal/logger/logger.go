package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = New(os.Stdout, zerolog.InfoLevel, "json")

// Init configures the package logger from config values.
func Init(level, format string) {
	log = New(os.Stdout, ParseLevel(level), format)
}

// New builds a zerolog logger writing to w. format "console" gives human readable output.
func New(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(w).
		With().
		Timestamp().
		Str("service", "fitclub").
		Logger().
		Level(level)
}

// SetOutput swaps the package logger, mostly for tests.
func SetOutput(w io.Writer, level zerolog.Level) {
	log = New(w, level, "json")
}

func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Info logs msg with optional key/value pairs: Info("booking created", "booking_id", id).
func Info(msg string, kv ...interface{}) {
	withPairs(log.Info(), kv).Msg(msg)
}

func Infof(format string, v ...interface{}) {
	log.Info().Msg(fmt.Sprintf(format, v...))
}

func Warn(msg string, kv ...interface{}) {
	withPairs(log.Warn(), kv).Msg(msg)
}

func Error(msg string, kv ...interface{}) {
	withPairs(log.Error(), kv).Msg(msg)
}

func Errorf(format string, v ...interface{}) {
	log.Error().Msg(fmt.Sprintf(format, v...))
}

func Debug(msg string, kv ...interface{}) {
	withPairs(log.Debug(), kv).Msg(msg)
}

func Debugf(format string, v ...interface{}) {
	log.Debug().Msg(fmt.Sprintf(format, v...))
}

func Fatal(msg string) {
	log.Fatal().Msg(msg)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatal().Msg(fmt.Sprintf(format, v...))
}

// WithError returns a child logger carrying err.
func WithError(err error) *zerolog.Logger {
	l := log.With().Err(err).Logger()
	return &l
}

// WithFields returns a child logger carrying the given fields.
func WithFields(fields map[string]interface{}) *zerolog.Logger {
	l := log.With().Fields(fields).Logger()
	return &l
}

func withPairs(e *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		e = e.Interface(key, kv[i+1])
	}
	if len(kv)%2 == 1 {
		e = e.Interface("extra", kv[len(kv)-1])
	}
	return e
}
