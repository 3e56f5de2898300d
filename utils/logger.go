package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger provides leveled logging throughout the application.
// Console output is human readable; an optional file receives JSON lines.
type Logger struct {
	zl zerolog.Logger
}

// LoggerOptions controls where and how much the Logger writes.
type LoggerOptions struct {
	Level string
	File  string
	// Out overrides the console writer destination (stdout when nil).
	Out io.Writer
}

// NewLoggerWithOptions builds a Logger from explicit options.
func NewLoggerWithOptions(opts LoggerOptions) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
		})
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger().
		Level(parseLevel(opts.Level))

	return &Logger{zl: zl}
}

// NewNopLogger discards everything; used by tests.
func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

// With returns a child Logger carrying an extra field on every line.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}
