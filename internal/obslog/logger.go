// Package obslog wraps zerolog.Logger the way the teacher's internal/logger
// package wraps its backend: a thin struct exposing WithFields plus
// level methods, so call sites never import zerolog directly.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Options configures a Logger at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger is a structured logger bound to one component.
type Logger struct {
	z zerolog.Logger
}

// New creates a configured Logger. An unrecognized Level falls back to info.
func New(opts Options) *Logger {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	if opts.HumanReadable {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	z := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return &Logger{z: z}
}

// WithFields returns a derived logger that always writes the supplied
// fields on every subsequent entry.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil || len(fields) == 0 {
		return l
	}
	ctx := l.z.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{z: ctx.Logger()}
}

func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.z.Info().Msg(msg)
}

func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.z.Debug().Msg(msg)
}

func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.z.Warn().Msg(msg)
}

func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	l.z.Error().Err(err).Msg(msg)
}
