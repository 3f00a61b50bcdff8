package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so callers can use it directly and still reach
// the underlying value through the Logger field.
type Logger struct {
	zerolog.Logger
}

// New builds the process logger. Unknown levels fall back to info.
func New(level string, pretty bool) *Logger {
	return NewWithWriter(os.Stdout, level, pretty)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(w io.Writer, level string, pretty bool) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}

	l := zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: l}
}

// ParseLevel maps a textual level onto zerolog's, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
