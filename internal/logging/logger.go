package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds the diagnostics logger. Output is human readable since it is
// only ever read on a terminal.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("unknown log level: %s", level)
	}
	if level == "" {
		lvl = zerolog.WarnLevel
	}

	consoleWriter := zerolog.NewConsoleWriter()
	consoleWriter.TimeFormat = time.DateTime
	consoleWriter.Out = w

	return zerolog.New(consoleWriter).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
