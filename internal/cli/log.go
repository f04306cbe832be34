package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps use "15:04:05.00" and the
// logger level can change later through SetLogLevel.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// timed returns a func that logs msg at info level with the time elapsed
// since timed was called, for example "Ingested people.csv elapsed=12ms".
func timed(l *log.Logger, msg string) func(keyvals ...any) {
	start := time.Now()
	return func(keyvals ...any) {
		l.Info(msg, append(keyvals, "elapsed", time.Since(start).Round(time.Millisecond))...)
	}
}
