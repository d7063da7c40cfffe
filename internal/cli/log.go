// Package cli implements the arcisi command-line interface.
//
// The CLI bakes TOML building recipes into room layouts, renders them and
// serves the HTTP API. It is built on cobra; logging uses
// charmbracelet/log and status output uses lipgloss.
//
// # Commands
//
// The main commands are:
//   - bake: Lay out a recipe and write artifacts (scad, svg, png, pdf, json, dot, graph)
//   - render: Render an exported plan.json without re-baking
//   - inspect: Browse a baked building floor by floor in the terminal
//   - genres: List the built-in room genres
//   - serve: Run the HTTP API
//   - cache: Manage the local bake cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcisi/pkg/errors"
)

// newLogger creates a logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLevel maps a config level name to a log level.
func parseLevel(s string) (log.Level, error) {
	l, err := log.ParseLevel(s)
	if err != nil {
		return LogInfo, errors.Wrap(errors.ErrCodeInvalidInput, err, "log level")
	}
	return l, nil
}

// progress times a multi-stage operation. Stages are logged at debug level,
// the finished operation at info level.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// step logs a finished stage with the time it took.
func (p *progress) step(stage string) {
	now := time.Now()
	p.logger.Debug(stage, "took", now.Sub(p.last).Round(time.Millisecond))
	p.last = now
}

// done logs msg along with the total elapsed time.
// Example output: "Baked Small office (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
