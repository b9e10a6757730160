// Package cli implements the treeprint command-line interface.
//
// The commands cover the whole pipeline: loading family records, computing
// layouts, rendering them and inspecting the result in the terminal. The CLI
// is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout and write it as JSON
//   - visualize: Render a layout JSON file to SVG, PNG, PDF, text or DOT
//   - render: Load records and render them in one step
//   - inspect: Print the positioned boxes as a table
//   - view: Pan around the tree in the terminal
//   - sample: Write the built-in sample family
//   - serve: Run the HTTP API
//   - cache: Manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage and cache lookup. The logger is attached to
// the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command and reports it at debug level, so the timing
// shows up with --verbose next to the pipeline hook output.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, rounded to milliseconds.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Debug(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or one that
// discards everything.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
