// Package logging defines the structured-logging interface shared by the
// console and the sandbox, with slog and zap backends behind it.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "roster refreshed", "users", n, "took", d)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatZap  = "zap"
)

// Options selects the backend and verbosity.
type Options struct {
	Format string
	Level  string
	Output io.Writer
}

// New builds a Logger for the given options. Unknown levels fall back to info.
func New(opts Options) (Logger, error) {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatText, FormatJSON:
		return NewSlogLogger(NewSlog(opts.Format, opts.Level, opts.Output)), nil
	case FormatZap:
		return NewZapLogger(NewZap(opts.Level, "console", opts.Output)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(NewSlog(FormatText, "error", io.Discard))
}
