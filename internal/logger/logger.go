package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// fanout passes each record to every handler enabled for its level. Each
// handler gets its own clone, and a failing handler does not stop the rest.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = fn(h)
	}
	return out
}

// New builds the logger for env writing to out. When errOut is non-nil,
// error-level records are duplicated there.
func New(env string, out io.Writer, errOut io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if env == EnvProd {
		level = slog.LevelInfo
	}

	var base slog.Handler
	switch env {
	case EnvDev:
		base = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	default:
		base = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	if errOut == nil {
		return slog.New(base)
	}

	return slog.New(fanout{
		base,
		slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelError}),
	})
}

// Setup logs to stdout and appends errors to errorLogPath. An empty path, or
// one that cannot be opened, disables the error file.
func Setup(env string, errorLogPath string) *slog.Logger {
	if errorLogPath == "" {
		return New(env, os.Stdout, nil)
	}

	errorFile, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		slog.Warn("cannot open error log file", slog.String("path", errorLogPath), slog.String("error", err.Error()))
		return New(env, os.Stdout, nil)
	}

	return New(env, os.Stdout, errorFile)
}
