package logger

import (
	"context"

	"go.uber.org/zap"
)

// runLoggerKey holds the logger of one wpquery run, already tagged with the
// definition it compiles.
type runLoggerKey struct{}

// ContextWithLogger attaches l to ctx for the compile service to log under.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, runLoggerKey{}, l)
}

// ContextWithSource tags l with the definition source ("-" for stdin) and
// attaches it to ctx. Every "query compiled" and "query rejected" entry then
// names the file it came from.
func ContextWithSource(ctx context.Context, l *zap.Logger, source string) context.Context {
	if source == "" {
		source = "-"
	}
	return ContextWithLogger(ctx, l.With(zap.String("source", source)))
}

// FromContext returns the run logger. Compile calls made without one, as in
// library use and most tests, log nowhere.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(runLoggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
