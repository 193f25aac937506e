package log

import "context"

// loggerKey is the key for the logger in the context.
type loggerKey struct{}

// ToContext returns a copy of ctx carrying logger.
// Operations performed with the returned context log through it.
func ToContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext gets the logger from the context.
// If no logger is stored in the context, nil will be returned.
func FromContext(ctx context.Context) Logger {
	logger, ok := ctx.Value(loggerKey{}).(Logger)
	if !ok {
		return nil
	}

	return logger
}

// FromContextOrNoop returns the logger from the context, or a no-op logger if none is set.
func FromContextOrNoop(ctx context.Context) Logger {
	if logger := FromContext(ctx); logger != nil {
		return logger
	}

	return &noopLogger{}
}
