package logger

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
)

// represents production
const PROD = "production"

var (
	logger *zap.Logger
	once   sync.Once
)

// Get safely instantiates and returns only one copy of the logger.
// Production gets the JSON encoder; everything else gets the console encoder.
func Get() *zap.Logger {
	once.Do(func() {
		if os.Getenv("ENV") == PROD {
			logger = zap.Must(zap.NewProduction())
		} else {
			logger = zap.Must(zap.NewDevelopment())
		}
	})

	return logger
}

type contextKey string

const (
	loggerKey contextKey = "logger"
)

// WithLogger - attach a logger to an existing context and return the context
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromCtx - returns a logger from context, or a no-op logger
func FromCtx(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}
