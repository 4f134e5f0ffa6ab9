package commons

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type traceIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID returns the request trace id, or a fresh one when the context has none.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

func Logger(ctx context.Context, base *zap.Logger) *zap.Logger {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok && id != "" {
		return base.With(zap.String("traceId", id))
	}
	return base
}
