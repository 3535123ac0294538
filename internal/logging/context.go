package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	batchKey contextKey = "batch"
	chainKey contextKey = "chain"
)

// WithRunID annotates ctx with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// WithBatch annotates ctx with the 1-based batch number.
func WithBatch(ctx context.Context, batch int) context.Context {
	return context.WithValue(ctx, batchKey, batch)
}

// WithChain annotates ctx with the reasoning chain name.
func WithChain(ctx context.Context, chain string) context.Context {
	if chain == "" {
		return ctx
	}
	return context.WithValue(ctx, chainKey, chain)
}

// RunIDFromContext returns the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(runIDKey).(string)
	return v, ok && v != ""
}

// BatchFromContext returns the batch number if present.
func BatchFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(batchKey).(int)
	return v, ok
}

// ChainFromContext returns the chain name if present.
func ChainFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(chainKey).(string)
	return v, ok && v != ""
}

// ContextFields extracts standardized slog attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if batch, ok := BatchFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldBatch, batch))
	}
	if chain, ok := ChainFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldChain, chain))
	}
	return fields
}

// WithContext returns logger augmented with fields derived from ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
