// Package logger provides a structured, levelled logger built on log/slog.
//
// Handlers log through the request-scoped logger so every line carries the
// request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", p.ID)
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pantrypal/pantrypal/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

// baseHandler writes JSON in production and human-readable text elsewhere.
func baseHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// EnableMongo fans log records out to a MongoDB collection in addition to
// stdout. The returned func flushes pending records and disconnects.
func EnableMongo(uri, db, collection string) (func(), error) {
	mh, err := NewMongoHandler(uri, db, collection)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	L = slog.New(NewMultiHandler(baseHandler(), mh))
	slog.SetDefault(L)

	return func() {
		L = slog.New(baseHandler())
		slog.SetDefault(L)
		mh.Close()
	}, nil
}

type ctxKey struct{}

// WithCtx returns the per-request logger stored by the Logger middleware,
// or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Info(msg string, args ...any) { L.Info(msg, args...) }
