// Package server owns the process lifecycle: it binds the HTTP listener and
// the optional gRPC health listener, then shuts both down gracefully when
// the context is cancelled or SIGINT/SIGTERM arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pantrypal/pantrypal/pkg/grpc"
)

// ShutdownTimeout bounds how long in-flight requests may run after a signal.
const ShutdownTimeout = 15 * time.Second

// Config describes what to run.
type Config struct {
	Addr     string
	Handler  http.Handler
	GRPCPort string     // empty disables the gRPC listener
	Check    grpc.Check // readiness for gRPC health
}

// Run blocks until ctx is cancelled, a shutdown signal arrives or the HTTP
// server fails.
func Run(ctx context.Context, cfg Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var health *grpc.Server
	if cfg.GRPCPort != "" {
		var err error
		if health, err = grpc.Start(cfg.GRPCPort, cfg.Check); err != nil {
			return err
		}
		defer health.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Pantry Pal listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
