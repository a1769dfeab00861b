// Package grpc runs the gRPC side listener. It exposes the standard
// grpc.health.v1.Health service, whose status follows a readiness check
// (normally a database ping), plus server reflection for grpcurl.
//
//	srv, err := grpc.Start(config.GRPCPort(), func(ctx context.Context) error {
//	    return database.Ping(ctx, db)
//	})
//	// ...run until signal...
//	srv.Stop()
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/pantrypal/pantrypal/pkg/metrics"
)

// ServiceName is reported alongside the overall ("") health status.
const ServiceName = "pantrypal.v1.Pantry"

// CheckInterval is how often the readiness check runs.
var CheckInterval = 10 * time.Second

// Check reports whether the process can serve traffic.
type Check func(ctx context.Context) error

// Server wraps a grpc.Server and the check loop feeding its health status.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	ready  Check

	stop chan struct{}
	once sync.Once
}

// New builds the server without listening. A nil check always reports SERVING.
func New(ready Check) *Server {
	if ready == nil {
		ready = func(context.Context) error { return nil }
	}
	s := &Server{
		srv: grpc.NewServer(
			grpc.ChainUnaryInterceptor(recoveryInterceptor, loggingInterceptor, metricsInterceptor),
			grpc.MaxRecvMsgSize(1<<20),
			grpc.MaxSendMsgSize(1<<20),
		),
		health: health.NewServer(),
		ready:  ready,
		stop:   make(chan struct{}),
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	return s
}

// Start listens on port and serves in the background.
func Start(port string, ready Check) (*Server, error) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on :%s: %w", port, err)
	}
	s := New(ready)
	go func() {
		if err := s.Serve(lis); err != nil {
			slog.Error("grpc: serve error", "error", err)
		}
	}()
	return s, nil
}

// Serve runs the check once, starts the check loop and blocks serving lis.
func (s *Server) Serve(lis net.Listener) error {
	s.check()
	go s.watch()
	slog.Info("gRPC health server starting", "addr", lis.Addr().String())
	return s.srv.Serve(lis)
}

func (s *Server) watch() {
	t := time.NewTicker(CheckInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.check()
		}
	}
}

func (s *Server) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := s.ready(ctx); err != nil {
		slog.Warn("grpc: readiness check failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Stop marks every service NOT_SERVING and drains in-flight RPCs.
// Safe to call on a nil *Server and more than once.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		slog.Info("gRPC health server shutting down")
		close(s.stop)
		s.health.Shutdown()
		s.srv.GracefulStop()
	})
}

// ─── Interceptors ─────────────────────────────────────────────────────────────

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	slog.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"code", status.Code(err).String(),
	)
	return resp, err
}

func metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	metrics.GRPCRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	return resp, err
}
