package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func serve(t *testing.T, ready Check) healthpb.HealthClient {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(ready)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func statusOf(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return res.GetStatus()
}

func TestHealthServing(t *testing.T) {
	c := serve(t, nil)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(t, c, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(t, c, ServiceName))
}

func TestHealthFollowsReadiness(t *testing.T) {
	old := CheckInterval
	CheckInterval = 20 * time.Millisecond
	t.Cleanup(func() { CheckInterval = old })

	var down atomic.Bool
	down.Store(true)
	c := serve(t, func(context.Context) error {
		if down.Load() {
			return errors.New("database is down")
		}
		return nil
	})

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, c, ""))

	down.Store(false)
	assert.Eventually(t, func() bool {
		return statusOf(t, c, "") == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)
}

func TestUnknownService(t *testing.T) {
	c := serve(t, nil)
	_, err := c.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRecoveryInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Panic"}
	_, err := recoveryInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestStopIsIdempotent(t *testing.T) {
	var s *Server
	s.Stop()

	s = New(nil)
	s.Stop()
	s.Stop()
}
