package grpc

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/chunkstore/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func check(t *testing.T, s *HealthServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestProbe_WritableRoot(t *testing.T) {
	s := NewHealthServer("", logging.NewNop(), t.TempDir(), 0)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, s.probe(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, s, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, s, ServiceName))
}

func TestProbe_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gone")
	s := NewHealthServer("", logging.NewNop(), root, 0)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, s.probe(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, s, ServiceName))

	require.NoError(t, os.Mkdir(root, 0o700))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, s.probe(context.Background()))
}

func TestWatch_PicksUpChanges(t *testing.T) {
	root := filepath.Join(t.TempDir(), "later")
	s := NewHealthServer("", logging.NewNop(), root, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.probe(ctx)
	go s.watch(ctx)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, s, ""))

	require.NoError(t, os.Mkdir(root, 0o700))
	assert.Eventually(t, func() bool {
		return check(t, s, "") == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServe_HealthOverTheWire(t *testing.T) {
	s := NewHealthServer("", logging.NewNop(), t.TempDir(), time.Hour)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	callCtx, callCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer callCancel()

	resp, err := client.Check(callCtx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	_, err = client.Check(callCtx, &healthpb.HealthCheckRequest{Service: "unknown"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewHealthServer("127.0.0.1:99999", logging.NewNop(), t.TempDir(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, s.Run(ctx))
}

func TestLogInterceptor_PassesThrough(t *testing.T) {
	s := NewHealthServer("", logging.NewNop(), t.TempDir(), 0)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	boom := errors.New("boom")

	resp, err := s.logInterceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return req.(string) + "!", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "req!", resp)

	_, err = s.logInterceptor(context.Background(), "req", info, func(context.Context, interface{}) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
