package server_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"github.com/marvinlanhenke/go-object-cache/internal/config"
	"github.com/marvinlanhenke/go-object-cache/internal/registry"
	"github.com/marvinlanhenke/go-object-cache/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func testConfig() *config.Config {
	return &config.Config{
		Addr:           "bufnet",
		MaxRecvMsgSize: 4194304,
		MaxSendMsgSize: 4194304,
		RateLimit:      10000,
		RateLimitBurst: 10000,
	}
}

func startServer(t *testing.T, cfg *config.Config) (*server.CacheManagerClient, *registry.Registry[string, string]) {
	t.Helper()

	reg, err := registry.New[string, string]("default", cache.LeastRecentlyTouched, zerolog.Nop())
	require.NoError(t, err, "expected no error, instead got %v", err)

	lis := bufconn.Listen(1 << 20)
	grpcServer := server.NewGRPCServer(cfg, server.New(cfg, reg), zerolog.Nop())
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err, "expected no error, instead got %v", err)
	t.Cleanup(func() { _ = cc.Close() })

	return server.NewCacheManagerClient(cc), reg
}

func TestServerPutGetRemove(t *testing.T) {
	client, reg := startServer(t, testConfig())
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, "", "test-key", "test-value"))
	value, ok, err := client.Get(ctx, "", "test-key")
	require.NoError(t, err, "expected no error, instead got %v", err)
	require.True(t, ok)
	require.Equal(t, "test-value", value)
	require.True(t, reg.Default().ContainsKey("test-key"), "expected the empty name to address the default cache")

	require.NoError(t, client.Remove(ctx, "default", "test-key"))
	_, ok, err = client.Get(ctx, "default", "test-key")
	require.NoError(t, err, "expected a missing key not to be an error, instead got %v", err)
	require.False(t, ok)
}

func TestServerManagement(t *testing.T) {
	client, reg := startServer(t, testConfig())
	ctx := context.Background()
	_, err := reg.Create("other", cache.LeastRecentlyTouched)
	require.NoError(t, err)

	empty, err := client.IsEmpty(ctx, "default")
	require.NoError(t, err)
	require.True(t, empty)

	capacity, err := client.Capacity(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, cache.Unbounded, capacity)

	require.NoError(t, client.PutAll(ctx, "other", map[string]string{"a": "1", "b": "2", "c": "3"}))
	require.NoError(t, client.Merge(ctx, "default", "other"))

	m, err := client.ToMap(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, m)

	require.NoError(t, client.Resize(ctx, "default", 2))
	capacity, err = client.Capacity(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, 0, capacity)

	require.NoError(t, client.SetMaxSize(ctx, "default", 5))
	require.Equal(t, 5, reg.Default().MaxSize())

	require.NoError(t, client.SetPolicy(ctx, "default", cache.Random))
	require.Equal(t, cache.Random, reg.Default().Policy())

	require.NoError(t, client.Flush(ctx, "default"))
	empty, err = client.IsEmpty(ctx, "default")
	require.NoError(t, err)
	require.True(t, empty)
}

func TestServerSlice(t *testing.T) {
	client, reg := startServer(t, testConfig())
	ctx := context.Background()

	clock := time.UnixMilli(10)
	c, err := reg.Create("timed", cache.LeastRecentlyTouched, cache.WithClock(func() time.Time { return clock }))
	require.NoError(t, err)
	c.Put("a", "1")
	clock = time.UnixMilli(20)
	c.Put("b", "2")
	clock = time.UnixMilli(30)
	c.Put("c", "3")

	m, err := client.Slice(ctx, "timed", time.UnixMilli(15), time.UnixMilli(25))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"b": "2"}, m)

	m, err = client.Slice(ctx, "timed", time.UnixMilli(20), time.Time{})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"b": "2", "c": "3"}, m)

	m, err = client.Slice(ctx, "timed", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, m, 3)
}

func TestServerErrors(t *testing.T) {
	client, _ := startServer(t, testConfig())
	ctx := context.Background()

	err := client.Flush(ctx, "unknown")
	require.Equal(t, codes.Unimplemented, status.Code(err), "expected unimplemented, instead got %v", err)

	_, _, err = client.Get(ctx, "unknown", "k")
	require.Equal(t, codes.Unimplemented, status.Code(err))

	err = client.SetPolicy(ctx, "default", cache.Policy(2))
	require.Equal(t, codes.InvalidArgument, status.Code(err), "expected invalid argument, instead got %v", err)

	err = client.Put(ctx, "default", "", "v")
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	err = client.Merge(ctx, "default", "unknown")
	require.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestServerRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	client, _ := startServer(t, cfg)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, "", "k", "v"))
	err := client.Put(ctx, "", "k", "v")
	require.Equal(t, codes.ResourceExhausted, status.Code(err), "expected resource exhausted, instead got %v", err)
}

func TestGracefulShutdown(t *testing.T) {
	cfg := testConfig()
	reg, err := registry.New[string, string]("default", cache.Random, zerolog.Nop())
	require.NoError(t, err)
	grpcServer := server.NewGRPCServer(cfg, server.New(cfg, reg), zerolog.Nop())

	lis := bufconn.Listen(1 << 16)
	served := make(chan error, 1)
	go func() { served <- grpcServer.Serve(lis) }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		server.GracefulShutdown(ctx, grpcServer, cfg)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected GracefulShutdown to return after cancellation")
	}

	// Serve may not have started before the stop; either way it must return.
	if err := <-served; err != nil {
		require.ErrorIs(t, err, grpc.ErrServerStopped)
	}
}
