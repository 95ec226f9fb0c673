package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/marvinlanhenke/go-object-cache/internal/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

// GracefulShutdown blocks until ctx is done or the process receives SIGINT or SIGTERM,
// then stops the gRPC server, letting in-progress calls complete.
func GracefulShutdown(ctx context.Context, srv *grpc.Server, cfg *config.Config) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Str("addr", cfg.Addr).Msg("server shutting down...")
	srv.GracefulStop()
}
