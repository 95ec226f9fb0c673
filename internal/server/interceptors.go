package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/ratelimit"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/marvinlanhenke/go-object-cache/internal/config"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

var errRateLimited = errors.New("rate limit exceeded")

// InterceptorLogger adapts a zerolog logger to the grpc middleware logging interface.
func InterceptorLogger(l zerolog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l := l.With().Fields(fields).Logger()

		switch lvl {
		case logging.LevelDebug:
			l.Debug().Msg(msg)
		case logging.LevelInfo:
			l.Info().Msg(msg)
		case logging.LevelWarn:
			l.Warn().Msg(msg)
		case logging.LevelError:
			l.Error().Msg(msg)
		default:
			panic(fmt.Sprintf("unknown level %v", lvl))
		}
	})
}

// tokenBucket implements ratelimit.Limiter on top of a token bucket.
type tokenBucket struct {
	*rate.Limiter
}

func (tb tokenBucket) Limit(ctx context.Context) error {
	if !tb.Allow() {
		return errRateLimited
	}
	return nil
}

func recoverPanic(p any) error {
	return status.Errorf(codes.Internal, "panic: %v", p)
}

// NewGRPCServer builds a gRPC server exposing srv with recovery, call logging and
// rate limiting configured from cfg.
func NewGRPCServer(cfg *config.Config, srv CacheManagerServer, logger zerolog.Logger) *grpc.Server {
	limiter := tokenBucket{rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)}
	opts := []logging.Option{
		logging.WithLogOnEvents(logging.StartCall, logging.FinishCall),
	}

	serverOpts := append(cfg.GrpcServerOptions(),
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(recoverPanic)),
			logging.UnaryServerInterceptor(InterceptorLogger(logger), opts...),
			ratelimit.UnaryServerInterceptor(limiter),
		),
	)

	grpcServer := grpc.NewServer(serverOpts...)
	RegisterCacheManagerServer(grpcServer, srv)
	reflection.Register(grpcServer)

	return grpcServer
}
