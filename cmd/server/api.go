package main

import (
	"context"
	"net"
	"os"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"github.com/marvinlanhenke/go-object-cache/internal/config"
	"github.com/marvinlanhenke/go-object-cache/internal/registry"
	"github.com/marvinlanhenke/go-object-cache/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type application struct {
	config *config.Config
}

func NewApplication(config *config.Config) *application {
	return &application{config: config}
}

func (app *application) buildRegistry(logger zerolog.Logger) (*registry.Registry[string, string], error) {
	reg, err := registry.New[string, string](app.config.DefaultCache, app.config.Policy, logger)
	if err != nil {
		return nil, err
	}
	reg.Default().SetMaxSize(app.config.MaxSize)

	for _, spec := range app.config.Caches {
		if _, err := reg.Create(spec.Name, spec.Policy, cache.WithMaxSize(spec.MaxSize)); err != nil {
			return nil, err
		}
		log.Info().Str("cache", spec.Name).Str("policy", spec.Policy.String()).Int("max_size", spec.MaxSize).Msg("cache registered")
	}
	return reg, nil
}

func (app *application) run() {
	zerolog.SetGlobalLevel(app.config.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	reg, err := app.buildRegistry(logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build cache registry")
	}

	lis, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", app.config.Addr).Msg("failed to listen")
	}

	grpcServer := server.NewGRPCServer(app.config, server.New(app.config, reg), logger)

	go server.GracefulShutdown(context.Background(), grpcServer, app.config)

	log.Info().Str("addr", app.config.Addr).Strs("caches", reg.Names()).Msg("server starting...")
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
