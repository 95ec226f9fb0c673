package config

import (
	"fmt"

	"github.com/marvinlanhenke/go-object-cache/internal/cache"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

type Config struct {
	Addr           string
	DefaultCache   string
	MaxSize        int
	Policy         cache.Policy
	Caches         []CacheSpec
	MaxRecvMsgSize int
	MaxSendMsgSize int
	RateLimit      int
	RateLimitBurst int
	LogLevel       zerolog.Level
}

// New builds the configuration from the process environment.
func New() (*Config, error) {
	return Load()
}

// Load builds the configuration from the process environment, falling back to the
// given .env files for variables the environment does not set.
func Load(envFiles ...string) (*Config, error) {
	lookup, err := withEnvFiles(envFiles...)
	if err != nil {
		return nil, err
	}
	return build(lookup)
}

func build(lookup lookupFunc) (*Config, error) {
	maxSize := getInt(lookup, "MAX_SIZE", cache.Unbounded)
	maxRecvMsgSize := getInt(lookup, "MAX_RECV_MSG_SIZE", 4194304)
	maxSendMsgSize := getInt(lookup, "MAX_SEND_MSG_SIZE", 4194304)
	rateLimit := getInt(lookup, "RATE_LIMIT", 10)
	rateLimitBurst := getInt(lookup, "RATE_LIMIT_BURST", 100)

	addr := getString(lookup, "ADDR", "localhost:8080")
	defaultCache := getString(lookup, "DEFAULT_CACHE", "default")
	cacheFile := getString(lookup, "CACHE_FILE", "")

	policy, err := cache.ParsePolicy(getString(lookup, "POLICY", cache.LeastRecentlyTouched.String()))
	if err != nil {
		return nil, fmt.Errorf("POLICY: %w", err)
	}

	logLevel, err := zerolog.ParseLevel(getString(lookup, "LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if maxSize < 1 {
		maxSize = cache.Unbounded
	}

	var caches []CacheSpec
	if cacheFile != "" {
		caches, err = loadCacheSpecs(cacheFile)
		if err != nil {
			return nil, err
		}
	}

	return &Config{
		Addr:           addr,
		DefaultCache:   defaultCache,
		MaxSize:        maxSize,
		Policy:         policy,
		Caches:         caches,
		MaxRecvMsgSize: maxRecvMsgSize,
		MaxSendMsgSize: maxSendMsgSize,
		RateLimit:      rateLimit,
		RateLimitBurst: rateLimitBurst,
		LogLevel:       logLevel,
	}, nil
}

func (c *Config) GrpcServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.MaxRecvMsgSize(c.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(c.MaxSendMsgSize),
	}
}
