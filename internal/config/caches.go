package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/marvinlanhenke/go-object-cache/internal/cache"
)

// CacheSpec declares a named cache to create at startup.
type CacheSpec struct {
	Name    string       `koanf:"name"`
	Policy  cache.Policy `koanf:"-"`
	MaxSize int          `koanf:"max_size"`

	RawPolicy string `koanf:"policy"`
}

// loadCacheSpecs reads a YAML document of the form
//
//	caches:
//	  - name: sessions
//	    policy: least-recently-touched
//	    max_size: 1000
func loadCacheSpecs(path string) ([]CacheSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	return parseCacheSpecs(data)
}

func parseCacheSpecs(data []byte) ([]CacheSpec, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}

	var specs []CacheSpec
	if err := k.UnmarshalWithConf("caches", &specs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode cache file: %w", err)
	}

	seen := make(map[string]struct{}, len(specs))
	for i := range specs {
		spec := &specs[i]
		if spec.Name == "" {
			return nil, fmt.Errorf("cache %d: missing name", i)
		}
		if _, ok := seen[spec.Name]; ok {
			return nil, fmt.Errorf("cache %q: declared twice", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		if spec.RawPolicy == "" {
			spec.RawPolicy = cache.LeastRecentlyTouched.String()
		}
		policy, err := cache.ParsePolicy(spec.RawPolicy)
		if err != nil {
			return nil, fmt.Errorf("cache %q: %w", spec.Name, err)
		}
		spec.Policy = policy
		if spec.MaxSize < 1 {
			spec.MaxSize = cache.Unbounded
		}
	}
	return specs, nil
}
