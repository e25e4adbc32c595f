package config

import (
	"errors"
	"strings"
	"time"

	"github.com/scansoal/scansoal/pkg/store"
	"github.com/scansoal/scansoal/pkg/store/fs"
	"github.com/scansoal/scansoal/pkg/store/memory"
	"github.com/scansoal/scansoal/pkg/store/redis"
)

const DefaultStorePath = "processed"

type storeConfig struct {
	Type string `yaml:"type"`

	Path string `yaml:"path"`

	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`

	TTL     time.Duration `yaml:"ttl"`
	Cleanup time.Duration `yaml:"cleanup"`
}

type ttlConfig struct {
	TTL     time.Duration
	Cleanup time.Duration
}

func (cfg *Config) RegisterStore(s store.Provider) {
	cfg.store = s
}

// Store returns the registered store. Without one a file store in
// DefaultStorePath is created on first use.
func (cfg *Config) Store() (store.Provider, error) {
	if cfg.store != nil {
		return cfg.store, nil
	}

	s, err := fs.New(DefaultStorePath)

	if err != nil {
		return nil, err
	}

	cfg.store = s

	return s, nil
}

// TTL is how long generated documents stay downloadable.
func (cfg *Config) TTL() time.Duration {
	if cfg.ttl == nil || cfg.ttl.TTL <= 0 {
		return store.DefaultTTL
	}

	return cfg.ttl.TTL
}

// CleanupInterval is how often expired documents are swept.
func (cfg *Config) CleanupInterval() time.Duration {
	if cfg.ttl == nil || cfg.ttl.Cleanup <= 0 {
		return time.Minute
	}

	return cfg.ttl.Cleanup
}

func (cfg *Config) registerStore(f *configFile) error {
	if f.Store == nil {
		return nil
	}

	cfg.ttl = &ttlConfig{
		TTL:     f.Store.TTL,
		Cleanup: f.Store.Cleanup,
	}

	s, err := createStore(*f.Store)

	if err != nil {
		return err
	}

	cfg.RegisterStore(s)

	return nil
}

func createStore(cfg storeConfig) (store.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "fs", "file":
		path := cfg.Path

		if path == "" {
			path = DefaultStorePath
		}

		return fs.New(path)

	case "memory":
		return memory.New(), nil

	case "redis":
		if cfg.URL == "" {
			return nil, errors.New("redis store requires a url")
		}

		var options []redis.Option

		if cfg.Prefix != "" {
			options = append(options, redis.WithPrefix(cfg.Prefix))
		}

		return redis.NewFromURL(cfg.URL, options...)

	default:
		return nil, errors.New("invalid store type: " + cfg.Type)
	}
}
