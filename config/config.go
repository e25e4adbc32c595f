package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/scansoal/scansoal/pkg/auth"
	"github.com/scansoal/scansoal/pkg/document"
	"github.com/scansoal/scansoal/pkg/extractor"
	"github.com/scansoal/scansoal/pkg/limiter"
	"github.com/scansoal/scansoal/pkg/provider"
	"github.com/scansoal/scansoal/pkg/store"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	Pipeline PipelineConfig

	extractor map[string]extractor.Provider
	completer map[string]provider.Completer
	renderer  map[string]document.Renderer

	store store.Provider
	ttl   *ttlConfig
}

// New returns a configuration with defaults and the built in renderers.
// Extractors, completers and the store are registered by the caller.
func New() *Config {
	c := &Config{
		Address: ":3000",

		Pipeline: DefaultPipeline(),
	}

	c.registerRenderers()

	return c
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	return load(file)
}

func load(file *configFile) (*Config, error) {
	c := New()

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerPipeline(file); err != nil {
		return nil, err
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerExtractors(file); err != nil {
		return nil, err
	}

	if err := c.registerCompleters(file); err != nil {
		return nil, err
	}

	if err := c.registerStore(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Extractors yaml.Node `yaml:"extractors"`
	Completers yaml.Node `yaml:"completers"`

	Router *routerConfig `yaml:"router"`

	Store    *storeConfig    `yaml:"store"`
	Pipeline *pipelineConfig `yaml:"pipeline"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	return parseData(data)
}

func parseData(data []byte) (*configFile, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return limiter.New(*limit)
}
