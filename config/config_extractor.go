package config

import (
	"errors"
	"strings"

	"github.com/scansoal/scansoal/pkg/extractor"
	"github.com/scansoal/scansoal/pkg/extractor/mistral"
	"github.com/scansoal/scansoal/pkg/extractor/multi"
	"github.com/scansoal/scansoal/pkg/extractor/tesseract"
	"github.com/scansoal/scansoal/pkg/limiter"
	"github.com/scansoal/scansoal/pkg/otel"

	"golang.org/x/time/rate"
)

func (cfg *Config) RegisterExtractor(id string, p extractor.Provider) {
	if cfg.extractor == nil {
		cfg.extractor = make(map[string]extractor.Provider)
	}

	if _, ok := cfg.extractor[""]; !ok {
		cfg.extractor[""] = p
	}

	cfg.extractor[id] = p
}

func (cfg *Config) Extractor(id string) (extractor.Provider, error) {
	if cfg.extractor != nil {
		if e, ok := cfg.extractor[id]; ok {
			return e, nil
		}
	}

	return nil, errors.New("extractor not found: " + id)
}

type extractorConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`

	Language string `yaml:"language"`

	Vars  map[string]string `yaml:"vars"`
	Proxy *proxyConfig      `yaml:"proxy"`

	Limit *int `yaml:"limit"`
}

type extractorContext struct {
	Limiter *rate.Limiter
}

func (cfg *Config) registerExtractors(f *configFile) error {
	if f.Extractors.IsZero() {
		return nil
	}

	var configs map[string]extractorConfig

	if err := f.Extractors.Decode(&configs); err != nil {
		return err
	}

	var extractors []extractor.Provider

	for _, node := range f.Extractors.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		context := extractorContext{
			Limiter: createLimiter(config.Limit),
		}

		extractor, err := createExtractor(config, context)

		if err != nil {
			return err
		}

		if _, ok := extractor.(limiter.Extractor); !ok {
			extractor = limiter.NewExtractor(context.Limiter, extractor)
		}

		if _, ok := extractor.(otel.Extractor); !ok {
			extractor = otel.NewExtractor(config.Type, id, extractor)
		}

		extractors = append(extractors, extractor)

		cfg.RegisterExtractor(id, extractor)
	}

	if len(extractors) > 1 {
		cfg.extractor[""] = multi.New(extractors...)
	}

	return nil
}

func createExtractor(cfg extractorConfig, context extractorContext) (extractor.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "tesseract":
		return tesseractExtractor(cfg)

	case "mistral":
		return mistralExtractor(cfg)

	default:
		return nil, errors.New("invalid extractor type: " + cfg.Type)
	}
}

func tesseractExtractor(cfg extractorConfig) (extractor.Provider, error) {
	var options []tesseract.Option

	if cfg.Language != "" {
		options = append(options, tesseract.WithLanguage(strings.Split(cfg.Language, "+")...))
	}

	for k, v := range cfg.Vars {
		options = append(options, tesseract.WithVariable(k, v))
	}

	return tesseract.New(options...)
}

func mistralExtractor(cfg extractorConfig) (extractor.Provider, error) {
	var options []mistral.Option

	if cfg.URL != "" {
		options = append(options, mistral.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, mistral.WithToken(cfg.Token))
	}

	if cfg.Model != "" {
		options = append(options, mistral.WithModel(cfg.Model))
	}

	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	if client != nil {
		options = append(options, mistral.WithClient(client))
	}

	return mistral.New(options...)
}
