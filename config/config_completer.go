package config

import (
	"errors"
	"strings"
	"time"

	"github.com/scansoal/scansoal/pkg/limiter"
	"github.com/scansoal/scansoal/pkg/otel"
	"github.com/scansoal/scansoal/pkg/provider"
	"github.com/scansoal/scansoal/pkg/provider/anthropic"
	"github.com/scansoal/scansoal/pkg/provider/mistral"
	"github.com/scansoal/scansoal/pkg/provider/openai"
	"github.com/scansoal/scansoal/pkg/router/roundrobin"

	"golang.org/x/time/rate"
)

func (cfg *Config) RegisterCompleter(id string, p provider.Completer) {
	if cfg.completer == nil {
		cfg.completer = make(map[string]provider.Completer)
	}

	if _, ok := cfg.completer[""]; !ok {
		cfg.completer[""] = p
	}

	cfg.completer[id] = p
}

func (cfg *Config) Completer(id string) (provider.Completer, error) {
	if cfg.completer != nil {
		if c, ok := cfg.completer[id]; ok {
			return c, nil
		}
	}

	return nil, errors.New("completer not found: " + id)
}

type completerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit   *int `yaml:"limit"`
	Retries int  `yaml:"retries"`
}

type routerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout"`
}

type completerContext struct {
	Limiter *rate.Limiter
}

func (cfg *Config) registerCompleters(f *configFile) error {
	if f.Completers.IsZero() {
		return nil
	}

	var configs map[string]completerConfig

	if err := f.Completers.Decode(&configs); err != nil {
		return err
	}

	var completers []provider.Completer

	for _, node := range f.Completers.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		context := completerContext{
			Limiter: createLimiter(config.Limit),
		}

		completer, err := createCompleter(config, context)

		if err != nil {
			return err
		}

		if _, ok := completer.(limiter.Completer); !ok {
			completer = limiter.NewCompleter(context.Limiter, completer)
		}

		if _, ok := completer.(otel.Completer); !ok {
			completer = otel.NewCompleter(config.Type, config.Model, completer)
		}

		completers = append(completers, completer)

		cfg.RegisterCompleter(id, completer)
	}

	if len(completers) > 1 {
		var options []roundrobin.Option

		if r := f.Router; r != nil {
			options = append(options,
				roundrobin.WithFailureThreshold(r.FailureThreshold),
				roundrobin.WithRecoveryTimeout(r.RecoveryTimeout),
			)
		}

		router, err := roundrobin.NewCompleter(completers, options...)

		if err != nil {
			return err
		}

		cfg.completer[""] = router
	}

	return nil
}

func createCompleter(cfg completerConfig, context completerContext) (provider.Completer, error) {
	if cfg.Model == "" {
		return nil, errors.New("completer requires a model")
	}

	switch strings.ToLower(cfg.Type) {
	case "openai", "azure", "ollama", "custom":
		return openaiCompleter(cfg)

	case "anthropic":
		return anthropicCompleter(cfg)

	case "mistral":
		return mistralCompleter(cfg)

	default:
		return nil, errors.New("invalid completer type: " + cfg.Type)
	}
}

func openaiCompleter(cfg completerConfig) (provider.Completer, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	if cfg.Retries > 0 {
		options = append(options, openai.WithRetries(cfg.Retries))
	}

	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	if client != nil {
		options = append(options, openai.WithClient(client))
	}

	return openai.NewCompleter(cfg.URL, cfg.Model, options...)
}

func anthropicCompleter(cfg completerConfig) (provider.Completer, error) {
	var options []anthropic.Option

	if cfg.Token != "" {
		options = append(options, anthropic.WithToken(cfg.Token))
	}

	if cfg.Retries > 0 {
		options = append(options, anthropic.WithRetries(cfg.Retries))
	}

	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	if client != nil {
		options = append(options, anthropic.WithClient(client))
	}

	return anthropic.NewCompleter(cfg.URL, cfg.Model, options...)
}

func mistralCompleter(cfg completerConfig) (provider.Completer, error) {
	var options []mistral.Option

	if cfg.URL != "" {
		options = append(options, mistral.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, mistral.WithToken(cfg.Token))
	}

	if cfg.Retries > 0 {
		options = append(options, mistral.WithRetries(cfg.Retries))
	}

	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	if client != nil {
		options = append(options, mistral.WithClient(client))
	}

	return mistral.NewCompleter(cfg.Model, options...)
}
