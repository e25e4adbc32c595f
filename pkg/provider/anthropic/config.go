package anthropic

import (
	"cmp"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultURL = "https://api.anthropic.com/"

type Config struct {
	url string

	token string
	model string

	retries int

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

// WithRetries lets the SDK retry rate limited and overloaded calls.
func WithRetries(n int) Option {
	return func(c *Config) {
		c.retries = max(n, 0)
	}
}

func (cfg *Config) Options() []option.RequestOption {
	url := cmp.Or(cfg.url, DefaultURL)

	options := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(url, "/") + "/"),
		option.WithMaxRetries(cfg.retries),
	}

	if cfg.client != nil {
		options = append(options, option.WithHTTPClient(cfg.client))
	}

	if cfg.token != "" {
		options = append(options, option.WithAPIKey(cfg.token))
	}

	return options
}
