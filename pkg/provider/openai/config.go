package openai

import (
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

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

// WithRetries lets the SDK retry rate limited and failed calls. The default
// is no retry, failover is left to the router.
func WithRetries(n int) Option {
	return func(c *Config) {
		c.retries = max(n, 0)
	}
}

func isAzure(url string) bool {
	return strings.Contains(url, "openai.azure.com") || strings.Contains(url, "cognitiveservices.azure.com")
}

func (c *Config) Options() []option.RequestOption {
	url := c.url

	if url == "" {
		url = "https://api.openai.com/v1/"
	}

	url = strings.TrimRight(url, "/") + "/"

	client := c.client

	if client == nil {
		client = http.DefaultClient
	}

	options := []option.RequestOption{
		option.WithBaseURL(url),
		option.WithHTTPClient(client),

		option.WithMaxRetries(c.retries),
	}

	if isAzure(url) {
		options = append(options, option.WithQueryAdd("api-version", "preview"))

		if c.token != "" {
			options = append(options, option.WithHeader("Api-Key", c.token))
		}

		return options
	}

	if c.token != "" {
		options = append(options, option.WithAPIKey(c.token))
	}

	return options
}
