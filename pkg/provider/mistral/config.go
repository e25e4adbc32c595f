package mistral

import (
	"net/http"

	"github.com/scansoal/scansoal/pkg/provider/openai"
)

const DefaultURL = "https://api.mistral.ai/v1/"

type Config struct {
	url string

	options []openai.Option
}

type Option func(*Config)

func WithURL(url string) Option {
	return func(c *Config) {
		c.url = url
	}
}

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.options = append(c.options, openai.WithClient(client))
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.options = append(c.options, openai.WithToken(token))
	}
}

func WithRetries(n int) Option {
	return func(c *Config) {
		c.options = append(c.options, openai.WithRetries(n))
	}
}
