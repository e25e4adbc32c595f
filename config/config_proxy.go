package config

import (
	"errors"
	"net/http"
	"net/url"
)

type proxyConfig struct {
	URL string `yaml:"url"`
}

// proxyClient returns an HTTP client sending every request through the
// configured proxy, or nil without one.
func (cfg *proxyConfig) proxyClient() (*http.Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, nil
	}

	u, err := url.Parse(cfg.URL)

	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, errors.New("invalid proxy scheme: " + u.Scheme)
	}

	if u.Host == "" {
		return nil, errors.New("invalid proxy url: " + cfg.URL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(u)

	return &http.Client{
		Transport: transport,
	}, nil
}
