package config

import (
	"context"
	"errors"
	"strings"

	"github.com/scansoal/scansoal/pkg/auth"
	"github.com/scansoal/scansoal/pkg/auth/header"
	"github.com/scansoal/scansoal/pkg/auth/oidc"
	"github.com/scansoal/scansoal/pkg/auth/static"
)

type authorizerConfig struct {
	Type string `yaml:"type"`

	Token string `yaml:"token"`

	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`

	UserHeader  string `yaml:"user_header"`
	EmailHeader string `yaml:"email_header"`

	Domains []string `yaml:"domains"`
}

func (c *Config) RegisterAuthorizer(p auth.Provider) {
	c.Authorizers = append(c.Authorizers, p)
}

func (c *Config) registerAuthorizer(f *configFile) error {
	for _, a := range f.Authorizers {
		authorizer, err := createAuthorizer(a)

		if err != nil {
			return err
		}

		c.RegisterAuthorizer(authorizer)
	}

	return nil
}

func createAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "header":
		return headerAuthorizer(cfg)

	case "static":
		return staticAuthorizer(cfg)

	case "oidc":
		return oidcAuthorizer(cfg)

	default:
		return nil, errors.New("invalid authorizer type: " + cfg.Type)
	}
}

func headerAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	var options []header.Option

	if cfg.UserHeader != "" {
		options = append(options, header.WithUserHeader(cfg.UserHeader))
	}

	if cfg.EmailHeader != "" {
		options = append(options, header.WithEmailHeader(cfg.EmailHeader))
	}

	if len(cfg.Domains) > 0 {
		options = append(options, header.WithDomains(cfg.Domains...))
	}

	return header.New(options...)
}

func staticAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	if cfg.Token == "" {
		return nil, errors.New("static authorizer requires a token")
	}

	return static.New(cfg.Token)
}

func oidcAuthorizer(cfg authorizerConfig) (auth.Provider, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("oidc authorizer requires an issuer")
	}

	var options []oidc.Option

	if len(cfg.Domains) > 0 {
		options = append(options, oidc.WithDomains(cfg.Domains...))
	}

	// the context is kept for key set refreshes and must outlive the call
	return oidc.New(context.Background(), cfg.Issuer, cfg.Audience, options...)
}
