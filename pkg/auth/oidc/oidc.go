package oidc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/scansoal/scansoal/pkg/auth"

	"github.com/coreos/go-oidc/v3/oidc"
)

var _ auth.Provider = (*Provider)(nil)

// Provider verifies bearer ID tokens against an OpenID Connect issuer.
type Provider struct {
	verifier *oidc.IDTokenVerifier

	domains []string
}

type Option func(*Provider)

// WithDomains only accepts tokens with a verified email in one of domains.
func WithDomains(domains ...string) Option {
	return func(p *Provider) {
		p.domains = append(p.domains, domains...)
	}
}

func New(ctx context.Context, issuer, audience string, options ...Option) (*Provider, error) {
	provider, err := oidc.NewProvider(ctx, issuer)

	if err != nil {
		return nil, err
	}

	p := &Provider{
		verifier: provider.Verifier(&oidc.Config{
			ClientID: audience,
		}),
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

type claims struct {
	Subject  string `json:"sub"`
	Username string `json:"preferred_username"`

	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	token, err := auth.BearerToken(r)

	if err != nil {
		return ctx, err
	}

	idtoken, err := p.verifier.Verify(ctx, token)

	if err != nil {
		return ctx, fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
	}

	var c claims

	if err := idtoken.Claims(&c); err != nil {
		return ctx, fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
	}

	if len(p.domains) > 0 {
		if c.EmailVerified != nil && !*c.EmailVerified {
			return ctx, fmt.Errorf("%w: email not verified", auth.ErrUnauthorized)
		}

		if !auth.DomainAllowed(c.Email, p.domains) {
			return ctx, fmt.Errorf("%w: domain not allowed", auth.ErrUnauthorized)
		}
	}

	user := c.Username

	if user == "" {
		user = c.Subject
	}

	return auth.WithIdentity(ctx, user, c.Email), nil
}
