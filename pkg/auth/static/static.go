package static

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/scansoal/scansoal/pkg/auth"
)

var _ auth.Provider = (*Provider)(nil)

type Provider struct {
	token string
	user  string
}

type Option func(*Provider)

func WithUser(user string) Option {
	return func(p *Provider) {
		p.user = user
	}
}

func New(token string, options ...Option) (*Provider, error) {
	p := &Provider{
		token: token,
		user:  "static",
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if p.token == "" {
		return ctx, nil
	}

	token, err := auth.BearerToken(r)

	if err != nil {
		return ctx, err
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) != 1 {
		return ctx, fmt.Errorf("%w: invalid token", auth.ErrUnauthorized)
	}

	ctx = context.WithValue(ctx, auth.UserContextKey, p.user)

	return ctx, nil
}
