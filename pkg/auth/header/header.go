package header

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/scansoal/scansoal/pkg/auth"
)

var _ auth.Provider = (*Provider)(nil)

// Provider trusts the identity headers set by an authenticating reverse
// proxy in front of the service.
type Provider struct {
	userHeader  string
	emailHeader string

	domains []string
}

type Option func(*Provider)

func WithUserHeader(val string) Option {
	return func(p *Provider) {
		p.userHeader = val
	}
}

func WithEmailHeader(val string) Option {
	return func(p *Provider) {
		p.emailHeader = val
	}
}

// WithDomains only accepts users whose email is in one of domains.
func WithDomains(domains ...string) Option {
	return func(p *Provider) {
		p.domains = append(p.domains, domains...)
	}
}

func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		userHeader:  "X-Forwarded-User",
		emailHeader: "X-Forwarded-Email",
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	user := strings.TrimSpace(r.Header.Get(p.userHeader))
	email := strings.TrimSpace(r.Header.Get(p.emailHeader))

	if user == "" && email == "" {
		return ctx, fmt.Errorf("%w: no identity headers", auth.ErrUnauthorized)
	}

	if email == "" && isEmail(user) {
		email = user
	}

	if !auth.DomainAllowed(email, p.domains) {
		return ctx, fmt.Errorf("%w: domain not allowed", auth.ErrUnauthorized)
	}

	return auth.WithIdentity(ctx, user, email), nil
}

func isEmail(val string) bool {
	addr, err := mail.ParseAddress(val)
	return err == nil && addr.Address == val
}
