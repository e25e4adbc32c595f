package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserContextKey  contextKey = "auth.user"
	EmailContextKey contextKey = "auth.email"
)

var ErrUnauthorized = errors.New("unauthorized")

type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", ErrUnauthorized)
	}

	scheme, token, ok := strings.Cut(header, " ")

	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: invalid authorization header", ErrUnauthorized)
	}

	return strings.TrimSpace(token), nil
}

// Chain accepts a request as soon as one provider does. An empty chain
// accepts every request.
type Chain []Provider

func (c Chain) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if len(c) == 0 {
		return ctx, nil
	}

	var errs []error

	for _, p := range c {
		result, err := p.Authenticate(ctx, r)

		if err == nil {
			return result, nil
		}

		errs = append(errs, err)
	}

	return ctx, fmt.Errorf("%w: %w", ErrUnauthorized, errors.Join(errs...))
}

// WithIdentity stores the authenticated user and email. Empty values are
// not stored.
func WithIdentity(ctx context.Context, user, email string) context.Context {
	if user != "" {
		ctx = context.WithValue(ctx, UserContextKey, user)
	}

	if email != "" {
		ctx = context.WithValue(ctx, EmailContextKey, email)
	}

	return ctx
}

func User(ctx context.Context) string {
	user, _ := ctx.Value(UserContextKey).(string)
	return user
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailContextKey).(string)
	return email
}

// DomainAllowed reports whether email belongs to one of domains. Any email
// is allowed when domains is empty.
func DomainAllowed(email string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}

	_, domain, ok := strings.Cut(email, "@")

	if !ok {
		return false
	}

	for _, d := range domains {
		if strings.EqualFold(domain, strings.TrimPrefix(d, "@")) {
			return true
		}
	}

	return false
}
