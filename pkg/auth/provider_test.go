package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type funcProvider func(ctx context.Context, r *http.Request) (context.Context, error)

func (f funcProvider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	return f(ctx, r)
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	_, err := BearerToken(r)
	require.ErrorIs(t, err, ErrUnauthorized)

	r.Header.Set("Authorization", "Bearer  abc ")
	token, err := BearerToken(r)
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	r.Header.Set("Authorization", "Bearer")
	_, err = BearerToken(r)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestChain(t *testing.T) {
	deny := funcProvider(func(ctx context.Context, r *http.Request) (context.Context, error) {
		return ctx, errors.New("denied")
	})

	allow := funcProvider(func(ctx context.Context, r *http.Request) (context.Context, error) {
		return context.WithValue(ctx, UserContextKey, "guru"), nil
	})

	r := httptest.NewRequest("GET", "/", nil)

	ctx, err := Chain(nil).Authenticate(context.Background(), r)
	require.NoError(t, err)
	require.Empty(t, User(ctx))

	ctx, err = Chain{deny, allow}.Authenticate(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, "guru", User(ctx))

	_, err = Chain{deny}.Authenticate(context.Background(), r)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestWithIdentity(t *testing.T) {
	ctx := WithIdentity(context.Background(), "guru", "")
	require.Equal(t, "guru", User(ctx))
	require.Empty(t, Email(ctx))

	ctx = WithIdentity(context.Background(), "", "guru@sekolah.id")
	require.Empty(t, User(ctx))
	require.Equal(t, "guru@sekolah.id", Email(ctx))
}

func TestDomainAllowed(t *testing.T) {
	require.True(t, DomainAllowed("", nil))
	require.True(t, DomainAllowed("guru@sekolah.id", []string{"sekolah.id"}))
	require.True(t, DomainAllowed("guru@Sekolah.ID", []string{"@sekolah.id"}))

	require.False(t, DomainAllowed("guru@lain.id", []string{"sekolah.id"}))
	require.False(t, DomainAllowed("guru", []string{"sekolah.id"}))
	require.False(t, DomainAllowed("", []string{"sekolah.id"}))
}
