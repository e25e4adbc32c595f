package provider

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorRetryable(t *testing.T) {
	cause := errors.New("upstream")

	for _, code := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusRequestTimeout} {
		require.True(t, (&Error{Provider: "openai", StatusCode: code, Err: cause}).Retryable(), code)
	}

	for _, code := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		require.False(t, (&Error{Provider: "openai", StatusCode: code, Err: cause}).Retryable(), code)
	}

	err := error(&Error{Provider: "anthropic", StatusCode: 529, Err: cause})
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "anthropic: status 529")
}
