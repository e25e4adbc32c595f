package mistral_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scansoal/scansoal/pkg/provider"
	"github.com/scansoal/scansoal/pkg/provider/mistral"

	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "mistral-small-latest",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"soal\":\"1. a\",\"jawaban\":\"B\"}"}
			}]
		}`))
	}))

	defer server.Close()

	c, err := mistral.NewCompleter("mistral-small-latest",
		mistral.WithURL(server.URL+"/v1"),
		mistral.WithToken("test-key"),
	)
	require.NoError(t, err)

	completion, err := provider.Collect(c.Complete(context.Background(), []provider.Message{
		provider.UserMessage("exam"),
	}, nil))
	require.NoError(t, err)

	require.Equal(t, `{"soal":"1. a","jawaban":"B"}`, completion.Message.Text())
}
