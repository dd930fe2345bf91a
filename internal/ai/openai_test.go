package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) IProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewProvider("openai", ProviderArgs{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)
	return p
}

func TestOpenAIGenerate(t *testing.T) {
	var got openAIChatRequest
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"  hello there  "}}]}`))
	})

	out, err := p.Generate(context.Background(), "gpt-4o-mini", "say hello")
	require.NoError(t, err)
	require.Equal(t, "hello there", out)
	require.Equal(t, "gpt-4o-mini", got.Model)
	require.Equal(t, []openAIChatMsg{{Role: "user", Content: "say hello"}}, got.Messages)
	require.False(t, got.Stream)
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := p.Generate(context.Background(), "m", "prompt")
	require.ErrorContains(t, err, "no choices")
}

func TestOpenAIEmbed(t *testing.T) {
	var got openAIEmbedRequest
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	})

	vec, err := p.Embed(context.Background(), "text-embedding-3-small", "chunk text", TaskRetrievalDocument, 3)
	require.NoError(t, err)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	require.Equal(t, "text-embedding-3-small", got.Model)
	require.Equal(t, "chunk text", got.Input)
	require.Equal(t, 3, got.Dimensions)
}

func TestOpenAIErrorStatus(t *testing.T) {
	p := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := p.Generate(context.Background(), "m", "prompt")
	require.ErrorContains(t, err, "rate limited")
}

func TestOpenAIMissingKey(t *testing.T) {
	p, err := NewProvider("openai", ProviderArgs{})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "m", "prompt")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = p.Embed(context.Background(), "m", "text", TaskRetrievalQuery, 0)
	require.ErrorIs(t, err, ErrUnavailable)
}
