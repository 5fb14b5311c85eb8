package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlpractice-service/internal/config"
	"sqlpractice-service/internal/domain"
)

func newOpenAITestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	return newOpenAITestClientWithTimeout(t, handler, 0)
}

func newOpenAITestClientWithTimeout(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIClient(config.LLMConfig{
		OpenAIAPIKey:  "test-key",
		OpenAIModel:   "gpt-test",
		OpenAIBaseURL: srv.URL,
		Temperature:   0.7,
		MaxTokens:     1500,
		Timeout:       timeout,
	}, nil)
}

// slowHandler answers after d unless the client gives up first.
func slowHandler(d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		case <-r.Context().Done():
		}
	}
}

func drain(content <-chan string, errs <-chan error) (string, error) {
	var b strings.Builder
	for chunk := range content {
		b.WriteString(chunk)
	}
	return b.String(), <-errs
}

func TestOpenAIComplete(t *testing.T) {
	var got openAIRequest
	c := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Use a JOIN."}}]}`))
	})

	out, err := c.Complete(context.Background(), Request{System: SQLTutorSystem, User: "explain"})
	require.NoError(t, err)
	assert.Equal(t, "Use a JOIN.", out)

	assert.Equal(t, "gpt-test", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 1500, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 0.0001)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "explain", got.Messages[1].Content)
}

func TestOpenAIStream(t *testing.T) {
	c := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"SELECT", " name", " FROM users"} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", part)
		}
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ignored\"}}]}\n\n")
	})

	text, err := drain(c.Stream(context.Background(), Request{User: "q"}))
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM users", text)
}

func TestOpenAIStreamErrorChunk(t *testing.T) {
	c := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"error\":{\"message\":\"server overloaded\"}}\n\n")
	})

	text, err := drain(c.Stream(context.Background(), Request{User: "q"}))
	assert.Equal(t, "partial", text)
	assert.ErrorIs(t, err, domain.ErrLLMUpstream)
}

func TestOpenAIErrorStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"message":"Rate limit reached for requests"}}`,
			kind:    domain.ErrRateLimited,
			message: "OpenAI API rate limit exceeded. Please try again later.",
		},
		{
			name:    "quota",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"message":"You exceeded your current quota","code":"insufficient_quota"}}`,
			kind:    domain.ErrLLMUpstream,
			message: "OpenAI API quota exceeded. Please check your account billing.",
		},
		{
			name:    "bad key",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"Incorrect API key provided"}}`,
			kind:    domain.ErrLLMUpstream,
			message: "OpenAI API rejected the configured API key.",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			kind:    domain.ErrLLMUpstream,
			message: "OpenAI API request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), Request{User: "q"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, domain.Message(err, ""))

			_, err = drain(c.Stream(context.Background(), Request{User: "q"}))
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestOpenAIStreamCancelled(t *testing.T) {
	c := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := drain(c.Stream(ctx, Request{User: "q"}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenAITimeoutIsUpstreamFailure(t *testing.T) {
	c := newOpenAITestClientWithTimeout(t, slowHandler(time.Second), 50*time.Millisecond)

	_, err := c.Complete(context.Background(), Request{User: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUpstream)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "OpenAI API request failed with status 504", domain.Message(err, ""))

	_, err = drain(c.Stream(context.Background(), Request{User: "q"}))
	assert.ErrorIs(t, err, domain.ErrLLMUpstream)
}
