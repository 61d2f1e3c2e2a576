// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completionBody is a minimal chat completion answer.
func completionBody(model, content string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"created": 1700000000,
		"model": %q,
		"choices": [{
			"index": 0,
			"message": {"role": "assistant", "content": %q},
			"finish_reason": "stop"
		}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30}
	}`, model, content)
}

// newTestClient points a client at handler under /v1.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL + "/v1",
		APIKey:  "sk-test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestComplete_Success(t *testing.T) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(body.Model, "I have a pen.")))
	})

	text, err := client.Complete(context.Background(), "", "Fix: I has a pen.")
	require.NoError(t, err)

	assert.Equal(t, "I have a pen.", text)
	assert.Equal(t, "test-model", body.Model)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "Fix: I has a pen.", body.Messages[0].Content)
}

func TestComplete_EmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	})

	_, err := client.Complete(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrEmptyChoices)
}

func TestComplete_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuthFailed},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"unknown model", http.StatusNotFound, ErrModelNotFound},
		{"server error", http.StatusInternalServerError, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"backend said no","type":"test","code":"x"}}`))
			})

			_, err := client.Complete(context.Background(), "", "hello")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			assert.Equal(t, int32(1), calls.Load(), "requests must not be retried")
		})
	}
}

func TestComplete_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: url + "/v1", Timeout: time.Second})
	_, err := client.Complete(context.Background(), "", "hello")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

// TestComplete_Concurrent verifies that per-call models never leak between
// concurrent requests.
//
// Run with: go test -race -run TestComplete_Concurrent
func TestComplete_Concurrent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(body.Model, "echo:"+body.Model)))
	})

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			model := fmt.Sprintf("model-%d", n)
			text, err := client.Complete(context.Background(), model, "hi")
			if err != nil {
				errs <- err
				return
			}
			if text != "echo:"+model {
				errs <- fmt.Errorf("got %q for %s", text, model)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, "test-model", client.GetModel())
}

// =============================================================================
// MODEL LIST TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"id":"gpt-4o-mini","object":"model","created":1,"owned_by":"openai"},
			{"id":"llama3","object":"model","created":2,"owned_by":"local"}
		]}`))
	})

	ids, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o-mini", "llama3"}, ids)
}

// =============================================================================
// KEY HANDLING TESTS
// =============================================================================

func TestAPIKeyMasked(t *testing.T) {
	client := NewClient(Config{APIKey: "  sk-secret-value  "})

	masked := client.APIKeyMasked()
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "length=15")
	assert.Len(t, client.KeyFingerprint(), 8)

	empty := NewClient(Config{})
	assert.Equal(t, "[not set]", empty.APIKeyMasked())
	assert.Equal(t, "none", empty.KeyFingerprint())
	assert.Equal(t, DefaultBaseURL, empty.BaseURL())
	assert.Equal(t, DefaultModel, empty.GetModel())
}
