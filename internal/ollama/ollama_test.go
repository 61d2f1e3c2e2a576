// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example:11434/"})

	assert.Equal(t, "http://example:11434", c.GetConfig().BaseURL)
	assert.Equal(t, DefaultTimeout, c.GetConfig().Timeout)
	assert.Equal(t, DefaultModel, c.GetDefaultModel())

	c = NewClientWithConfig(nil)
	assert.Equal(t, DefaultBaseURL, c.GetConfig().BaseURL)
}

// =============================================================================
// GENERATE TESTS
// =============================================================================

func TestGenerate_Success(t *testing.T) {
	var got GenerateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"model":"llama3","response":"  I have a pen.\n","done":true,"eval_count":10,"eval_duration":1000000000}`))
	})

	resp, err := client.Generate(context.Background(), "llama3", "Fix: I has a pen.")
	require.NoError(t, err)

	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "Fix: I has a pen.", got.Prompt)
	assert.False(t, got.Stream)
	assert.Equal(t, "  I have a pen.\n", resp.Response)
	assert.True(t, resp.Done)
	assert.Equal(t, 10, resp.EvalCount)
}

func TestGenerate_DefaultModel(t *testing.T) {
	var got GenerateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"response":"ok"}`))
	})

	_, err := client.Generate(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, got.Model)
}

func TestGenerate_EmptyResponseIsValid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":""}`))
	})

	resp, err := client.Generate(context.Background(), "llama3", "hello")
	require.NoError(t, err)
	assert.Equal(t, "", resp.Response)
}

func TestGenerate_MissingResponseField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"llama3","done":true}`))
	})

	_, err := client.Generate(context.Background(), "llama3", "hello")
	require.Error(t, err)
	assert.True(t, IsInvalidResponse(err))
	assert.False(t, IsTimeout(err))
}

func TestGenerate_NotJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>proxy error</html>`))
	})

	_, err := client.Generate(context.Background(), "llama3", "hello")
	require.Error(t, err)
	assert.True(t, IsInvalidResponse(err))
}

func TestGenerate_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
		contains string
	}{
		{"server error with json", http.StatusInternalServerError, `{"error":"out of memory"}`, ErrTypeStatus, "out of memory"},
		{"server error plain", http.StatusBadGateway, `upstream down`, ErrTypeStatus, "upstream down"},
		{"unknown model", http.StatusNotFound, `{"error":"model 'nope' not found"}`, ErrTypeModelNotFound, "not found"},
		{"bad request", http.StatusBadRequest, ``, ErrTypeStatus, "400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), "llama3", "hello")
			require.Error(t, err)

			var clientErr *ClientError
			require.ErrorAs(t, err, &clientErr)
			assert.Equal(t, tt.wantType, clientErr.Type)
			assert.Equal(t, tt.status, clientErr.StatusCode)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	// Registered after the server, so it runs before srv.Close.
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "llama3", "hello")
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestGenerate_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: time.Second})
	_, err := client.Generate(context.Background(), "llama3", "hello")
	require.Error(t, err)
	assert.True(t, IsNotRunning(err), "got %v", err)
}

// =============================================================================
// HEALTH AND MODEL TESTS
// =============================================================================

func TestCheckRunning(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	})
	assert.NoError(t, client.CheckRunning(context.Background()))

	client = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	err := client.CheckRunning(context.Background())
	require.Error(t, err)
	assert.False(t, IsNotRunning(err))
}

func TestListModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"llama3:latest","size":4661224676,"details":{"family":"llama","parameter_size":"8.0B"}},{"name":"mistral:7b","size":1024}]}`))
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama3:latest", models[0].Name)
	assert.Equal(t, "8.0B", models[0].Details.ParameterSize)
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestClientError_Is(t *testing.T) {
	cause := context.DeadlineExceeded
	err := &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: cause}

	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrNotRunning)
	assert.Equal(t, "request timed out: context deadline exceeded", err.Error())
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "timeout", ErrTypeTimeout.String())
	assert.Equal(t, "invalid_response", ErrTypeInvalidResponse.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}
