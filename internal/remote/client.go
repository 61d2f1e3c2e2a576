// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// Provider is reported in results and errors from a remote gateway.
	Provider = "remote"

	// DefaultBaseURL is where `scribe serve` listens by default.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout leaves room for the gateway's own 90 second backend
	// deadline plus transport overhead.
	DefaultTimeout = 100 * time.Second

	maxErrorBody = 64 * 1024
)

// =============================================================================
// CLIENT
// =============================================================================

// Client calls a running assist gateway over HTTP. It satisfies
// assist.Assister, so callers can use it in place of an in-process Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ assist.Assister      = (*Client)(nil)
	_ assist.HealthChecker = (*Client)(nil)
	_ assist.ModelLister   = (*Client)(nil)
)

// NewClient creates a client for the gateway at baseURL. An empty baseURL
// uses DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithHTTPClient replaces the transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithTimeout sets the overall per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.httpClient.Timeout = d
	}
	return c
}

// BaseURL returns the gateway address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ASSIST
// =============================================================================

type assistBody struct {
	Text string      `json:"text"`
	Mode assist.Mode `json:"mode"`
}

type assistReply struct {
	AssistedText *string `json:"assisted_text"`
}

// Assist posts req to /assist and maps the reply onto the assist error
// kinds: 422 becomes a *assist.ValidationError, 500 and transport failures
// an *assist.UpstreamError, and an unreadable 200 an
// *assist.MalformedResponseError.
//
// The request is validated locally first, so blank text never leaves the
// process.
func (c *Client) Assist(ctx context.Context, req assist.Request) (*assist.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(assistBody{Text: req.Text, Mode: req.Mode})
	if err != nil {
		return nil, &assist.ValidationError{Field: "text", Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assist", bytes.NewReader(payload))
	if err != nil {
		return nil, &assist.UpstreamError{Provider: Provider, Message: "build request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var reply assistReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, &assist.MalformedResponseError{Provider: Provider, Message: "decode gateway response", Cause: err}
	}
	if reply.AssistedText == nil {
		return nil, &assist.MalformedResponseError{Provider: Provider, Message: `gateway response has no "assisted_text" field`}
	}

	tokens, _ := strconv.Atoi(resp.Header.Get("X-Prompt-Tokens"))
	return &assist.Result{
		RequestID:    resp.Header.Get("X-Request-ID"),
		Mode:         req.Mode,
		Original:     req.Text,
		AssistedText: *reply.AssistedText,
		Provider:     Provider,
		Model:        resp.Header.Get("X-Assist-Model"),
		PromptTokens: tokens,
		Duration:     time.Since(start),
	}, nil
}

// =============================================================================
// HEALTH AND MODELS
// =============================================================================

type healthReply struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Error   string `json:"error"`
}

// Ping succeeds when the gateway answers /health with status "ok".
func (c *Client) Ping(ctx context.Context) error {
	var reply healthReply
	if err := c.getJSON(ctx, "/health", &reply); err != nil {
		return err
	}
	if reply.Status != "ok" {
		msg := "gateway is " + reply.Status
		if reply.Error != "" {
			msg += ": " + reply.Error
		}
		return &assist.UpstreamError{Provider: Provider, Message: msg}
	}
	return nil
}

type modelsReply struct {
	Models []string `json:"models"`
}

// ListModels returns the models the gateway's backend offers.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var reply modelsReply
	if err := c.getJSON(ctx, "/models", &reply); err != nil {
		return nil, err
	}
	return reply.Models, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &assist.UpstreamError{Provider: Provider, Message: "build request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &assist.MalformedResponseError{Provider: Provider, Message: "decode " + path, Cause: err}
	}
	return nil
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// errorReply covers both detail shapes: a plain string, or a list of field
// errors.
type errorReply struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &assist.UpstreamError{Provider: Provider, Message: "gateway timed out", Cause: err}
	}
	return &assist.UpstreamError{Provider: Provider, Message: "gateway unreachable", Cause: err}
}

// statusError turns a non-200 response into an assist error.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var reply errorReply
	_ = json.Unmarshal(raw, &reply)

	var detail string
	var fields []fieldError
	if len(reply.Detail) > 0 {
		if err := json.Unmarshal(reply.Detail, &detail); err != nil {
			_ = json.Unmarshal(reply.Detail, &fields)
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return validationError(detail, fields, raw)

	case resp.StatusCode >= 500 && detail != "":
		return &assist.UpstreamError{
			Provider:   Provider,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimPrefix(detail, "LLM error: "),
		}
	}

	msg := fmt.Sprintf("gateway returned %s", resp.Status)
	if detail != "" {
		msg += ": " + detail
	} else if body := strings.TrimSpace(string(raw)); body != "" {
		msg += ": " + body
	}
	return &assist.UpstreamError{Provider: Provider, StatusCode: resp.StatusCode, Message: msg}
}

func validationError(detail string, fields []fieldError, raw []byte) error {
	if detail != "" {
		return &assist.ValidationError{Field: "text", Message: detail}
	}
	if len(fields) > 0 {
		f := fields[0]
		name := ""
		if n := len(f.Loc); n > 0 {
			name = fmt.Sprint(f.Loc[n-1])
		}
		return &assist.ValidationError{Field: name, Message: f.Msg}
	}
	return &assist.ValidationError{Message: strings.TrimSpace(string(raw))}
}

func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
