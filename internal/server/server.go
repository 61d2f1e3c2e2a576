// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/config"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// HealthTimeout bounds the backend ping made by GET /health.
	HealthTimeout = 5 * time.Second

	// ModelsTimeout bounds the model listing made by GET /models.
	ModelsTimeout = 10 * time.Second

	// llmErrorPrefix starts every 500 detail.
	llmErrorPrefix = "LLM error: "
)

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

// AssistRequest is the body of POST /assist. Mode defaults to "full".
type AssistRequest struct {
	Text string      `json:"text"`
	Mode assist.Mode `json:"mode,omitempty"`
}

// AssistResponse is the success body of POST /assist.
type AssistResponse struct {
	AssistedText string `json:"assisted_text"`
}

// DetailResponse is the body of every error that is not a field error.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// FieldError describes one problem with a request body.
type FieldError struct {
	Type  string `json:"type"`
	Loc   []any  `json:"loc"`
	Msg   string `json:"msg"`
	Input any    `json:"input,omitempty"`
}

// ValidationResponse is the 422 body for a request that could not be
// decoded into the expected fields. Body echoes the raw request.
type ValidationResponse struct {
	Detail []FieldError `json:"detail"`
	Body   string       `json:"body"`
}

// DiffRequest is the body of POST /diff.
type DiffRequest struct {
	Original string `json:"original"`
	Revised  string `json:"revised"`
}

// DiffResponse is the classified comparison returned by POST /diff.
type DiffResponse struct {
	*diff.WordDiff
	HasChanges bool   `json:"has_changes"`
	Summary    string `json:"summary"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"` // "ok" or "degraded"
	Version  string `json:"version"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Backend  string `json:"backend"` // "reachable", "unreachable" or "unknown"
	Error    string `json:"error,omitempty"`
	Uptime   string `json:"uptime"`
}

// ModelsResponse is returned by GET /models.
type ModelsResponse struct {
	Provider string   `json:"provider"`
	Current  string   `json:"current"`
	Models   []string `json:"models"`
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the HTTP front of an assist.Gateway.
type Server struct {
	mu      sync.RWMutex
	cfg     *config.Config
	gateway *assist.Gateway
	router  *http.ServeMux
	server  *http.Server
	limiter *RateLimiter
	logger  *log.Logger
	version string
	started time.Time
}

// NewServer creates a server for cfg that answers with gateway.
func NewServer(cfg *config.Config, gateway *assist.Gateway) *Server {
	s := &Server{
		cfg:     cfg.Clone(),
		gateway: gateway,
		router:  http.NewServeMux(),
		logger:  log.Default(),
		version: "dev",
		started: time.Now(),
	}
	if cfg.Server.RateLimitPerMinute > 0 {
		s.limiter = NewRateLimiter(cfg.Server.RateLimitPerMinute)
	}
	s.setupRoutes()
	return s
}

// WithLogger sets the logger used for request and server events.
func (s *Server) WithLogger(l *log.Logger) *Server {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithVersion sets the version reported by /health.
func (s *Server) WithVersion(v string) *Server {
	s.version = v
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Addr()
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /assist", s.handleAssist)
	s.router.HandleFunc("POST /diff", s.handleDiff)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /models", s.handleModels)
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	cors := DefaultCORSConfig()
	cors.AllowedOrigins = s.cfg.Server.CORSOrigins
	maxBody := s.cfg.Server.MaxBodyBytes
	s.mu.RUnlock()

	middlewares := []func(http.Handler) http.Handler{
		RecoveryMiddleware(s.logger),
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		CORSMiddleware(cors),
	}
	if s.limiter != nil {
		middlewares = append(middlewares, RateLimitMiddleware(s.limiter))
	}
	middlewares = append(middlewares, MaxBodyMiddleware(maxBody))

	return Chain(middlewares...)(s.router)
}

// ApplyConfig takes a reloaded config. A changed backend section swaps the
// gateway backend at once; listen and middleware settings apply on the next
// start.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	changed := s.cfg.BackendChanged(cfg)
	s.cfg = cfg.Clone()
	s.mu.Unlock()

	if changed {
		s.gateway.SetBackend(cfg.NewBackend())
	}
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start listens on the configured address and blocks until the server stops.
// It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// One assist call may take the whole backend timeout.
		WriteTimeout: s.gateway.Timeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	backend := s.gateway.Backend()
	s.logger.Printf("SERVER_START | addr=%s version=%s provider=%s model=%s",
		ln.Addr(), s.version, backend.Provider(), backend.Model())

	if s.limiter != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go s.limiter.RunCleanup(ctx, time.Minute)
	}

	return srv.Serve(ln)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()

	if srv == nil {
		return nil
	}
	s.logger.Printf("SERVER_SHUTDOWN | uptime=%s", time.Since(s.started).Round(time.Second))
	return srv.Shutdown(ctx)
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleAssist handles POST /assist.
//
//	200 {"assisted_text": "..."}
//	422 {"detail": "Empty text input."}
//	422 {"detail": [field errors], "body": "..."}
//	500 {"detail": "LLM error: ..."}
func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	req, fieldErrs := decodeAssistRequest(body)
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Detail: fieldErrs, Body: string(body)})
		return
	}

	res, err := s.gateway.Assist(r.Context(), req)
	if err != nil {
		s.writeAssistError(w, body, err)
		return
	}

	w.Header().Set("X-Prompt-Tokens", strconv.Itoa(res.PromptTokens))
	w.Header().Set("X-Assist-Model", res.Model)
	writeJSON(w, http.StatusOK, AssistResponse{AssistedText: res.AssistedText})
}

// writeAssistError maps a gateway error kind onto a status code.
func (s *Server) writeAssistError(w http.ResponseWriter, body []byte, err error) {
	var vErr *assist.ValidationError
	if errors.As(err, &vErr) {
		if vErr.Message == assist.ErrEmptyText {
			writeJSON(w, http.StatusUnprocessableEntity, DetailResponse{Detail: assist.ErrEmptyText})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Detail: []FieldError{{Type: "value_error", Loc: []any{"body", vErr.Field}, Msg: vErr.Message}},
			Body:   string(body),
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, DetailResponse{Detail: llmErrorPrefix + err.Error()})
}

// handleDiff handles POST /diff. It never calls the backend. Texts whose
// changed section is over diff.MaxCells are answered with 413.
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	fields, fieldErrs := decodeObject(body)
	var req DiffRequest
	if fieldErrs == nil {
		var e1, e2 *FieldError
		req.Original, e1 = stringField(fields, "original", true, "")
		req.Revised, e2 = stringField(fields, "revised", true, "")
		fieldErrs = appendFieldErrors(fieldErrs, e1, e2)
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Detail: fieldErrs, Body: string(body)})
		return
	}

	if err := diff.CheckSize(req.Original, req.Revised); err != nil {
		s.logger.Printf("DIFF_TOO_LARGE | %v", err)
		writeJSON(w, http.StatusRequestEntityTooLarge, DetailResponse{Detail: "Texts too large to compare: " + err.Error()})
		return
	}

	d := diff.Compute(req.Original, req.Revised)
	writeJSON(w, http.StatusOK, DiffResponse{WordDiff: d, HasChanges: d.HasChanges(), Summary: d.Summary()})
}

// handleHealth handles GET /health. The status is "degraded" when the
// backend does not answer its ping; the HTTP status stays 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := s.gateway.Backend()
	resp := HealthResponse{
		Status:   "ok",
		Version:  s.version,
		Provider: backend.Provider(),
		Model:    backend.Model(),
		Backend:  "unknown",
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	}

	if hc, ok := backend.(assist.HealthChecker); ok {
		ctx, cancel := context.WithTimeout(r.Context(), HealthTimeout)
		defer cancel()

		if err := hc.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Backend = "unreachable"
			resp.Error = err.Error()
		} else {
			resp.Backend = "reachable"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleModels handles GET /models.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	backend := s.gateway.Backend()
	lister, ok := backend.(assist.ModelLister)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, DetailResponse{Detail: "Backend cannot list models."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ModelsTimeout)
	defer cancel()

	models, err := lister.ListModels(ctx)
	if err != nil {
		s.logger.Printf("MODELS_ERROR | provider=%s error=%v", backend.Provider(), err)
		writeJSON(w, http.StatusBadGateway, DetailResponse{Detail: llmErrorPrefix + err.Error()})
		return
	}
	if models == nil {
		models = []string{}
	}

	writeJSON(w, http.StatusOK, ModelsResponse{
		Provider: backend.Provider(),
		Current:  backend.Model(),
		Models:   models,
	})
}

// ============================================================================
// BODY DECODING
// ============================================================================

// readBody reads the whole request body, answering 413 when it is over the
// configured limit.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, DetailResponse{
				Detail: fmt.Sprintf("Request body exceeds %d bytes.", tooLarge.Limit),
			})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, DetailResponse{Detail: "Could not read request body."})
		return nil, false
	}
	return body, true
}

// decodeAssistRequest extracts text and mode from body. Mode may be absent.
func decodeAssistRequest(body []byte) (assist.Request, []FieldError) {
	fields, errs := decodeObject(body)
	if errs != nil {
		return assist.Request{}, errs
	}

	text, textErr := stringField(fields, "text", true, "")
	mode, modeErr := stringField(fields, "mode", false, string(assist.ModeFull))
	if modeErr == nil && !assist.Mode(mode).Valid() {
		modeErr = &FieldError{
			Type:  "literal_error",
			Loc:   []any{"body", "mode"},
			Msg:   "Input should be 'full' or 'grammar'",
			Input: mode,
		}
	}

	errs = appendFieldErrors(errs, textErr, modeErr)
	return assist.Request{Text: text, Mode: assist.Mode(mode)}, errs
}

// decodeObject parses body as a JSON object. A nil error slice means the
// body was an object.
func decodeObject(body []byte) (map[string]json.RawMessage, []FieldError) {
	if len(body) == 0 {
		return nil, []FieldError{{Type: "missing", Loc: []any{"body"}, Msg: "Field required"}}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, []FieldError{{
				Type: "json_invalid",
				Loc:  []any{"body", syntaxErr.Offset},
				Msg:  "JSON decode error",
			}}
		}
		return nil, []FieldError{objectTypeError(body)}
	}
	if fields == nil {
		return nil, []FieldError{objectTypeError(body)}
	}
	return fields, nil
}

func objectTypeError(body []byte) FieldError {
	var input any
	_ = json.Unmarshal(body, &input)
	return FieldError{
		Type:  "model_attributes_type",
		Loc:   []any{"body"},
		Msg:   "Input should be a valid dictionary or object to extract fields from",
		Input: input,
	}
}

// stringField reads fields[name] as a string. An absent optional field
// yields def.
func stringField(fields map[string]json.RawMessage, name string, required bool, def string) (string, *FieldError) {
	raw, ok := fields[name]
	if !ok {
		if required {
			return "", &FieldError{Type: "missing", Loc: []any{"body", name}, Msg: "Field required"}
		}
		return def, nil
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil || string(raw) == "null" {
		var input any
		_ = json.Unmarshal(raw, &input)
		return "", &FieldError{
			Type:  "string_type",
			Loc:   []any{"body", name},
			Msg:   "Input should be a valid string",
			Input: input,
		}
	}
	return v, nil
}

func appendFieldErrors(dst []FieldError, errs ...*FieldError) []FieldError {
	for _, e := range errs {
		if e != nil {
			dst = append(dst, *e)
		}
	}
	return dst
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("RESPONSE_ENCODE_ERROR | status=%d error=%v", status, err)
	}
}
