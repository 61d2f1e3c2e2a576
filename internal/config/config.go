// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete scribe configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	Backend BackendConfig `toml:"backend" json:"backend"`
	UI      UIConfig      `toml:"ui" json:"ui"`
}

// ServerConfig contains the HTTP gateway settings.
type ServerConfig struct {
	Host string `toml:"host" json:"host"`
	Port int    `toml:"port" json:"port"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `toml:"cors_origins" json:"cors_origins"`

	// RateLimitPerMinute caps requests per client IP. 0 disables the limiter.
	RateLimitPerMinute int `toml:"rate_limit_per_minute" json:"rate_limit_per_minute"`

	// MaxBodyBytes caps the request body size.
	MaxBodyBytes int64 `toml:"max_body_bytes" json:"max_body_bytes"`
}

// BackendConfig selects the LLM backend.
type BackendConfig struct {
	// Provider is "ollama" or "openai" (any OpenAI-compatible endpoint).
	Provider    string `toml:"provider" json:"provider"`
	URL         string `toml:"url" json:"url"`
	Model       string `toml:"model" json:"model"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`

	// APIKey is only sent to the openai provider.
	APIKey string `toml:"api_key" json:"api_key"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	Theme       string `toml:"theme" json:"theme"`               // dark, light or auto
	DefaultMode string `toml:"default_mode" json:"default_mode"` // full or grammar
	ExportDir   string `toml:"export_dir" json:"export_dir"`

	// GatewayURL points the TUI at a running `scribe serve`. Empty means the
	// backend is called in-process.
	GatewayURL string `toml:"gateway_url" json:"gateway_url"`
}

// Provider names accepted in backend.provider.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with the values the web frontend was served with:
// loopback on port 8000, llama3 on a local Ollama, 90 second timeout.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "127.0.0.1",
			Port:               8000,
			CORSOrigins:        []string{"*"},
			RateLimitPerMinute: 60,
			MaxBodyBytes:       1 << 20,
		},
		Backend: BackendConfig{
			Provider:    ProviderOllama,
			URL:         "http://localhost:11434",
			Model:       "llama3",
			TimeoutSecs: 90,
		},
		UI: UIConfig{
			Theme:       "auto",
			DefaultMode: string(assist.ModeFull),
			ExportDir:   ".",
		},
	}
}

// Addr returns the listen address, e.g. "127.0.0.1:8000".
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Timeout returns the backend timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// Mode returns the configured default mode, falling back to full.
func (c *Config) Mode() assist.Mode {
	m, err := assist.ParseMode(c.UI.DefaultMode)
	if err != nil {
		return assist.ModeFull
	}
	return m
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the scribe configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".scribe"), nil
}

// ConfigPath returns the config file path. SCRIBE_CONFIG overrides the
// default ~/.scribe/config.toml.
func ConfigPath() (string, error) {
	if p := os.Getenv("SCRIBE_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ensureSecurePermissions tightens a config file to 0600; it may hold an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the default config file if it exists. Order of precedence:
// defaults, then the file, then SCRIBE_* environment variables.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return finish(base())
	}
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return finish(base())
		}
		return nil, fmt.Errorf("stat config: %w", statErr)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file. Files ending in
// .json are decoded as JSON, everything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := base()

	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	return finish(cfg)
}

// base is Default with the provider-dependent backend fields cleared, so
// SetDefaults can fill them once the provider is known. Lists are cleared so
// a file replaces rather than extends them.
func base() *Config {
	cfg := Default()
	cfg.Backend.URL = ""
	cfg.Backend.Model = ""
	cfg.Server.CORSOrigins = nil
	return cfg
}

// finish applies env overrides, fills defaults and validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file on top of cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# scribe configuration file\n")
	sb.WriteString("# Environment variables (SCRIBE_*) override these values.\n\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, []byte(sb.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns ValidateErrors listing
// every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Server
	if strings.TrimSpace(c.Server.Host) == "" {
		add("server.host", "must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port", "must be between 1 and 65535, got %d", c.Server.Port)
	}
	for i, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateURL(origin); err != nil {
			add(fmt.Sprintf("server.cors_origins[%d]", i), "%v", err)
		}
	}
	if c.Server.RateLimitPerMinute < 0 {
		add("server.rate_limit_per_minute", "must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		add("server.max_body_bytes", "must be positive")
	}

	// Backend
	switch c.Backend.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		add("backend.provider", "must be %q or %q, got %q", ProviderOllama, ProviderOpenAI, c.Backend.Provider)
	}
	if err := validateURL(c.Backend.URL); err != nil {
		add("backend.url", "%v", err)
	}
	if strings.TrimSpace(c.Backend.Model) == "" {
		add("backend.model", "must not be empty")
	}
	if c.Backend.TimeoutSecs < 1 || c.Backend.TimeoutSecs > 3600 {
		add("backend.timeout_secs", "must be between 1 and 3600, got %d", c.Backend.TimeoutSecs)
	}

	// UI
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		add("ui.theme", "must be dark, light or auto, got %q", c.UI.Theme)
	}
	if !assist.Mode(c.UI.DefaultMode).Valid() {
		add("ui.default_mode", "must be full or grammar, got %q", c.UI.DefaultMode)
	}
	if c.UI.GatewayURL != "" {
		if err := validateURL(c.UI.GatewayURL); err != nil {
			add("ui.gateway_url", "%v", err)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateURL accepts absolute http(s) URLs with a host.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

// SetDefaults fills zero-value fields from Default.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.CORSOrigins == nil {
		c.Server.CORSOrigins = d.Server.CORSOrigins
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = d.Server.MaxBodyBytes
	}

	if c.Backend.Provider == "" {
		c.Backend.Provider = d.Backend.Provider
	}
	c.Backend.Provider = strings.ToLower(c.Backend.Provider)
	if c.Backend.URL == "" {
		if c.Backend.Provider == ProviderOpenAI {
			c.Backend.URL = "https://api.openai.com/v1"
		} else {
			c.Backend.URL = d.Backend.URL
		}
	}
	if c.Backend.Model == "" {
		if c.Backend.Provider == ProviderOpenAI {
			c.Backend.Model = "gpt-4o-mini"
		} else {
			c.Backend.Model = d.Backend.Model
		}
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = d.Backend.TimeoutSecs
	}

	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.DefaultMode == "" {
		c.UI.DefaultMode = d.UI.DefaultMode
	}
	c.UI.DefaultMode = strings.ToLower(c.UI.DefaultMode)
	if c.UI.ExportDir == "" {
		c.UI.ExportDir = d.UI.ExportDir
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SCRIBE_BACKEND_URL: overrides backend.url
//   - SCRIBE_MODEL: overrides backend.model
//   - SCRIBE_PROVIDER: overrides backend.provider
//   - SCRIBE_API_KEY: overrides backend.api_key
//   - SCRIBE_TIMEOUT: overrides backend.timeout_secs
//   - SCRIBE_PORT: overrides server.port
//   - SCRIBE_GATEWAY_URL: overrides ui.gateway_url
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SCRIBE_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("SCRIBE_MODEL"); v != "" {
		c.Backend.Model = v
	}
	if v := os.Getenv("SCRIBE_PROVIDER"); v != "" {
		c.Backend.Provider = v
	}
	if v := os.Getenv("SCRIBE_API_KEY"); v != "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv("SCRIBE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = n
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring SCRIBE_TIMEOUT=%q: not a number\n", v)
		}
	}
	if v := os.Getenv("SCRIBE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring SCRIBE_PORT=%q: not a number\n", v)
		}
	}
	if v := os.Getenv("SCRIBE_GATEWAY_URL"); v != "" {
		c.UI.GatewayURL = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "backend.model").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "server.port").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the struct tree along a dotted key.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, s := range strings.Split(strVal, ",") {
					if s = strings.TrimSpace(s); s != "" {
						items = append(items, s)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"server.host",
		"server.port",
		"server.cors_origins",
		"server.rate_limit_per_minute",
		"server.max_body_bytes",
		"backend.provider",
		"backend.url",
		"backend.model",
		"backend.timeout_secs",
		"backend.api_key",
		"ui.theme",
		"ui.default_mode",
		"ui.export_dir",
		"ui.gateway_url",
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Server.CORSOrigins != nil {
		clone.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	}
	return &clone
}

// BackendChanged reports whether other selects a different backend.
func (c *Config) BackendChanged(other *Config) bool {
	return c.Backend != other.Backend
}

// String returns the config as JSON with the API key redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Backend.APIKey != "" {
		safe.Backend.APIKey = "[REDACTED]"
	}

	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access. A config that fails to load is reported on stderr and replaced by
// the defaults.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
