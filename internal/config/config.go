// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for garagehub.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.garagehub/config.toml
//   - ~/.garagehub/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete garagehub configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Backend API configuration
	API APIConfig `toml:"api" json:"api"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Local history archive configuration
	History HistoryConfig `toml:"history" json:"history"`

	// Chat configuration
	Chat ChatConfig `toml:"chat" json:"chat"`
}

// APIConfig contains garage backend connection configuration.
type APIConfig struct {
	// BaseURL is the URL of the garage backend, without the /api/v1 suffix
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the request timeout for non-streaming calls in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerSecond throttles outgoing requests (0 = unlimited)
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowConfidence displays the classifier confidence on complaint cards
	ShowConfidence bool `toml:"show_confidence" json:"show_confidence"`
	// ShowTimestamps displays message timestamps in the chat view
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// HistoryConfig contains the local archive configuration.
type HistoryConfig struct {
	// Enabled controls whether receipts and transcripts are archived locally
	Enabled bool `toml:"enabled" json:"enabled"`
	// DBPath is the path to the archive database (empty = ~/.garagehub/history.db)
	DBPath string `toml:"db_path" json:"db_path"`
	// MaxEntries caps the number of archived entries per kind (0 = default)
	MaxEntries int `toml:"max_entries" json:"max_entries"`
}

// ChatConfig contains chat behavior configuration.
type ChatConfig struct {
	// ExportDir is where transcript exports land (empty = ~/.garagehub/exports)
	ExportDir string `toml:"export_dir" json:"export_dir"`
	// ExportFormat is the default export format: "markdown", "html", "json"
	ExportFormat string `toml:"export_format" json:"export_format"`
	// PlainFallback drops to the line-mode REPL when stdout is not a terminal
	PlainFallback bool `toml:"plain_fallback" json:"plain_fallback"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:           "http://127.0.0.1:8000",
			TimeoutSecs:       30,
			RequestsPerSecond: 0, // unlimited
		},

		UI: UIConfig{
			Theme:          "dark",
			CompactMode:    false,
			ShowConfidence: true,
			ShowTimestamps: false,
		},

		History: HistoryConfig{
			Enabled:    true,
			DBPath:     "",
			MaxEntries: 500,
		},

		Chat: ChatConfig{
			ExportDir:     "",
			ExportFormat:  "markdown",
			PlainFallback: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the garagehub configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".garagehub"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// HistoryDBPath resolves the archive database location, honoring the
// history.db_path override.
func (c *Config) HistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// ExportDir resolves the transcript export directory, honoring the
// chat.export_dir override.
func (c *Config) ExportDir() (string, error) {
	if c.Chat.ExportDir != "" {
		return c.Chat.ExportDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "exports"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// A .env file in the working directory is read first, then TOML, then
// JSON, falling back to defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// finishLoad applies env overrides, defaults, and validation in order.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Write header comment
	fmt.Fprintln(file, "# garagehub configuration file")
	fmt.Fprintln(file, "# Generated by garagehub - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
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

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Validate backend URL
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("scheme must be http or https, got '%s'", u.Scheme),
			})
		}
	}

	// Validate request timeout
	if c.API.TimeoutSecs < 0 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 0-600 seconds, got %d", c.API.TimeoutSecs),
		})
	}

	// Validate throttle
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.requests_per_second",
			Message: "cannot be negative",
		})
	}

	// Validate UI theme
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Validate history cap
	if c.History.MaxEntries < 0 || c.History.MaxEntries > 100000 {
		errs = append(errs, ValidationError{
			Field:   "history.max_entries",
			Message: fmt.Sprintf("must be 0-100000, got %d", c.History.MaxEntries),
		})
	}

	// Validate export format
	if c.Chat.ExportFormat != "" {
		validFormats := map[string]bool{"markdown": true, "html": true, "json": true}
		if !validFormats[strings.ToLower(c.Chat.ExportFormat)] {
			errs = append(errs, ValidationError{
				Field:   "chat.export_format",
				Message: fmt.Sprintf("invalid format '%s', must be one of: markdown, html, json", c.Chat.ExportFormat),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}

	// UI defaults
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	// History defaults
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}

	// Chat defaults
	if c.Chat.ExportFormat == "" {
		c.Chat.ExportFormat = defaults.Chat.ExportFormat
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GARAGEHUB_API_URL: overrides api.base_url
//   - GARAGEHUB_TIMEOUT_SECS: overrides api.timeout_secs
//   - GARAGEHUB_THEME: overrides ui.theme
//   - GARAGEHUB_COMPACT: set to "1" or "true" for compact layout
//   - GARAGEHUB_NO_HISTORY: set to "1" or "true" to disable the local archive
//   - GARAGEHUB_HISTORY_DB: overrides history.db_path
//   - GARAGEHUB_EXPORT_DIR: overrides chat.export_dir
func (c *Config) ApplyEnvOverrides() {
	if apiURL := os.Getenv("GARAGEHUB_API_URL"); apiURL != "" {
		c.API.BaseURL = apiURL
	}

	if timeout := os.Getenv("GARAGEHUB_TIMEOUT_SECS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.API.TimeoutSecs = secs
		}
	}

	if theme := os.Getenv("GARAGEHUB_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if compact := os.Getenv("GARAGEHUB_COMPACT"); compact != "" {
		c.UI.CompactMode = compact == "1" || strings.ToLower(compact) == "true"
	}

	if noHistory := os.Getenv("GARAGEHUB_NO_HISTORY"); noHistory != "" {
		if noHistory == "1" || strings.ToLower(noHistory) == "true" {
			c.History.Enabled = false
		}
	}

	if dbPath := os.Getenv("GARAGEHUB_HISTORY_DB"); dbPath != "" {
		c.History.DBPath = dbPath
	}

	if exportDir := os.Getenv("GARAGEHUB_EXPORT_DIR"); exportDir != "" {
		c.Chat.ExportDir = exportDir
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, return the value
		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		// Otherwise, navigate into the struct
		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, set the value
		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		// Otherwise, navigate into the struct
		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
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
	// Handle string input with type conversion
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
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	// Direct assignment for matching types
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// Type conversion for compatible types
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.timeout_secs",
		"api.requests_per_second",
		"ui.theme",
		"ui.compact_mode",
		"ui.show_confidence",
		"ui.show_timestamps",
		"history.enabled",
		"history.db_path",
		"history.max_entries",
		"chat.export_dir",
		"chat.export_format",
		"chat.plain_fallback",
	}
}

// Clone creates a copy of the configuration. All fields are value types,
// so a struct copy is a full copy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
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

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
