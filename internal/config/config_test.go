// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Version == "" {
		t.Error("Default config should have a version")
	}

	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Expected default backend URL, got '%s'", cfg.API.BaseURL)
	}

	if cfg.API.TimeoutSecs == 0 {
		t.Error("Default config should have a request timeout")
	}

	if !cfg.History.Enabled {
		t.Error("History should be enabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			config:  Default(),
			wantErr: false,
		},
		{
			name: "invalid theme",
			config: func() *Config {
				c := Default()
				c.UI.Theme = "invalid"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "invalid URL scheme",
			config: func() *Config {
				c := Default()
				c.API.BaseURL = "ftp://garage.example.com"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "negative timeout",
			config: func() *Config {
				c := Default()
				c.API.TimeoutSecs = -5
				return c
			}(),
			wantErr: true,
		},
		{
			name: "timeout above maximum",
			config: func() *Config {
				c := Default()
				c.API.TimeoutSecs = 601
				return c
			}(),
			wantErr: true,
		},
		{
			name: "negative throttle",
			config: func() *Config {
				c := Default()
				c.API.RequestsPerSecond = -1
				return c
			}(),
			wantErr: true,
		},
		{
			name: "invalid export format",
			config: func() *Config {
				c := Default()
				c.Chat.ExportFormat = "pdf"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "history cap above maximum",
			config: func() *Config {
				c := Default()
				c.History.MaxEntries = 100001
				return c
			}(),
			wantErr: true,
		},
		{
			name: "https URL accepted",
			config: func() *Config {
				c := Default()
				c.API.BaseURL = "https://garage.example.com"
				return c
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_SetDefaults tests zero-value backfill.
func TestConfig_SetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.API.BaseURL == "" {
		t.Error("SetDefaults should fill api.base_url")
	}
	if cfg.API.TimeoutSecs == 0 {
		t.Error("SetDefaults should fill api.timeout_secs")
	}
	if cfg.UI.Theme == "" {
		t.Error("SetDefaults should fill ui.theme")
	}
	if cfg.History.MaxEntries == 0 {
		t.Error("SetDefaults should fill history.max_entries")
	}
	if cfg.Chat.ExportFormat == "" {
		t.Error("SetDefaults should fill chat.export_format")
	}
}

// TestConfig_ApplyEnvOverrides tests GARAGEHUB_* environment overrides.
func TestConfig_ApplyEnvOverrides(t *testing.T) {
	t.Setenv("GARAGEHUB_API_URL", "http://garage.internal:9000")
	t.Setenv("GARAGEHUB_THEME", "light")
	t.Setenv("GARAGEHUB_TIMEOUT_SECS", "45")
	t.Setenv("GARAGEHUB_NO_HISTORY", "1")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://garage.internal:9000" {
		t.Errorf("api.base_url = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("ui.theme = %q, want 'light'", cfg.UI.Theme)
	}
	if cfg.API.TimeoutSecs != 45 {
		t.Errorf("api.timeout_secs = %d, want 45", cfg.API.TimeoutSecs)
	}
	if cfg.History.Enabled {
		t.Error("GARAGEHUB_NO_HISTORY=1 should disable the archive")
	}
}

// TestConfig_LoadFromPath tests loading a TOML file from an explicit path.
func TestConfig_LoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
version = "test"

[api]
base_url = "http://localhost:8123"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8123" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("ui.theme = %q", cfg.UI.Theme)
	}
	// Unset fields come from defaults
	if cfg.API.TimeoutSecs != Default().API.TimeoutSecs {
		t.Errorf("api.timeout_secs = %d, want default", cfg.API.TimeoutSecs)
	}
}

// TestConfig_SaveAndReload round-trips a config through SaveTOML.
func TestConfig_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir) // keep the real ~/.garagehub untouched

	cfg := Default()
	cfg.UI.Theme = "light"
	cfg.API.TimeoutSecs = 42

	path := filepath.Join(dir, "config.toml")
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("ui.theme = %q after round trip", loaded.UI.Theme)
	}
	if loaded.API.TimeoutSecs != 42 {
		t.Errorf("api.timeout_secs = %d after round trip", loaded.API.TimeoutSecs)
	}
}

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	// Test Get
	val, err := cfg.Get("ui.theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "dark" {
		t.Errorf("Get('ui.theme') = %v, want 'dark'", val)
	}

	// Test Set with string conversion
	err = cfg.Set("api.timeout_secs", "60")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, _ = cfg.Get("api.timeout_secs")
	if val != 60 {
		t.Errorf("Get('api.timeout_secs') after Set = %v, want 60", val)
	}

	// Test Set bool
	err = cfg.Set("history.enabled", "false")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, _ = cfg.Get("history.enabled")
	if val != false {
		t.Errorf("Get('history.enabled') after Set = %v, want false", val)
	}

	// Test Get with invalid key
	_, err = cfg.Get("invalid.key")
	if err == nil {
		t.Error("Get() with invalid key should return error")
	}
}

// TestConfig_GetAllKeysResolvable ensures every advertised key resolves.
func TestConfig_GetAllKeysResolvable(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) failed: %v", key, err)
		}
	}
}

// TestConfig_Clone tests that Clone creates an independent copy.
func TestConfig_Clone(t *testing.T) {
	original := Default()
	original.Version = "original"

	clone := original.Clone()
	clone.Version = "cloned"

	if original.Version != "original" {
		t.Error("Clone should create an independent copy")
	}
	if clone.Version != "cloned" {
		t.Error("Clone version should be modified")
	}
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and ReloadGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Version = "test"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if cfg := Global(); cfg == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	ResetGlobalForTesting()

	_ = Global()

	customCfg := Default()
	customCfg.Version = "custom-version"
	SetGlobal(customCfg)

	result := Global()
	if result.Version != "custom-version" {
		t.Errorf("Expected version 'custom-version', got '%s'", result.Version)
	}
}

// TestHistoryDBPath tests archive path resolution.
func TestHistoryDBPath(t *testing.T) {
	cfg := Default()

	cfg.History.DBPath = "/tmp/custom.db"
	path, err := cfg.HistoryDBPath()
	if err != nil {
		t.Fatalf("HistoryDBPath failed: %v", err)
	}
	if path != "/tmp/custom.db" {
		t.Errorf("HistoryDBPath = %q, want override", path)
	}

	cfg.History.DBPath = ""
	path, err = cfg.HistoryDBPath()
	if err != nil {
		t.Fatalf("HistoryDBPath failed: %v", err)
	}
	if filepath.Base(path) != "history.db" {
		t.Errorf("HistoryDBPath = %q, want default history.db", path)
	}
}
