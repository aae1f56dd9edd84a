// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for garagehub.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Garage backend connection settings
//   - HistoryConfig: Local archive settings
//   - ChatConfig: Chat and export behavior
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GARAGEHUB_*)
//   - ~/.garagehub/config.toml
//   - ~/.garagehub/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	baseURL := cfg.API.BaseURL
//	theme := cfg.UI.Theme
//
// Watch for edits while the app runs:
//
//	w, _ := config.NewWatcher(func(cfg *config.Config) {
//	    // push the new config into the UI
//	})
//	_ = w.Watch()
//	defer w.Close()
package config
