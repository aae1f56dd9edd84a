// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Small shared helpers for the command handlers.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/config"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// commandTimeout caps non-streaming backend calls made from the CLI.
const commandTimeout = 30 * time.Second

// commandContext returns the context used for one-shot CLI calls.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// loadConfig loads configuration, honoring --config and --api.
func loadConfig(args *Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if args.API != "" {
		cfg.API.BaseURL = args.API
	}
	return cfg, nil
}

// newClient builds an API client from loaded configuration.
func newClient(cfg *config.Config) *api.Client {
	clientCfg := api.DefaultConfig()
	clientCfg.BaseURL = cfg.API.BaseURL
	if cfg.API.TimeoutSecs > 0 {
		clientCfg.Timeout = time.Duration(cfg.API.TimeoutSecs) * time.Second
	}
	clientCfg.RequestsPerSecond = cfg.API.RequestsPerSecond
	return api.NewClientWithConfig(clientCfg)
}

// openArchive opens the local archive, or returns nil when history is
// disabled. A broken archive degrades to nil with a stderr note; the
// backend operations still work without it.
func openArchive(cfg *config.Config, quiet bool) *storage.Archive {
	if !cfg.History.Enabled {
		return nil
	}
	path, err := cfg.HistoryDBPath()
	if err != nil {
		return nil
	}
	archive, err := storage.Open(path)
	if err != nil {
		if !quiet {
			StderrPrintln(DimStyle.Render("local archive unavailable: " + err.Error()))
		}
		return nil
	}
	return archive
}

// openArchiveAt opens the archive at an explicit path, for diagnosis.
func openArchiveAt(path string) (*storage.Archive, error) {
	return storage.Open(path)
}

// requireArchive opens the archive or fails with guidance; the history
// command is useless without one.
func requireArchive(cfg *config.Config) (*storage.Archive, error) {
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("local history is disabled (set history.enabled = true)")
	}
	path, err := cfg.HistoryDBPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// formatDuration renders a duration in the largest sensible unit.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// promptInput reads one trimmed line from stdin.
func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
