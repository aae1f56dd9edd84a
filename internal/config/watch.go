// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// defaultDebounce coalesces editor write bursts (truncate + write + chmod)
// into a single reload.
const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the global configuration when the config file changes
// on disk. Editors replace files in different ways (in-place write,
// rename-over, remove-then-create), so the whole config directory is
// watched and events are filtered by name.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)

	mu      sync.Mutex
	dirty   bool
	lastHit time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher that calls onReload with the freshly
// loaded config after each change. onReload may be nil.
func NewWatcher(onReload func(*Config)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		watcher:  watcher,
		debounce: defaultDebounce,
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching the config directory for changes.
func (w *Watcher) Watch() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// processEvents marks the watcher dirty on relevant filesystem events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isConfigFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.dirty = true
				w.lastHit = time.Now()
				w.mu.Unlock()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal; keep watching
		}
	}
}

// processPending fires the reload once events settle past the debounce window.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			ready := w.dirty && time.Since(w.lastHit) >= w.debounce
			if ready {
				w.dirty = false
			}
			w.mu.Unlock()

			if !ready {
				continue
			}
			if err := ReloadGlobal(); err != nil {
				continue // keep the last good config on a bad edit
			}
			if w.onReload != nil {
				w.onReload(Global())
			}
		}
	}
}

// isConfigFile reports whether a watched path is one of the config files.
func isConfigFile(path string) bool {
	switch filepath.Base(path) {
	case "config.toml", "config.json":
		return true
	}
	return false
}
