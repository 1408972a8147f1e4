// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/companion-tui/internal/logging"
)

// =============================================================================
// FILE WATCHER
// =============================================================================

// DefaultWatchDebounce collapses the burst of events editors produce on save.
const DefaultWatchDebounce = 200 * time.Millisecond

// Reload is delivered after the config file changes on disk.
// Err is set when the new file does not parse or validate; Config is nil then.
type Reload struct {
	Config *Config
	Err    error
}

// Watch reloads path whenever it changes and sends the result on the returned
// channel. The directory is watched rather than the file so that editors that
// replace the file by rename are handled. The channel closes when ctx ends.
func Watch(ctx context.Context, path string) (<-chan Reload, error) {
	return WatchWithDebounce(ctx, path, DefaultWatchDebounce)
}

// WatchWithDebounce is Watch with an explicit debounce interval.
func WatchWithDebounce(ctx context.Context, path string, debounce time.Duration) (<-chan Reload, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan Reload, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		log := logging.L().WithField("path", path)
		target := filepath.Clean(path)

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("config watcher error")

			case <-fire:
				fire = nil
				cfg, err := LoadFromPath(path)
				if err != nil {
					log.WithError(err).Warn("config reload failed")
				} else {
					log.Info("config reloaded")
				}
				select {
				case out <- Reload{Config: cfg, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
