// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for companion.
//
// # Key Types
//
//   - Config: main configuration structure
//   - APIConfig: backend base URL, request timeout, client-side rate limit
//   - DefaultsConfig: nickname, safe-mode default and directory age range
//   - UIConfig, LoggingConfig: presentation and log output
//
// # Configuration Precedence
//
// Configuration is loaded from (later wins):
//   - Built-in defaults
//   - ~/.companion/config.toml (COMPANION_HOME overrides the directory)
//   - .env in the working directory and in the config directory
//   - Environment variables (COMPANION_*, plus NEXT_PUBLIC_API_URL)
//
// # Usage
//
//	path, _ := config.ConfigPath()
//	cfg, err := config.LoadFromPath(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClient(api.ConfigFrom(cfg))
//
// Watch for edits while the TUI runs:
//
//	reloads, err := config.Watch(ctx, path)
package config
