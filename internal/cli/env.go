// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/config"
)

// Env is what every command runs against: output streams, the loaded
// configuration and a client for the configured backend.
type Env struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader

	Config     *config.Config
	ConfigPath string
	Client     *api.Client

	JSON    bool
	Quiet   bool
	Verbose bool
}

// NewEnv loads configuration and builds the client. --api-url overrides
// api.base_url for this run only.
func NewEnv(args Args) (*Env, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	env := EnvFor(cfg, args)
	env.ConfigPath = path
	return env, nil
}

// EnvFor builds an Env around an already loaded configuration writing to
// the process streams.
func EnvFor(cfg *config.Config, args Args) *Env {
	if url := strings.TrimSpace(args.APIURL); url != "" {
		cfg = cfg.Clone()
		cfg.API.BaseURL = url
	}
	return &Env{
		Out:     os.Stdout,
		Err:     os.Stderr,
		In:      os.Stdin,
		Config:  cfg,
		Client:  api.NewClient(api.ConfigFrom(cfg)),
		JSON:    args.JSON,
		Quiet:   args.Quiet,
		Verbose: args.Verbose,
	}
}
