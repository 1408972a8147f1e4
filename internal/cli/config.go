// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/companion-tui/internal/config"
)

// RunConfig dispatches "config show|get|set|path|keys".
func RunConfig(env *Env, argv []string) error {
	args := NewArgParser(argv)
	switch args.Subcommand() {
	case "", "show":
		return configShow(env)
	case "get":
		return configGet(env, args.Positional(1))
	case "set":
		return configSet(env, args.Positional(1), strings.Join(args.PositionalFrom(2), " "))
	case "path":
		return configPath(env)
	case "keys":
		return configKeys(env)
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand(),
			Reason:  "unknown config subcommand",
			Example: "companion config set defaults.nickname 별",
		}
	}
}

// configKey normalizes a dotted key such as "API.Base_URL".
func configKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func configShow(env *Env) error {
	if env.JSON {
		return NewJSONResponse("config show", env.Config).Print(env.Out)
	}
	fmt.Fprintln(env.Out, TitleStyle.Render("설정"))
	fmt.Fprintln(env.Out, RenderSeparator(40))
	for _, key := range config.AllKeys() {
		val, err := env.Config.Get(key)
		if err != nil {
			continue
		}
		fmt.Fprintf(env.Out, "%s %v\n", RenderLabel(key, 30), val)
	}
	if !env.Quiet && env.ConfigPath != "" {
		fmt.Fprintln(env.Out, DimStyle.Render("파일: "+env.ConfigPath))
	}
	return nil
}

func configGet(env *Env, key string) error {
	key = configKey(key)
	if key == "" {
		return ErrMissingArgument("key", "companion config get api.base_url")
	}
	val, err := env.Config.Get(key)
	if err != nil {
		return NewValidationError("key", key, err.Error())
	}
	if env.JSON {
		return NewJSONResponse("config get", map[string]interface{}{"key": key, "value": val}).Print(env.Out)
	}
	fmt.Fprintln(env.Out, val)
	return nil
}

// configSet changes one value in the config file, validates the result and
// writes it back as TOML. A running full-screen client picks the change up
// through its watcher.
func configSet(env *Env, key, value string) error {
	key = configKey(key)
	if key == "" {
		return ErrMissingArgument("key", "companion config set defaults.nickname 별")
	}
	if env.ConfigPath == "" {
		path, err := config.ConfigPath()
		if err != nil {
			return &ConfigError{Err: err}
		}
		env.ConfigPath = path
	}

	// Start from the file so a one-off --api-url is not written back.
	cfg, err := config.LoadFromPath(env.ConfigPath)
	if err != nil {
		return &ConfigError{Err: err}
	}
	if err := cfg.Set(key, value); err != nil {
		return NewValidationError(key, value, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, env.ConfigPath); err != nil {
		return &ConfigError{Err: err}
	}
	_ = env.Config.Set(key, value)

	if env.JSON {
		return NewJSONResponse("config set", map[string]interface{}{"key": key, "value": value}).Print(env.Out)
	}
	fmt.Fprintf(env.Out, "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	return nil
}

func configPath(env *Env) error {
	path := env.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return &ConfigError{Err: err}
		}
		path = p
	}
	_, err := os.Stat(path)
	exists := err == nil

	if env.JSON {
		return NewJSONResponse("config path", map[string]interface{}{"path": path, "exists": exists}).Print(env.Out)
	}
	fmt.Fprintln(env.Out, path)
	if !exists && !env.Quiet {
		fmt.Fprintln(env.Out, DimStyle.Render("(아직 없음, 기본값 사용 중)"))
	}
	return nil
}

func configKeys(env *Env) error {
	keys := config.AllKeys()
	if env.JSON {
		return NewJSONResponse("config keys", keys).Print(env.Out)
	}
	for _, k := range keys {
		fmt.Fprintln(env.Out, k)
	}
	return nil
}
