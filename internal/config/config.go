// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/jeranaias/companion-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the backend address used when nothing else is set.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultNickname is how the user is introduced to characters.
	DefaultNickname = "사용자"

	// DefaultMinAge and DefaultMaxAge bound the directory's initial age filter.
	DefaultMinAge = 18
	DefaultMaxAge = 35

	// MaxAge is the largest age accepted anywhere in the client.
	MaxAge = 150

	// LegacyAPIURLEnv is honoured for parity with the web frontend's setting.
	LegacyAPIURLEnv = "NEXT_PUBLIC_API_URL"

	// HomeEnv overrides the configuration directory.
	HomeEnv = "COMPANION_HOME"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete companion configuration.
type Config struct {
	API      APIConfig      `toml:"api" json:"api"`
	Defaults DefaultsConfig `toml:"defaults" json:"defaults"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Logging  LoggingConfig  `toml:"logging" json:"logging"`
}

// APIConfig controls how the backend is reached.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://127.0.0.1:8000.
	BaseURL string `toml:"base_url" json:"base_url" env:"COMPANION_API_URL"`

	// TimeoutSecs bounds each request. 0 means no timeout.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" env:"COMPANION_API_TIMEOUT"`

	// MaxRequestsPerSecond throttles outgoing requests. 0 means unlimited.
	MaxRequestsPerSecond float64 `toml:"max_requests_per_second" json:"max_requests_per_second" env:"COMPANION_API_RPS"`
}

// DefaultsConfig seeds the local settings panel and directory filter.
type DefaultsConfig struct {
	Nickname string `toml:"nickname" json:"nickname" env:"COMPANION_NICKNAME"`
	SafeMode bool   `toml:"safe_mode" json:"safe_mode" env:"COMPANION_SAFE_MODE"`
	MinAge   int    `toml:"min_age" json:"min_age"`
	MaxAge   int    `toml:"max_age" json:"max_age"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is auto, dark or light.
	Theme          string `toml:"theme" json:"theme" env:"COMPANION_THEME"`
	ShowImagePanel bool   `toml:"show_image_panel" json:"show_image_panel"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level  string `toml:"level" json:"level" env:"COMPANION_LOG_LEVEL"`
	Format string `toml:"format" json:"format"`
	File   string `toml:"file" json:"file" env:"COMPANION_LOG_FILE"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Defaults: DefaultsConfig{
			Nickname: DefaultNickname,
			SafeMode: true,
			MinAge:   DefaultMinAge,
			MaxAge:   DefaultMaxAge,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowImagePanel: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
	cfg.SetDefaults()
	return cfg
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the companion configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".companion"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadFromPath loads configuration from path. A missing file is not an
// error; defaults and environment overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := LoadDotEnv(".env", filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnvOverrides(nil); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads each existing .env file into the process environment.
// Variables already set in the environment are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg to path atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# companion configuration file\n")
	buf.WriteString("# Generated by companion - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors if anything
// is out of range.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{"api.base_url", fmt.Sprintf("must be an http(s) URL, got %q", c.API.BaseURL)})
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{"api.timeout_secs", "must not be negative"})
	}
	if c.API.MaxRequestsPerSecond < 0 {
		errs = append(errs, ValidationError{"api.max_requests_per_second", "must not be negative"})
	}

	if c.Defaults.MinAge < 0 || c.Defaults.MinAge > MaxAge {
		errs = append(errs, ValidationError{"defaults.min_age", fmt.Sprintf("must be between 0 and %d", MaxAge)})
	}
	if c.Defaults.MaxAge < 0 || c.Defaults.MaxAge > MaxAge {
		errs = append(errs, ValidationError{"defaults.max_age", fmt.Sprintf("must be between 0 and %d", MaxAge)})
	}
	if c.Defaults.MinAge > c.Defaults.MaxAge {
		errs = append(errs, ValidationError{"defaults.min_age", "must not exceed defaults.max_age"})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("must be auto, dark or light, got %q", c.UI.Theme)})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{"logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{"logging.format", fmt.Sprintf("must be text or json, got %q", c.Logging.Format)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills empty fields and normalizes values.
func (c *Config) SetDefaults() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	c.Defaults.Nickname = strings.TrimSpace(c.Defaults.Nickname)
	if c.Defaults.Nickname == "" {
		c.Defaults.Nickname = DefaultNickname
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.File == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Logging.File = filepath.Join(dir, "companion.log")
		}
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides. environ replaces
// the process environment when non-nil (tests pass a map).
//
// Supported environment variables:
//   - COMPANION_API_URL (or NEXT_PUBLIC_API_URL): api.base_url
//   - COMPANION_API_TIMEOUT: api.timeout_secs
//   - COMPANION_API_RPS: api.max_requests_per_second
//   - COMPANION_NICKNAME: defaults.nickname
//   - COMPANION_SAFE_MODE: defaults.safe_mode
//   - COMPANION_THEME: ui.theme
//   - COMPANION_LOG_LEVEL, COMPANION_LOG_FILE: logging.level, logging.file
func (c *Config) ApplyEnvOverrides(environ map[string]string) error {
	opts := env.Options{}
	lookup := os.LookupEnv
	if environ != nil {
		opts.Environment = environ
		lookup = func(k string) (string, bool) {
			v, ok := environ[k]
			return v, ok
		}
	}

	// The specific variable wins over the legacy one.
	if legacy, ok := lookup(LegacyAPIURLEnv); ok && legacy != "" {
		c.API.BaseURL = legacy
	}

	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
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
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field
// equivalent ("base_url" -> "BaseUrl", matched case-insensitively).
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			switch strings.ToLower(strings.TrimSpace(strVal)) {
			case "1", "true", "yes", "on":
				field.SetBool(true)
			case "0", "false", "no", "off":
				field.SetBool(false)
			default:
				return fmt.Errorf("invalid boolean value: %q", strVal)
			}
			return nil
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
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// AllKeys returns every configuration key in dot notation, in struct order.
func AllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		prefix := tomlName(section)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, prefix+"."+tomlName(section.Type.Field(j)))
		}
	}
	return keys
}

func tomlName(f reflect.StructField) string {
	tag := f.Tag.Get("toml")
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return strings.ToLower(f.Name)
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns an indented JSON rendering of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
