// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/creation"
)

// =============================================================================
// PARSE ARGS
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		wantRest []string
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args runs the tui",
			argv:    nil,
			wantCmd: CmdTUI,
		},
		{
			name:     "leading flag goes to the tui",
			argv:     []string{"--character", "2"},
			wantCmd:  CmdTUI,
			wantRest: []string{"--character", "2"},
		},
		{
			name:     "global flags anywhere",
			argv:     []string{"characters", "--json", "list", "-q"},
			wantCmd:  CmdCharacters,
			wantRest: []string{"list"},
			validate: func(t *testing.T, a Args) {
				if !a.JSON || !a.Quiet {
					t.Errorf("JSON=%v Quiet=%v, want both true", a.JSON, a.Quiet)
				}
			},
		},
		{
			name:     "api url with space",
			argv:     []string{"chat", "3", "--api-url", "http://10.0.0.2:8000"},
			wantCmd:  CmdChat,
			wantRest: []string{"3"},
			validate: func(t *testing.T, a Args) {
				if a.APIURL != "http://10.0.0.2:8000" {
					t.Errorf("APIURL = %q", a.APIURL)
				}
			},
		},
		{
			name:    "api url with equals",
			argv:    []string{"--api-url=http://example.test", "status"},
			wantCmd: CmdStatus,
			validate: func(t *testing.T, a Args) {
				if a.APIURL != "http://example.test" {
					t.Errorf("APIURL = %q", a.APIURL)
				}
			},
		},
		{
			name:    "alias",
			argv:    []string{"chars"},
			wantCmd: CmdCharacters,
		},
		{
			name:     "help on a command",
			argv:     []string{"chat", "--help"},
			wantCmd:  CmdHelp,
			wantRest: []string{"chat"},
		},
		{
			name:    "bare help flag",
			argv:    []string{"-h"},
			wantCmd: CmdHelp,
		},
		{
			name:    "version flag wins",
			argv:    []string{"history", "--version"},
			wantCmd: CmdVersion,
		},
		{
			name:    "verbose",
			argv:    []string{"-v", "history"},
			wantCmd: CmdHistory,
			validate: func(t *testing.T, a Args) {
				if !a.Verbose {
					t.Error("Verbose should be true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.argv)
			if err != nil {
				t.Fatalf("ParseArgs(%v) error: %v", tt.argv, err)
			}
			if got.Command != tt.wantCmd {
				t.Errorf("Command = %v, want %v", got.Command, tt.wantCmd)
			}
			if len(got.Rest) != 0 || len(tt.wantRest) != 0 {
				if !reflect.DeepEqual(got.Rest, tt.wantRest) {
					t.Errorf("Rest = %v, want %v", got.Rest, tt.wantRest)
				}
			}
			if tt.validate != nil {
				tt.validate(t, got)
			}
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	if _, err := ParseArgs([]string{"bogus"}); GetExitCode(err) != ExitUsageError {
		t.Errorf("unknown command: exit code %d, want %d (err %v)", GetExitCode(err), ExitUsageError, err)
	}
	if _, err := ParseArgs([]string{"status", "--api-url"}); GetExitCode(err) != ExitUsageError {
		t.Errorf("dangling --api-url: exit code %d, want %d (err %v)", GetExitCode(err), ExitUsageError, err)
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		bools    []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"list"},
			wantSub: "list",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"list", "--gender", "여성"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("gender") != "여성" {
					t.Errorf("Flag(gender) = %q, want %q", p.Flag("gender"), "여성")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"list", "--min-age=20"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("min-age") != "20" {
					t.Errorf("Flag(min-age) = %q, want %q", p.Flag("min-age"), "20")
				}
			},
		},
		{
			name:    "trailing flag is boolean",
			args:    []string{"show", "--verbose"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("verbose") {
					t.Error("BoolFlag(verbose) should be true")
				}
			},
		},
		{
			name:    "declared bool never takes a value",
			args:    []string{"--unsafe", "3"},
			bools:   []string{"unsafe"},
			wantSub: "3",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("unsafe") {
					t.Error("BoolFlag(unsafe) should be true")
				}
				if p.Flag("unsafe") != "" {
					t.Errorf("Flag(unsafe) = %q, want empty", p.Flag("unsafe"))
				}
			},
		},
		{
			name:    "declared bool with explicit value",
			args:    []string{"3", "--unsafe=false"},
			bools:   []string{"unsafe"},
			wantSub: "3",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("unsafe") {
					t.Error("BoolFlag(unsafe) should be false")
				}
				if !p.HasFlag("unsafe") {
					t.Error("HasFlag(unsafe) should be true")
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"set", "--", "--weird"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(1) != "--weird" {
					t.Errorf("Positional(1) = %q, want --weird", p.Positional(1))
				}
			},
		},
		{
			name:    "no args",
			args:    []string{},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 0 || len(p.PositionalFrom(1)) != 0 {
					t.Error("expected no positionals")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, tt.bools...)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_FlagInt(t *testing.T) {
	p := NewArgParser([]string{"--min-age", "20", "--max-age", "abc"})

	if n, err := p.FlagInt("min-age", 0); err != nil || n != 20 {
		t.Errorf("FlagInt(min-age) = %d, %v; want 20, nil", n, err)
	}
	if n, err := p.FlagInt("missing", 7); err != nil || n != 7 {
		t.Errorf("FlagInt(missing) = %d, %v; want 7, nil", n, err)
	}
	if _, err := p.FlagInt("max-age", 0); GetExitCode(err) != ExitUsageError {
		t.Errorf("FlagInt(max-age) error %v should be a usage error", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in, "character-id")
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v; want %d, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", "on"} {
		if v, err := ParseBoolString(s); err != nil || !v {
			t.Errorf("ParseBoolString(%q) = %v, %v; want true", s, v, err)
		}
	}
	for _, s := range []string{"false", "No", "n", "0", "off"} {
		if v, err := ParseBoolString(s); err != nil || v {
			t.Errorf("ParseBoolString(%q) = %v, %v; want false", s, v, err)
		}
	}
	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("ParseBoolString(maybe) should fail")
	}
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"validation", NewValidationError("age", "x", "bad"), ExitUsageError},
		{"form validation", &creation.ValidationError{Field: "name", Message: "이름을 입력해주세요"}, ExitUsageError},
		{"config", &ConfigError{Err: errors.New("bad toml")}, ExitConfigError},
		{"not found", &api.Error{Kind: api.KindNotFound, Status: 404, Message: api.MsgCharacterNotFound}, ExitNotFoundError},
		{"wrapped not found", fmt.Errorf("show: %w", &api.Error{Kind: api.KindNotFound}), ExitNotFoundError},
		{"network", &api.Error{Kind: api.KindNetwork, Message: api.MsgNetwork}, ExitNetworkError},
		{"deadline", &api.Error{Kind: api.KindCanceled, Message: api.MsgCanceled, Cause: context.DeadlineExceeded}, ExitTimeoutError},
		{"upstream", &api.Error{Kind: api.KindUpstream, Status: 500}, ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	for name, cmd := range commandNames {
		if name == "chars" {
			continue
		}
		if cmd.String() != name {
			t.Errorf("%v.String() = %q, want %q", cmd, cmd.String(), name)
		}
	}
}
