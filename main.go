// companion - a terminal client for companion chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/companion-tui/internal/cli"
	"github.com/jeranaias/companion-tui/internal/config"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/settings"
	"github.com/jeranaias/companion-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		cli.HandleErrorAndExit(err, false)
	}

	if args.Command == cli.CmdHelp {
		topic := ""
		if len(args.Rest) > 0 {
			topic = args.Rest[0]
		}
		cli.PrintUsage(os.Stdout, topic)
		return
	}

	env, err := cli.NewEnv(args)
	if err != nil {
		cli.HandleErrorAndExit(err, args.JSON)
	}

	closer, err := setupLogging(env.Config, args)
	if err != nil {
		cli.HandleErrorAndExit(&cli.ConfigError{Err: err}, args.JSON)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args.Command {
	case cli.CmdTUI:
		err = runTUI(ctx, env, args.Rest)
	case cli.CmdChat:
		err = cli.RunChat(ctx, env, args.Rest)
	case cli.CmdCharacters:
		err = cli.RunCharacters(ctx, env, args.Rest)
	case cli.CmdUpload:
		err = cli.RunUpload(ctx, env, args.Rest)
	case cli.CmdHistory:
		err = cli.RunHistory(ctx, env, args.Rest)
	case cli.CmdStatus:
		err = cli.RunStatus(ctx, env, args.Rest)
	case cli.CmdConfig:
		err = cli.RunConfig(env, args.Rest)
	case cli.CmdVersion:
		err = cli.RunVersion(env)
	}

	if err != nil {
		stop()
		closer.Close()
		cli.HandleErrorAndExit(err, args.JSON)
	}
}

// setupLogging installs the process logger. The full-screen client owns the
// terminal, so without a configured file it logs to companion.log in the
// config directory. Line-mode commands log warnings to stderr unless -v.
func setupLogging(cfg *config.Config, args cli.Args) (io.Closer, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}
	switch {
	case args.Command == cli.CmdTUI && opts.File == "":
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		opts.File = filepath.Join(dir, "companion.log")
	case opts.File == "" && !args.Verbose:
		opts.Level = "warn"
	}
	if args.Verbose {
		opts.Level = "debug"
	}
	return logging.Setup(opts)
}

// runTUI starts the full-screen client.
func runTUI(ctx context.Context, env *cli.Env, argv []string) error {
	flags := cli.NewArgParser(argv)
	characterID, err := flags.FlagID("character")
	if err != nil {
		return err
	}
	conversationID, err := flags.FlagID("conversation")
	if err != nil {
		return err
	}
	if conversationID != 0 && characterID == 0 {
		return cli.ErrMissingArgument("character", "companion tui --character 1 --conversation 7")
	}

	var reloads <-chan config.Reload
	if _, statErr := os.Stat(env.ConfigPath); statErr == nil {
		ch, err := config.Watch(ctx, env.ConfigPath)
		if err != nil {
			logging.L().WithError(err).Warn("config watch unavailable, hot reload disabled")
		} else {
			reloads = ch
		}
	}

	m := app.New(ctx, app.Options{
		Backend:           env.Client,
		Config:            env.Config,
		Settings:          settings.FromConfig(env.Config),
		StartCharacter:    characterID,
		StartConversation: conversationID,
		Reloads:           reloads,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(m.Context()),
	)
	logging.L().WithField("base_url", env.Client.BaseURL()).Info("starting full-screen client")
	if _, err := p.Run(); err != nil && m.Context().Err() == nil {
		return fmt.Errorf("error running companion: %w", err)
	}
	return nil
}
