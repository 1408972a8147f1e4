// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive commands
// of the companion client.
//
// # Usage
//
//	args, err := cli.ParseArgs(os.Args[1:])
//	if err != nil {
//	    cli.HandleErrorAndExit(err, false)
//	}
//	switch args.Command {
//	case cli.CmdChat:
//	    err = cli.RunChat(ctx, env, args.Rest)
//	// ... other commands
//	}
//
// # Commands
//
//   - tui: full-screen client (default)
//   - chat: line-mode chat with one character
//   - characters: list, show and create characters
//   - upload: upload an image and print its reference
//   - history: list past conversations
//   - status: backend and model health
//   - config: show, get and set configuration values
//
// Commands that print data accept the global --json flag.
package cli
