// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat room's view model.
//
// A Session holds one character, the visible message list, the conversation
// id, the safe-mode flag and the loading flag. It decides what is shown and
// what is sent:
//
//   - user input is appended optimistically before the backend answers
//   - at most one send is in flight; further sends are rejected, not queued
//   - a failed send appends a fixed apology with the "sad" emotion
//   - the displayed image follows the emotion of the last assistant message
//
// # Usage
//
// Synchronous callers (the CLI REPL, tests):
//
//	sess, err := session.Load(ctx, client, 3, session.DefaultOptions())
//	out, err := sess.Send(ctx, "안녕")
//
// Event-loop callers split the send so the network call can run elsewhere:
//
//	p, err := sess.BeginSend(text)          // optimistic append, loading on
//	resp, err := sess.Deliver(ctx, p)       // in a tea.Cmd
//	out := sess.CompleteSend(p, resp, err)  // back in Update, loading off
package session
