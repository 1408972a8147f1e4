// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/session"
)

// LoadedMsg carries the result of loading the character and history.
type LoadedMsg struct {
	Session *session.Session
	Err     error

	screen uint64
}

// ReplyMsg carries the backend's answer to a pending send.
type ReplyMsg struct {
	Pending  *session.PendingSend
	Response *api.ChatResponse
	Err      error

	screen uint64
}

// clearStatusMsg clears a transient status line set at generation gen.
type clearStatusMsg struct {
	gen int
}
