// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the chat screen bindings.
type KeyMap struct {
	Submit     key.Binding
	Back       key.Binding
	SafeMode   key.Binding
	CopyReply  key.Binding
	CopyImage  key.Binding
	ImagePanel key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Retry      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "전송"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "목록"),
		),
		SafeMode: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("^s", "세이프 모드"),
		),
		CopyReply: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("^y", "답장 복사"),
		),
		CopyImage: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("^o", "이미지 복사"),
		),
		ImagePanel: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("^p", "이미지 패널"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "위로"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "아래로"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "다시 시도"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SafeMode, k.CopyReply, k.ImagePanel, k.Back}
}
