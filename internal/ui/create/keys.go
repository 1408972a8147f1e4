// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package create

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the form bindings.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Submit key.Binding
	Upload key.Binding
	Back   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "다음")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "이전")),
		Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "선택")),
		Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "선택")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "다음")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "만들기")),
		Upload: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "업로드")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "취소")),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Right, k.Upload, k.Submit, k.Back}
}
