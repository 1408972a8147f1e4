// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the directory bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Open     key.Binding
	Close    key.Binding
	Search   key.Binding
	Gender   key.Binding
	MinDown  key.Binding
	MinUp    key.Binding
	MaxDown  key.Binding
	MaxUp    key.Binding
	Reset    key.Binding
	Create   key.Binding
	History  key.Binding
	Settings key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "위")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "아래")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "왼쪽")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "오른쪽")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "프로필")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "닫기")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "검색")),
		Gender:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "성별")),
		MinDown:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "최소 나이-")),
		MinUp:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "최소 나이+")),
		MaxDown:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "최대 나이-")),
		MaxUp:    key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "최대 나이+")),
		Reset:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "필터 초기화")),
		Create:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "만들기")),
		History:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "기록")),
		Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "설정")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "새로고침")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "종료")),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.Gender, k.Create, k.History, k.Settings, k.Quit}
}
