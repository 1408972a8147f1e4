// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav defines the messages screens use to ask the root model to
// switch screens.
package nav

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/companion-tui/internal/model"
)

// Screen identifies a top-level screen.
type Screen int

const (
	ScreenDirectory Screen = iota
	ScreenChat
	ScreenCreate
	ScreenSettings
	ScreenHistory
)

// String returns the screen's Korean title.
func (s Screen) String() string {
	switch s {
	case ScreenChat:
		return "채팅"
	case ScreenCreate:
		return "캐릭터 만들기"
	case ScreenSettings:
		return "설정"
	case ScreenHistory:
		return "대화 기록"
	default:
		return "캐릭터 목록"
	}
}

// GoMsg switches to a screen that needs no arguments.
type GoMsg struct {
	To Screen
}

// OpenChatMsg starts a chat session. ConversationID 0 starts a new
// conversation.
type OpenChatMsg struct {
	CharacterID    int64
	ConversationID int64
}

// Go returns a command that emits GoMsg.
func Go(to Screen) tea.Cmd {
	return func() tea.Msg { return GoMsg{To: to} }
}

// OpenChat returns a command that emits OpenChatMsg.
func OpenChat(characterID, conversationID int64) tea.Cmd {
	return func() tea.Msg {
		return OpenChatMsg{CharacterID: characterID, ConversationID: conversationID}
	}
}

// CreatedMsg announces a newly created character so the roster can refresh.
type CreatedMsg struct {
	Character model.Character
}

// Created returns a command that emits CreatedMsg.
func Created(c model.Character) tea.Cmd {
	return func() tea.Msg { return CreatedMsg{Character: c} }
}
