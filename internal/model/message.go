// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// FallbackReply is the assistant line shown when a chat request fails.
const FallbackReply = "죄송해요, 지금 대화를 처리할 수 없어요. 잠시 후 다시 시도해주세요."

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "나"
	case RoleAssistant:
		return "캐릭터"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat line. Messages are append-only within a session
// and never modified after creation.
type Message struct {
	ID        MessageID  `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	IsAction  bool       `json:"is_action"`
	Emotion   Emotion    `json:"emotion,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
}

// NewUserMessage creates an optimistic user message with a local id.
// content is expected to be trimmed already.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewLocalID(),
		Role:      RoleUser,
		Content:   content,
		IsAction:  IsActionText(content),
		CreatedAt: NewTimestamp(time.Now()),
	}
}

// NewAssistantMessage creates an assistant message from a chat reply.
func NewAssistantMessage(content string, emotion Emotion, isAction bool) Message {
	return Message{
		ID:        NewLocalID(),
		Role:      RoleAssistant,
		Content:   content,
		IsAction:  isAction,
		Emotion:   emotion,
		CreatedAt: NewTimestamp(time.Now()),
	}
}

// NewFallbackMessage creates the apology shown after a failed send.
func NewFallbackMessage() Message {
	return NewAssistantMessage(FallbackReply, EmotionSad, false)
}

// RendersAsAction reports whether the message should be rendered as an action
// (italic narration): either flagged by the backend or shaped like "*...*".
func (m Message) RendersAsAction() bool {
	return m.IsAction || IsActionText(m.Content)
}

// IsActionText reports whether text, after trimming, is wrapped in asterisks
// ("*waves*"). A lone "*" is not an action.
func IsActionText(text string) bool {
	t := strings.TrimSpace(text)
	return len(t) > 1 && strings.HasPrefix(t, "*") && strings.HasSuffix(t, "*")
}

// ActionBody strips the surrounding asterisks from an action line.
func ActionBody(text string) string {
	t := strings.TrimSpace(text)
	if !IsActionText(t) {
		return t
	}
	return strings.TrimSpace(t[1 : len(t)-1])
}
