// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one chat message.
type MessageBubble struct {
	Message       model.Message
	SpeakerName   string // character name for assistant lines
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// View renders the bubble. Action messages render as italic narration
// without a bubble border.
func (b *MessageBubble) View() string {
	if b.Message.RendersAsAction() {
		return b.renderAction()
	}
	if b.Message.Role == model.RoleUser {
		return b.renderUser()
	}
	return b.renderAssistant()
}

func (b *MessageBubble) contentWidth() int {
	return maxInt(b.Width-12, 16)
}

func (b *MessageBubble) renderAction() string {
	body := wordWrap(model.ActionBody(b.Message.Content), b.contentWidth())
	line := b.theme.ActionText.Render("* " + body + " *")
	if b.Message.Role == model.RoleUser {
		return lipgloss.NewStyle().Width(b.Width).Align(lipgloss.Right).Render(line)
	}
	return line
}

func (b *MessageBubble) renderUser() string {
	content := wordWrap(b.Message.Content, b.contentWidth())
	bubble := b.theme.UserBubble.
		Width(minInt(maxLineWidth(content)+2, b.Width-4)).
		Render(content)

	header := b.header(model.RoleUser.DisplayName(), "")
	right := lipgloss.NewStyle().Width(b.Width).Align(lipgloss.Right)
	return lipgloss.JoinVertical(lipgloss.Right, right.Render(header), right.Render(bubble))
}

func (b *MessageBubble) renderAssistant() string {
	content := wordWrap(b.Message.Content, b.contentWidth())
	bubble := b.theme.AssistantBubble.
		Width(minInt(maxLineWidth(content)+2, b.Width-4)).
		Render(content)

	name := b.SpeakerName
	if name == "" {
		name = model.RoleAssistant.DisplayName()
	}
	badge := ""
	if e := b.Message.Emotion; e.IsKnown() {
		badge = b.theme.EmotionBadge(e.DisplayName(), styles.EmotionColor(e))
	}
	return lipgloss.JoinVertical(lipgloss.Left, b.header(name, badge), bubble)
}

func (b *MessageBubble) header(name, badge string) string {
	parts := []string{b.theme.SpeakerName.Render(name)}
	if badge != "" {
		parts = append(parts, badge)
	}
	if b.ShowTimestamp && b.Message.CreatedAt != nil {
		parts = append(parts, b.theme.Timestamp.Render(FormatClock(b.Message.CreatedAt.Time, time.Now())))
	}
	return strings.Join(parts, " ")
}

// FormatClock renders "15:04" for today and "1/2 15:04" otherwise, in local
// time.
func FormatClock(t, now time.Time) string {
	t, now = t.Local(), now.Local()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("1/2 15:04")
}
