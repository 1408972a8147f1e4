// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// =============================================================================
// CHAT VIEWPORT COMPONENT
// =============================================================================

// ChatViewport is a scrollable conversation. It follows new messages until
// the user scrolls up, and resumes following once scrolled back to the end.
type ChatViewport struct {
	viewport   viewport.Model
	messages   []model.Message
	speaker    string
	footer     string
	width      int
	height     int
	autoScroll bool
	theme      *styles.Theme
}

// NewChatViewport creates an empty viewport.
func NewChatViewport(theme *styles.Theme) *ChatViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()
	return &ChatViewport{
		viewport:   vp,
		width:      80,
		height:     20,
		autoScroll: true,
		theme:      theme,
	}
}

// SetSize updates the viewport dimensions.
func (cv *ChatViewport) SetSize(width, height int) {
	cv.width = width
	cv.height = maxInt(height, 1)
	cv.viewport.Width = width
	cv.viewport.Height = cv.height
	cv.refresh()
}

// SetSpeaker sets the name shown above assistant bubbles.
func (cv *ChatViewport) SetSpeaker(name string) {
	cv.speaker = name
	cv.refresh()
}

// SetMessages replaces the displayed conversation.
func (cv *ChatViewport) SetMessages(msgs []model.Message) {
	cv.messages = msgs
	cv.refresh()
}

// SetFooter sets a trailing line such as the typing indicator. Empty hides
// it.
func (cv *ChatViewport) SetFooter(footer string) {
	if footer == cv.footer {
		return
	}
	cv.footer = footer
	cv.refresh()
}

func (cv *ChatViewport) refresh() {
	cv.viewport.SetContent(cv.render())
	if cv.autoScroll {
		cv.viewport.GotoBottom()
	}
}

func (cv *ChatViewport) render() string {
	if len(cv.messages) == 0 && cv.footer == "" {
		hint := cv.theme.FormHint.Render("첫 메시지를 보내 대화를 시작해보세요.")
		return lipgloss.Place(cv.width, cv.height, lipgloss.Center, lipgloss.Center, hint)
	}

	parts := make([]string, 0, len(cv.messages)+1)
	for _, m := range cv.messages {
		b := NewMessageBubble(m, cv.theme)
		b.Width = cv.width
		b.SpeakerName = cv.speaker
		parts = append(parts, b.View())
	}
	if cv.footer != "" {
		parts = append(parts, cv.footer)
	}
	return strings.Join(parts, "\n\n")
}

// Update handles scrolling keys and mouse wheel events.
func (cv *ChatViewport) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	cv.viewport, cmd = cv.viewport.Update(msg)
	cv.autoScroll = cv.viewport.AtBottom()
	return cmd
}

// ScrollToBottom jumps to the newest message and resumes following.
func (cv *ChatViewport) ScrollToBottom() {
	cv.viewport.GotoBottom()
	cv.autoScroll = true
}

// ScrollUp scrolls up by n lines and stops following.
func (cv *ChatViewport) ScrollUp(n int) {
	cv.viewport.LineUp(n)
	cv.autoScroll = cv.viewport.AtBottom()
}

// ScrollDown scrolls down by n lines.
func (cv *ChatViewport) ScrollDown(n int) {
	cv.viewport.LineDown(n)
	cv.autoScroll = cv.viewport.AtBottom()
}

// AtBottom reports whether the newest line is visible.
func (cv *ChatViewport) AtBottom() bool {
	return cv.viewport.AtBottom()
}

// Following reports whether new content scrolls into view automatically.
func (cv *ChatViewport) Following() bool {
	return cv.autoScroll
}

// ScrollPosition returns "[12/80]" or "" when everything fits.
func (cv *ChatViewport) ScrollPosition() string {
	total := cv.viewport.TotalLineCount()
	if total <= cv.viewport.Height {
		return ""
	}
	return fmt.Sprintf("[%d/%d]", cv.viewport.YOffset+cv.viewport.Height, total)
}

// View renders the viewport.
func (cv *ChatViewport) View() string {
	return cv.viewport.View()
}
