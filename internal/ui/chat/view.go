// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/ui/components"
)

// View renders the chat screen.
func (m Model) View() string {
	header := m.header.View()
	status := m.status.View()
	bodyHeight := maxInt(m.height-lipgloss.Height(header)-lipgloss.Height(status), 3)

	switch {
	case m.loading:
		body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.theme.TypingText.Render("불러오는 중"))
		return lipgloss.JoinVertical(lipgloss.Left, header, body, status)

	case m.loadErr != nil:
		box := components.NewErrorBox(m.loadErr, m.theme)
		box.Title = "캐릭터를 열 수 없어요"
		box.Width = minInt(m.width-4, 70)
		body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, box.View())
		return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
	}

	conversation := m.viewport.View()
	if m.panelVisible() {
		conversation = lipgloss.JoinHorizontal(lipgloss.Top, conversation, " ", m.panel.View())
	}
	input := m.theme.InputContainer.Width(m.width).Render(components.InputView(m.input, inputHint, m.theme.InputPlaceholder))

	return lipgloss.JoinVertical(lipgloss.Left, header, conversation, input, status)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
