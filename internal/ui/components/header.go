// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/ui/styles"
	"github.com/jeranaias/companion-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar shown at the top of every screen.
type Header struct {
	Title    string
	Subtitle string
	// SafeMode shows the safe-mode badge when non-nil.
	SafeMode *bool
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with the brand title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Title: "companion", Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SafeModeBadge renders the safe-mode indicator.
func SafeModeBadge(theme *styles.Theme, on bool) string {
	if on {
		return theme.SafeOn.Render("[세이프 ON]")
	}
	return theme.SafeOff.Render("[세이프 OFF]")
}

// View renders the header.
func (h *Header) View() string {
	width := maxInt(h.Width, 20)

	right := ""
	if h.SafeMode != nil {
		right = SafeModeBadge(h.theme, *h.SafeMode)
	}

	leftParts := []string{h.theme.HeaderTitle.Render(h.Title)}
	if h.Subtitle != "" {
		leftParts = append(leftParts, h.theme.HeaderSubtitle.Render(h.Subtitle))
	}
	left := strings.Join(leftParts, "  ")

	// Two columns for padding.
	avail := width - 2 - lipgloss.Width(right) - 1
	if lipgloss.Width(left) > avail {
		left = h.theme.HeaderTitle.Render(util.TruncateWidth(h.Title, maxInt(avail, 1)))
	}
	gap := maxInt(width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return h.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
