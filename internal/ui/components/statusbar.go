// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current screen status.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusSending
	StatusError
)

// String returns the Korean label for the status.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "불러오는 중"
	case StatusSending:
		return "답장 기다리는 중"
	case StatusError:
		return "오류"
	default:
		return "준비"
	}
}

// Icon returns the shape indicator for the status.
func (s Status) Icon() string {
	switch s {
	case StatusLoading, StatusSending:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return styles.StatusIndicators.Success
	}
}

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom bar: status on the left, key hints on the right.
type StatusBar struct {
	Status    Status
	Message   string // overrides the status label when set
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the bar. Shortcuts are dropped from the end until they fit.
func (s *StatusBar) View() string {
	width := maxInt(s.Width, 20)

	label := s.Message
	if label == "" {
		label = s.Status.String()
	}
	var left string
	switch s.Status {
	case StatusError:
		left = s.theme.ErrorStyle.Render(s.Status.Icon() + " " + label)
	case StatusLoading, StatusSending:
		left = s.theme.WarningStyle.Render(s.Status.Icon() + " " + label)
	default:
		left = s.theme.SuccessStyle.Render(s.Status.Icon() + " " + label)
	}

	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")
	for len(hints) > 0 && lipgloss.Width(left)+lipgloss.Width(right)+3 > width {
		hints = hints[:len(hints)-1]
		right = strings.Join(hints, "  ")
	}

	gap := maxInt(width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
