// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BOX COMPONENT
// =============================================================================

// ErrorBox renders an inline error with a retry hint.
type ErrorBox struct {
	Title string
	Err   error
	Hint  string
	Width int
	theme *styles.Theme
}

// NewErrorBox creates an error box for err.
func NewErrorBox(err error, theme *styles.Theme) *ErrorBox {
	return &ErrorBox{Title: "오류", Err: err, Hint: HintFor(err), Width: 60, theme: theme}
}

// HintFor suggests a next step for common API failures.
func HintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrNetwork):
		return "백엔드 주소를 확인하세요 (companion config get api.base_url)"
	case errors.Is(err, api.ErrNotFound):
		return "목록으로 돌아가 다시 선택하세요"
	default:
		return "r 키로 다시 시도하세요"
	}
}

// View renders the box, or "" when there is no error.
func (e *ErrorBox) View() string {
	if e.Err == nil {
		return ""
	}
	inner := maxInt(e.Width-4, 10)
	parts := []string{
		e.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " " + e.Title),
		e.theme.ErrorMessage.Render(wordWrap(e.Err.Error(), inner)),
	}
	if e.Hint != "" {
		parts = append(parts, e.theme.FormHint.Render(wordWrap(e.Hint, inner)))
	}
	return e.theme.ErrorBox.Width(e.Width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
