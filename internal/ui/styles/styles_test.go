// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/companion-tui/internal/model"
)

func TestNewThemeNamed(t *testing.T) {
	dark := NewThemeNamed("Dark")
	assert.Equal(t, ThemeDark, dark.Name)
	assert.True(t, dark.IsDark)

	light := NewThemeNamed("light")
	assert.Equal(t, ThemeLight, light.Name)
	assert.False(t, light.IsDark)

	assert.Equal(t, ThemeAuto, NewThemeNamed("solarized").Name)
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewThemeNamed(ThemeDark)
	for name, style := range map[string]interface{ Render(...string) string }{
		"UserBubble":      theme.UserBubble,
		"AssistantBubble": theme.AssistantBubble,
		"Card":            theme.Card,
		"Panel":           theme.Panel,
		"ErrorBox":        theme.ErrorBox,
	} {
		assert.Contains(t, style.Render("test"), "test", name)
	}
}

func TestLayoutMode(t *testing.T) {
	theme := NewThemeNamed(ThemeDark)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
		assert.Equal(t, tt.want, LayoutFor(tt.width), "width %d", tt.width)
	}
}

func TestEmotionColor(t *testing.T) {
	for _, e := range model.Emotions {
		assert.NotEqual(t, TextMuted, EmotionColor(e), e)
	}
	assert.Equal(t, TextMuted, EmotionColor(model.EmotionNone))
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	for _, s := range []string{StatusIndicators.Success, StatusIndicators.Error, StatusIndicators.Pending} {
		assert.False(t, strings.ContainsFunc(s, func(r rune) bool { return r > 127 }), s)
	}
}

func TestSpinners(t *testing.T) {
	assert.NotEmpty(t, TypingSpinner.Frames)
	assert.Positive(t, int64(LoadingSpinner.FPS))
}
