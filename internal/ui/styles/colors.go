// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/model"
)

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Pink - Brand color, character names, selections
var Pink = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}

// PinkDeep - Darker pink for backgrounds
var PinkDeep = lipgloss.AdaptiveColor{Light: "#9D174D", Dark: "#500724"}

// Purple - Secondary accent, hashtags, focus
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Info, keys, links
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, safe mode on
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// RoseDeep - Darker rose for backgrounds
var RoseDeep = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#881337"}

// Amber - Warnings, safe mode off
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Pink tones
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#9D174D", Dark: "#FCE7F3"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#F472B6", Dark: "#DB2777"}

// Character message bubble - Soft violet tones
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#5B4B8A", Dark: "#E9E4F5"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#C4B5FD", Dark: "#A78BFA"}

// Action lines (*waves*) - italic, muted
var ActionFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9399B2"}

// Selection highlight
var SelectionBg = lipgloss.AdaptiveColor{Light: "#FBCFE8", Dark: "#4A1D3A"}

// =============================================================================
// EMOTION COLORS
// =============================================================================

var emotionColors = map[model.Emotion]lipgloss.AdaptiveColor{
	model.EmotionHappy:   {Light: "#CA8A04", Dark: "#FDE047"},
	model.EmotionSad:     {Light: "#2563EB", Dark: "#93C5FD"},
	model.EmotionAngry:   {Light: "#DC2626", Dark: "#F87171"},
	model.EmotionShy:     {Light: "#DB2777", Dark: "#F9A8D4"},
	model.EmotionSleepy:  {Light: "#6B7280", Dark: "#A5B4FC"},
	model.EmotionFlirty:  {Light: "#C026D3", Dark: "#F0ABFC"},
	model.EmotionNeutral: {Light: "#4B5563", Dark: "#CBD5E1"},
}

// EmotionColor returns the accent for an emotion badge.
func EmotionColor(e model.Emotion) lipgloss.AdaptiveColor {
	if c, ok := emotionColors[e]; ok {
		return c
	}
	return TextMuted
}

// =============================================================================
// ACCESSIBILITY: Shapes alongside colors
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
}

// StatusIndicators are ASCII so they render on any terminal.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[..]",
}

var SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
var ErrorHighContrast = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
var WarningHighContrast = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
var InfoHighContrast = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
