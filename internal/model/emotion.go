// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// EMOTION TYPE
// =============================================================================

// Emotion is the emotion tag the backend attaches to assistant replies.
// Values outside the known set are kept verbatim but never match an image slot.
type Emotion string

const (
	EmotionNone    Emotion = ""
	EmotionHappy   Emotion = "happy"
	EmotionSad     Emotion = "sad"
	EmotionAngry   Emotion = "angry"
	EmotionShy     Emotion = "shy"
	EmotionSleepy  Emotion = "sleepy"
	EmotionFlirty  Emotion = "flirty"
	EmotionNeutral Emotion = "neutral"
)

// Emotions lists every known emotion in display order.
var Emotions = []Emotion{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionShy,
	EmotionSleepy,
	EmotionFlirty,
	EmotionNeutral,
}

// String returns the wire value.
func (e Emotion) String() string {
	return string(e)
}

// IsKnown reports whether e is one of the enumerated emotions.
func (e Emotion) IsKnown() bool {
	for _, known := range Emotions {
		if e == known {
			return true
		}
	}
	return false
}

// DisplayName returns the Korean label shown next to image slots and badges.
func (e Emotion) DisplayName() string {
	switch e {
	case EmotionHappy:
		return "기쁨"
	case EmotionSad:
		return "슬픔"
	case EmotionAngry:
		return "화남"
	case EmotionShy:
		return "수줍음"
	case EmotionSleepy:
		return "졸림"
	case EmotionFlirty:
		return "설렘"
	case EmotionNeutral:
		return "평온"
	case EmotionNone:
		return ""
	default:
		return string(e)
	}
}

// ParseEmotion converts a raw string to an Emotion. ok is false for values
// outside the enumeration; the raw value is still returned.
func ParseEmotion(s string) (e Emotion, ok bool) {
	e = Emotion(s)
	return e, e.IsKnown()
}
