// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
)

// PlaceholderImage is shown when a character has no usable image.
const PlaceholderImage = "/profile-default.png"

// Character is a companion persona. Immutable after load.
type Character struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Gender         string             `json:"gender,omitempty"`
	Age            *int               `json:"age,omitempty"`
	Bio            string             `json:"bio,omitempty"`
	Description    string             `json:"description,omitempty"`
	Tone           string             `json:"tone,omitempty"`
	Hashtags       []string           `json:"hashtags,omitempty"`
	Boundaries     []string           `json:"boundaries,omitempty"`
	ImageDefault   string             `json:"image_default,omitempty"`
	ImageByEmotion map[Emotion]string `json:"image_by_emotion,omitempty"`
}

// AgeOrZero returns the age, treating a missing age as 0.
func (c Character) AgeOrZero() int {
	if c.Age == nil {
		return 0
	}
	return *c.Age
}

// AgeLabel returns "24세" or "" when the age is unknown.
func (c Character) AgeLabel() string {
	if c.Age == nil {
		return ""
	}
	return strconv.Itoa(*c.Age) + "세"
}

// SearchText is the text the directory keyword filter matches against.
func (c Character) SearchText() string {
	return strings.Join([]string{c.Name, c.Bio, c.Description, strings.Join(c.Hashtags, " ")}, " ")
}

// DefaultImage returns the default image or the placeholder.
func (c Character) DefaultImage() string {
	if c.ImageDefault != "" {
		return c.ImageDefault
	}
	return PlaceholderImage
}

// ImageFor returns the image mapped to emotion, falling back to the default
// image and then the placeholder.
func (c Character) ImageFor(emotion Emotion) string {
	if emotion != EmotionNone && emotion.IsKnown() {
		if ref := c.ImageByEmotion[emotion]; ref != "" {
			return ref
		}
	}
	return c.DefaultImage()
}

// SelectImage picks the image for a conversation: the emotion of the last
// assistant message wins. Recomputed on every call, never cached.
func SelectImage(c *Character, messages []Message) string {
	if c == nil {
		return PlaceholderImage
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleAssistant {
			return c.ImageFor(messages[i].Emotion)
		}
	}
	return c.DefaultImage()
}
