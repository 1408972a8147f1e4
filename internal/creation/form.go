// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package creation holds the character creation form: field state, tag
// parsing, validation, payload building and per-slot image uploads.
package creation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/model"
)

// Form defaults.
const (
	DefaultGender = "여성"
	DefaultAge    = 24
	DefaultTone   = "친근"
)

// Genders offered by the form.
var Genders = []string{"여성", "남성", "기타"}

// Tones offered by the form.
var Tones = []string{"친근", "밝음", "차분", "잔잔", "도도", "장난"}

// ValidationError is returned when the form cannot be submitted. It never
// reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Creator is the part of the API client Submit needs.
type Creator interface {
	CreateCharacter(ctx context.Context, req api.CharacterCreate) (*model.Character, error)
}

// Form is the creation screen state. Owned by a single event loop.
type Form struct {
	Name        string
	Gender      string
	Age         int
	Bio         string
	Description string
	Tone        string

	// HashtagsText and BoundariesText are comma-separated free text.
	HashtagsText   string
	BoundariesText string

	slots   map[Slot]string
	uploads uploadState
}

// NewForm returns a form with defaults filled in.
func NewForm() *Form {
	return &Form{
		Gender:  DefaultGender,
		Age:     DefaultAge,
		Tone:    DefaultTone,
		slots:   make(map[Slot]string),
		uploads: newUploadState(),
	}
}

// SlotValue returns the image reference typed or uploaded into slot.
func (f *Form) SlotValue(slot Slot) string {
	return f.slots[slot]
}

// SetSlotValue sets the image reference for slot.
func (f *Form) SetSlotValue(slot Slot, ref string) {
	f.slots[slot] = ref
}

// Validate checks the only client-side rule: a non-blank name.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "이름을 입력해주세요"}
	}
	return nil
}

// Payload builds the creation request. Blank optional strings are omitted,
// age is omitted when 0, and blank image slots are dropped.
func (f *Form) Payload() api.CharacterCreate {
	req := api.CharacterCreate{
		Name:         strings.TrimSpace(f.Name),
		Gender:       strings.TrimSpace(f.Gender),
		Bio:          strings.TrimSpace(f.Bio),
		Description:  strings.TrimSpace(f.Description),
		Tone:         strings.TrimSpace(f.Tone),
		Hashtags:     ParseHashtags(f.HashtagsText),
		Boundaries:   ParseBoundaries(f.BoundariesText),
		ImageDefault: strings.TrimSpace(f.slots[SlotDefault]),
	}
	if f.Age != 0 {
		age := f.Age
		req.Age = &age
	}
	for _, e := range model.Emotions {
		if ref := strings.TrimSpace(f.slots[EmotionSlot(e)]); ref != "" {
			if req.ImageByEmotion == nil {
				req.ImageByEmotion = make(map[model.Emotion]string)
			}
			req.ImageByEmotion[e] = ref
		}
	}
	return req
}

// Submit validates and creates the character.
func (f *Form) Submit(ctx context.Context, c Creator) (*model.Character, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	created, err := c.CreateCharacter(ctx, f.Payload())
	if err != nil {
		logging.L().WithError(err).Warn("character creation failed")
		return nil, err
	}
	logging.L().WithField("character_id", created.ID).Info("character created")
	return created, nil
}

// =============================================================================
// TAG PARSING
// =============================================================================

// ParseHashtags splits comma-separated text into tags, trimming each,
// dropping empties and prefixing "#" where missing.
// "warm, #cafe,  " -> ["#warm", "#cafe"].
func ParseHashtags(text string) []string {
	tags := splitTrim(text)
	for i, t := range tags {
		if !strings.HasPrefix(t, "#") {
			tags[i] = "#" + t
		}
	}
	return tags
}

// ParseBoundaries splits comma-separated text, trimming and dropping empties.
func ParseBoundaries(text string) []string {
	return splitTrim(text)
}

func splitTrim(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Summary describes the payload in one line for confirmation prompts.
func Summary(req api.CharacterCreate) string {
	var parts []string
	parts = append(parts, req.Name)
	if req.Gender != "" {
		parts = append(parts, req.Gender)
	}
	if req.Age != nil {
		parts = append(parts, fmt.Sprintf("%d세", *req.Age))
	}
	if req.Tone != "" {
		parts = append(parts, "말투 "+req.Tone)
	}
	if n := len(req.ImageByEmotion); n > 0 {
		parts = append(parts, fmt.Sprintf("감정 이미지 %d개", n))
	}
	return strings.Join(parts, " · ")
}
