// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package create

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/jeranaias/companion-tui/internal/config"
	"github.com/jeranaias/companion-tui/internal/creation"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindChoice
	kindSlot
	kindSubmit
)

// field is one focusable row of the form.
type field struct {
	id    string
	kind  fieldKind
	label string
	hint  string
	// placeholder is drawn in the empty input by components.InputView.
	placeholder string
	input       textinput.Model
	options     []string
	choice      int
	slot        creation.Slot
}

// Field ids for text and choice rows.
const (
	fieldName        = "name"
	fieldGender      = "gender"
	fieldAge         = "age"
	fieldBio         = "bio"
	fieldDescription = "description"
	fieldTone        = "tone"
	fieldHashtags    = "hashtags"
	fieldBoundaries  = "boundaries"
	fieldSubmit      = "submit"
)

func newInput(limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = limit
	return ti
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return 0
}

// buildFields lays out the form rows, seeded from f.
func buildFields(f *creation.Form) []field {
	text := func(id, label, placeholder, hint, value string, limit int) field {
		in := newInput(limit)
		in.SetValue(value)
		return field{id: id, kind: kindText, label: label, hint: hint, placeholder: placeholder, input: in}
	}

	age := ""
	if f.Age != 0 {
		age = strconv.Itoa(f.Age)
	}

	fields := []field{
		text(fieldName, "이름", "필수", "", f.Name, 50),
		{id: fieldGender, kind: kindChoice, label: "성별", options: creation.Genders, choice: indexOf(creation.Genders, f.Gender)},
		text(fieldAge, "나이", "비우면 생략", "", age, 3),
		text(fieldBio, "한 줄 소개", "", "", f.Bio, 200),
		text(fieldDescription, "상세 설정", "성격, 배경, 관계", "", f.Description, 2000),
		{id: fieldTone, kind: kindChoice, label: "말투", options: creation.Tones, choice: indexOf(creation.Tones, f.Tone)},
		text(fieldHashtags, "해시태그", "쉼표로 구분", "예: 따뜻함, 카페", f.HashtagsText, 300),
		text(fieldBoundaries, "경계선", "쉼표로 구분", "캐릭터가 피할 주제", f.BoundariesText, 500),
	}
	for _, slot := range creation.Slots() {
		in := newInput(500)
		in.SetValue(f.SlotValue(slot))
		fields = append(fields, field{
			id:          "image:" + string(slot),
			kind:        kindSlot,
			label:       "이미지 " + slot.Label(),
			hint:        "ctrl+u: 입력한 경로의 파일 업로드",
			placeholder: "이미지 URL 또는 파일 경로",
			input:       in,
			slot:        slot,
		})
	}
	fields = append(fields, field{id: fieldSubmit, kind: kindSubmit, label: "만들기"})
	return fields
}

// value returns the row's current text or choice.
func (fd field) value() string {
	if fd.kind == kindChoice {
		return fd.options[fd.choice]
	}
	return fd.input.Value()
}

// parseAge accepts a blank value as "no age".
func parseAge(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > config.MaxAge {
		return 0, &creation.ValidationError{
			Field:   fieldAge,
			Message: fmt.Sprintf("나이는 0~%d 사이 숫자로 입력해주세요", config.MaxAge),
		}
	}
	return n, nil
}

// apply copies the rows into the form.
func apply(fields []field, f *creation.Form) error {
	for _, fd := range fields {
		switch fd.id {
		case fieldName:
			f.Name = fd.value()
		case fieldGender:
			f.Gender = fd.value()
		case fieldAge:
			age, err := parseAge(fd.value())
			if err != nil {
				return err
			}
			f.Age = age
		case fieldBio:
			f.Bio = fd.value()
		case fieldDescription:
			f.Description = fd.value()
		case fieldTone:
			f.Tone = fd.value()
		case fieldHashtags:
			f.HashtagsText = fd.value()
		case fieldBoundaries:
			f.BoundariesText = fd.value()
		default:
			if fd.kind == kindSlot {
				f.SetSlotValue(fd.slot, fd.value())
			}
		}
	}
	return nil
}
