// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory holds the character roster state: the loaded list, the
// filter, the cursor and the profile preview.
package directory

import (
	"fmt"

	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/util"
)

// GenderAll disables the gender filter.
const GenderAll = "all"

// Genders are the gender values offered by the filter, in cycle order.
var Genders = []string{GenderAll, "여성", "남성"}

// Filter selects characters. Every condition must hold.
type Filter struct {
	Gender  string
	MinAge  int
	MaxAge  int
	Keyword string
}

// DefaultFilter returns the initial filter: any gender, ages 18 to 35, no keyword.
func DefaultFilter() Filter {
	return Filter{Gender: GenderAll, MinAge: 18, MaxAge: 35}
}

// Match reports whether c passes the filter. A missing age counts as 0, so
// characters without an age only pass ranges that include 0.
func (f Filter) Match(c model.Character) bool {
	if f.Gender != "" && f.Gender != GenderAll && c.Gender != f.Gender {
		return false
	}
	age := c.AgeOrZero()
	if age < f.MinAge || age > f.MaxAge {
		return false
	}
	return util.ContainsFold(c.SearchText(), f.Keyword)
}

// NextGender returns f with the gender advanced to the next option.
func (f Filter) NextGender() Filter {
	for i, g := range Genders {
		if g == f.Gender {
			f.Gender = Genders[(i+1)%len(Genders)]
			return f
		}
	}
	f.Gender = GenderAll
	return f
}

// GenderLabel returns the label shown for the gender filter.
func (f Filter) GenderLabel() string {
	if f.Gender == "" || f.Gender == GenderAll {
		return "전체"
	}
	return f.Gender
}

// String summarizes the filter for status lines.
func (f Filter) String() string {
	s := fmt.Sprintf("성별 %s · %d~%d세", f.GenderLabel(), f.MinAge, f.MaxAge)
	if f.Keyword != "" {
		s += fmt.Sprintf(" · %q", f.Keyword)
	}
	return s
}

// Apply returns the characters that match f, preserving order.
func Apply(chars []model.Character, f Filter) []model.Character {
	out := make([]model.Character, 0, len(chars))
	for _, c := range chars {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
