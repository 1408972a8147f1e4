// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"strings"

	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/model"
)

// Lister is the part of the API client the directory needs.
type Lister interface {
	ListCharacters(ctx context.Context) ([]model.Character, error)
}

// Directory is the roster screen state. Not safe for concurrent use; it is
// owned by a single event loop.
type Directory struct {
	all    []model.Character
	filter Filter
	cursor int
	err    error
	loaded bool
}

// New creates an empty directory with the given initial filter.
func New(f Filter) *Directory {
	return &Directory{filter: f}
}

// Load fetches the roster. On failure the list is cleared and the error kept.
func (d *Directory) Load(ctx context.Context, l Lister) error {
	chars, err := l.ListCharacters(ctx)
	d.SetResult(chars, err)
	return err
}

// SetResult applies the outcome of a roster fetch performed elsewhere.
func (d *Directory) SetResult(chars []model.Character, err error) {
	d.loaded = true
	if err != nil {
		logging.L().WithError(err).Warn("character list load failed")
		d.all = nil
		d.err = err
	} else {
		d.all = chars
		d.err = nil
	}
	d.clampCursor()
}

// Err returns the last load error.
func (d *Directory) Err() error {
	return d.err
}

// Loaded reports whether a load has completed.
func (d *Directory) Loaded() bool {
	return d.loaded
}

// Total returns the number of loaded characters, before filtering.
func (d *Directory) Total() int {
	return len(d.all)
}

// Filter returns the current filter.
func (d *Directory) Filter() Filter {
	return d.filter
}

// SetFilter replaces the filter.
func (d *Directory) SetFilter(f Filter) {
	d.filter = f
	d.clampCursor()
}

// Visible returns the filtered roster, recomputed on every call.
func (d *Directory) Visible() []model.Character {
	return Apply(d.all, d.filter)
}

// Cursor returns the index of the highlighted card in Visible.
func (d *Directory) Cursor() int {
	return d.cursor
}

// Move shifts the cursor by delta, clamped to the visible list.
func (d *Directory) Move(delta int) {
	d.cursor += delta
	d.clampCursor()
}

// Selected returns the highlighted character.
func (d *Directory) Selected() (model.Character, bool) {
	visible := d.Visible()
	if d.cursor < 0 || d.cursor >= len(visible) {
		return model.Character{}, false
	}
	return visible[d.cursor], true
}

func (d *Directory) clampCursor() {
	n := len(d.Visible())
	if d.cursor >= n {
		d.cursor = n - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

// Preview renders the profile overlay text for c.
func Preview(c model.Character) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString("\n")

	var meta []string
	if c.Gender != "" {
		meta = append(meta, c.Gender)
	}
	if label := c.AgeLabel(); label != "" {
		meta = append(meta, label)
	}
	if c.Tone != "" {
		meta = append(meta, "말투 "+c.Tone)
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("\n")
	}

	if c.Bio != "" {
		b.WriteString("\n")
		b.WriteString(c.Bio)
		b.WriteString("\n")
	}
	if c.Description != "" {
		b.WriteString("\n")
		b.WriteString(c.Description)
		b.WriteString("\n")
	}
	if len(c.Hashtags) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(c.Hashtags, " "))
		b.WriteString("\n")
	}
	if len(c.Boundaries) > 0 {
		b.WriteString("\n경계선: ")
		b.WriteString(strings.Join(c.Boundaries, ", "))
		b.WriteString("\n")
	}
	b.WriteString("\n이미지: ")
	b.WriteString(c.DefaultImage())
	return b.String()
}
