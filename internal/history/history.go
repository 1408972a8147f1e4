// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history lists the backend's stored conversations and turns a
// selection into launch options for a resumed chat session.
package history

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/session"
)

// Source is the part of the API client history needs.
type Source interface {
	ListConversations(ctx context.Context) ([]api.ConversationSummary, error)
	ListCharacters(ctx context.Context) ([]model.Character, error)
}

// Entry is one conversation row.
type Entry struct {
	ConversationID int64
	CharacterID    int64
	CharacterName  string
	SafeMode       bool
	UpdatedAt      time.Time // zero when the backend sent none
}

// SafeLabel is the safe-mode badge text.
func (e Entry) SafeLabel() string {
	if e.SafeMode {
		return "세이프 ON"
	}
	return "세이프 OFF"
}

// ResumeOptions returns base with the conversation id set to e's.
func (e Entry) ResumeOptions(base session.Options) session.Options {
	base.ConversationID = e.ConversationID
	return base
}

// Build joins conversations with characters and sorts newest first. Rows
// without a timestamp sort last; ties go to the higher conversation id.
func Build(convs []api.ConversationSummary, chars []model.Character) []Entry {
	names := make(map[int64]string, len(chars))
	for _, c := range chars {
		names[c.ID] = c.Name
	}

	out := make([]Entry, 0, len(convs))
	for _, c := range convs {
		e := Entry{
			ConversationID: c.ID,
			CharacterID:    c.CharacterID,
			CharacterName:  names[c.CharacterID],
			SafeMode:       c.LastSafeMode,
		}
		if e.CharacterName == "" {
			e.CharacterName = fmt.Sprintf("캐릭터 #%d", c.CharacterID)
		}
		if c.UpdatedAt != nil {
			e.UpdatedAt = c.UpdatedAt.Time
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ConversationID > b.ConversationID
	})
	return out
}

// =============================================================================
// LIST STATE
// =============================================================================

// History is the history screen state, owned by a single event loop.
type History struct {
	entries []Entry
	cursor  int
	err     error
	loaded  bool
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Fetch loads conversations and characters. A character list failure only
// loses the names.
func Fetch(ctx context.Context, src Source) ([]Entry, error) {
	convs, err := src.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	chars, err := src.ListCharacters(ctx)
	if err != nil {
		logging.L().WithError(err).Warn("character names unavailable for history")
	}
	return Build(convs, chars), nil
}

// Load fetches and applies the list.
func (h *History) Load(ctx context.Context, src Source) error {
	entries, err := Fetch(ctx, src)
	h.SetResult(entries, err)
	return err
}

// SetResult applies a fetch performed elsewhere.
func (h *History) SetResult(entries []Entry, err error) {
	h.loaded = true
	h.entries, h.err = entries, err
	if err != nil {
		logging.L().WithError(err).Warn("conversation list load failed")
		h.entries = nil
	}
	h.Move(0)
}

func (h *History) Entries() []Entry { return h.entries }
func (h *History) Err() error       { return h.err }
func (h *History) Loaded() bool     { return h.loaded }
func (h *History) Cursor() int      { return h.cursor }

// Move shifts the cursor by delta, clamped to the list.
func (h *History) Move(delta int) {
	h.cursor += delta
	if h.cursor >= len(h.entries) {
		h.cursor = len(h.entries) - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

// Selected returns the entry under the cursor.
func (h *History) Selected() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[h.cursor], true
}

// =============================================================================
// RELATIVE TIME
// =============================================================================

var koreanMagnitudes = []humanize.RelTimeMagnitude{
	{D: 10 * time.Second, Format: "방금", DivBy: time.Second},
	{D: time.Minute, Format: "%d초 %s", DivBy: time.Second},
	{D: time.Hour, Format: "%d분 %s", DivBy: time.Minute},
	{D: humanize.Day, Format: "%d시간 %s", DivBy: time.Hour},
	{D: humanize.Week, Format: "%d일 %s", DivBy: humanize.Day},
	{D: humanize.Month, Format: "%d주 %s", DivBy: humanize.Week},
	{D: humanize.Year, Format: "%d개월 %s", DivBy: humanize.Month},
	{D: math.MaxInt64, Format: "%d년 %s", DivBy: humanize.Year},
}

// RelativeTime formats t relative to now in Korean ("5분 전").
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.CustomRelTime(t, now, "전", "후", koreanMagnitudes)
}
