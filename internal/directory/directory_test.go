// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/backendtest"
	"github.com/jeranaias/companion-tui/internal/model"
)

func intPtr(n int) *int { return &n }

func roster() []model.Character {
	return []model.Character{
		{ID: 1, Name: "루나", Gender: "여성", Age: intPtr(24), Bio: "카페 알바생", Hashtags: []string{"#따뜻함", "#카페투어"}},
		{ID: 2, Name: "Kai", Gender: "남성", Age: intPtr(29), Description: "Loves Jazz"},
		{ID: 3, Name: "하늘", Gender: "여성", Age: intPtr(40)},
		{ID: 4, Name: "미상", Gender: "여성"},
	}
}

func names(chars []model.Character) []string {
	out := make([]string, 0, len(chars))
	for _, c := range chars {
		out = append(out, c.Name)
	}
	return out
}

// =============================================================================
// FILTER
// =============================================================================

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"default", DefaultFilter(), []string{"루나", "Kai"}},
		{"gender", Filter{Gender: "여성", MinAge: 18, MaxAge: 35}, []string{"루나"}},
		{"wide range", Filter{Gender: GenderAll, MinAge: 18, MaxAge: 100}, []string{"루나", "Kai", "하늘"}},
		{"range with zero keeps unset age", Filter{Gender: GenderAll, MinAge: 0, MaxAge: 100}, []string{"루나", "Kai", "하늘", "미상"}},
		{"inclusive bounds", Filter{Gender: GenderAll, MinAge: 24, MaxAge: 29}, []string{"루나", "Kai"}},
		{"keyword in bio", Filter{Gender: GenderAll, MinAge: 0, MaxAge: 100, Keyword: "카페"}, []string{"루나"}},
		{"keyword in hashtag", Filter{Gender: GenderAll, MinAge: 0, MaxAge: 100, Keyword: "#따뜻"}, []string{"루나"}},
		{"keyword case insensitive", Filter{Gender: GenderAll, MinAge: 0, MaxAge: 100, Keyword: "jazz"}, []string{"Kai"}},
		{"keyword in name", Filter{Gender: GenderAll, MinAge: 0, MaxAge: 100, Keyword: "KAI"}, []string{"Kai"}},
		{"gender and keyword but out of range", Filter{Gender: "여성", MinAge: 30, MaxAge: 35, Keyword: "카페"}, []string{}},
		{"inverted range", Filter{Gender: GenderAll, MinAge: 35, MaxAge: 18}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Apply(roster(), tt.filter)))
		})
	}
}

func TestFilter_NextGender(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, "전체", f.GenderLabel())
	f = f.NextGender()
	assert.Equal(t, "여성", f.Gender)
	f = f.NextGender()
	assert.Equal(t, "남성", f.Gender)
	f = f.NextGender()
	assert.Equal(t, GenderAll, f.Gender)

	f.Gender = "기타"
	assert.Equal(t, GenderAll, f.NextGender().Gender)
}

func TestFilter_String(t *testing.T) {
	f := DefaultFilter()
	f.Keyword = "카페"
	assert.Equal(t, `성별 전체 · 18~35세 · "카페"`, f.String())
}

// =============================================================================
// DIRECTORY STATE
// =============================================================================

func TestDirectory_CursorFollowsFilter(t *testing.T) {
	d := New(Filter{Gender: GenderAll, MinAge: 0, MaxAge: 100})
	d.SetResult(roster(), nil)
	require.Len(t, d.Visible(), 4)

	d.Move(10)
	assert.Equal(t, 3, d.Cursor())
	sel, ok := d.Selected()
	require.True(t, ok)
	assert.Equal(t, "미상", sel.Name)

	d.SetFilter(DefaultFilter())
	assert.Equal(t, 1, d.Cursor(), "cursor clamps to the shorter list")

	d.Move(-5)
	assert.Equal(t, 0, d.Cursor())

	d.SetFilter(Filter{Gender: "기타", MinAge: 0, MaxAge: 100})
	_, ok = d.Selected()
	assert.False(t, ok)
}

func TestDirectory_LoadFromBackend(t *testing.T) {
	srv := backendtest.New(t)
	for _, c := range roster() {
		c.ID = 0
		srv.AddCharacter(c)
	}
	client := api.NewClient(&api.ClientConfig{BaseURL: srv.URL})

	d := New(DefaultFilter())
	require.NoError(t, d.Load(context.Background(), client))
	assert.True(t, d.Loaded())
	assert.Equal(t, 4, d.Total())
	assert.Equal(t, []string{"루나", "Kai"}, names(d.Visible()))

	srv.Fail("GET /characters", http.StatusInternalServerError, "")
	err := d.Load(context.Background(), client)
	require.Error(t, err)
	assert.Equal(t, api.MsgListCharacters, d.Err().Error())
	assert.Zero(t, d.Total(), "list is cleared on failure")
	assert.Empty(t, d.Visible())
}

func TestPreview(t *testing.T) {
	c := roster()[0]
	c.Tone = "친근"
	c.Boundaries = []string{"정치"}
	p := Preview(c)

	assert.Contains(t, p, "루나")
	assert.Contains(t, p, "여성 · 24세 · 말투 친근")
	assert.Contains(t, p, "#따뜻함 #카페투어")
	assert.Contains(t, p, "경계선: 정치")
	assert.Contains(t, p, model.PlaceholderImage)
}
