// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/backendtest"
	dir "github.com/jeranaias/companion-tui/internal/directory"
	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/ui/nav"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

func intPtr(v int) *int { return &v }

func newModel(t *testing.T) (Model, *backendtest.Server) {
	t.Helper()
	srv := backendtest.New(t)
	srv.AddCharacter(model.Character{Name: "루나", Gender: "여성", Age: intPtr(24), Hashtags: []string{"#cafe"}})
	srv.AddCharacter(model.Character{Name: "해온", Gender: "남성", Age: intPtr(29), Bio: "바리스타"})
	srv.AddCharacter(model.Character{Name: "노인", Gender: "남성", Age: intPtr(70)})

	client := api.NewClient(&api.ClientConfig{BaseURL: srv.URL})
	m := New(context.Background(), client, dir.DefaultFilter(), styles.NewThemeNamed(styles.ThemeDark))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, srv
}

func load(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.load()()
	loaded, ok := msg.(LoadedMsg)
	require.True(t, ok)
	m, _ = m.Update(loaded)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoad_FiltersByDefaultAgeRange(t *testing.T) {
	m, _ := newModel(t)
	assert.Contains(t, m.View(), "불러오는 중")

	m = load(t, m)
	assert.Equal(t, 3, m.State().Total())
	assert.Len(t, m.State().Visible(), 2)
	view := m.View()
	assert.Contains(t, view, "루나")
	assert.Contains(t, view, "해온")
	assert.NotContains(t, view, "노인")
	assert.Contains(t, view, "2 / 3명")
}

func TestLoad_FailureShowsErrorAndReloads(t *testing.T) {
	m, srv := newModel(t)
	srv.Fail("GET /characters", http.StatusInternalServerError, "")
	m = load(t, m)
	require.Error(t, m.State().Err())
	assert.Contains(t, m.View(), api.MsgListCharacters)

	srv.ClearFailures()
	m, cmd := m.Update(runes("r"))
	require.NotNil(t, cmd)
	m = load(t, m)
	assert.NoError(t, m.State().Err())
	assert.Len(t, m.State().Visible(), 2)
}

func TestGenderCycle(t *testing.T) {
	m, _ := newModel(t)
	m = load(t, m)

	m, _ = m.Update(runes("g"))
	assert.Equal(t, "여성", m.State().Filter().Gender)
	require.Len(t, m.State().Visible(), 1)
	assert.Equal(t, "루나", m.State().Visible()[0].Name)

	m, _ = m.Update(runes("g"))
	assert.Equal(t, "남성", m.State().Filter().Gender)
	m, _ = m.Update(runes("g"))
	assert.Equal(t, dir.GenderAll, m.State().Filter().Gender)
}

func TestAgeBounds(t *testing.T) {
	m, _ := newModel(t)
	m = load(t, m)

	for i := 0; i < 40; i++ {
		m, _ = m.Update(runes("}"))
	}
	assert.Equal(t, 75, m.State().Filter().MaxAge)
	assert.Len(t, m.State().Visible(), 3)

	m, _ = m.Update(runes("0"))
	assert.Equal(t, dir.DefaultFilter(), m.State().Filter())
}

func TestAdjustAges_KeepsOrder(t *testing.T) {
	f := dir.Filter{MinAge: 30, MaxAge: 30}
	up := adjustAges(f, 1, 0)
	assert.Equal(t, 31, up.MinAge)
	assert.Equal(t, 31, up.MaxAge)

	down := adjustAges(f, 0, -1)
	assert.Equal(t, 29, down.MinAge)
	assert.Equal(t, 29, down.MaxAge)

	low := adjustAges(dir.Filter{MinAge: 0, MaxAge: 0}, -1, 0)
	assert.Equal(t, 0, low.MinAge)
}

func TestSearch_UpdatesKeyword(t *testing.T) {
	m, _ := newModel(t)
	m = load(t, m)

	m, _ = m.Update(runes("/"))
	m, _ = m.Update(runes("바리"))
	assert.Equal(t, "바리", m.State().Filter().Keyword)
	require.Len(t, m.State().Visible(), 1)
	assert.Equal(t, "해온", m.State().Visible()[0].Name)

	// Keys typed while searching do not trigger shortcuts.
	m, _ = m.Update(runes("n"))
	assert.Equal(t, "바리n", m.State().Filter().Keyword)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.State().Filter().Keyword)
	assert.Len(t, m.State().Visible(), 2)
}

func TestPreview_ThenStartChat(t *testing.T) {
	m, _ := newModel(t)
	m = load(t, m)

	m, _ = m.Update(runes("l"))
	sel, ok := m.State().Selected()
	require.True(t, ok)
	assert.Equal(t, "해온", sel.Name)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.Previewing())
	assert.Contains(t, m.View(), "대화 시작")

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.Previewing())
	assert.Equal(t, nav.OpenChatMsg{CharacterID: sel.ID}, cmd())
}

func TestPreview_EscCloses(t *testing.T) {
	m, _ := newModel(t)
	m = load(t, m)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Previewing())
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.Previewing())
}

func TestNavigationKeys(t *testing.T) {
	m, _ := newModel(t)
	m = load(t, m)

	cases := map[string]nav.Screen{
		"n": nav.ScreenCreate,
		"H": nav.ScreenHistory,
		"s": nav.ScreenSettings,
	}
	for k, want := range cases {
		_, cmd := m.Update(runes(k))
		require.NotNil(t, cmd, k)
		assert.Equal(t, nav.GoMsg{To: want}, cmd(), k)
	}
}

func TestEmptyRoster(t *testing.T) {
	srv := backendtest.New(t)
	client := api.NewClient(&api.ClientConfig{BaseURL: srv.URL})
	m := New(context.Background(), client, dir.DefaultFilter(), styles.NewThemeNamed(styles.ThemeDark))
	m = load(t, m)
	assert.Contains(t, m.View(), "아직 캐릭터가 없어요")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Previewing())
}

func TestView_EmptySearchAtWidths(t *testing.T) {
	m, _ := newModel(t)
	m = load(t, m)
	m, _ = m.Update(runes("/"))
	for _, width := range []int{40, 80, 120} {
		m, _ = m.Update(tea.WindowSizeMsg{Width: width, Height: 30})

		var view string
		require.NotPanics(t, func() { view = m.View() }, "width %d", width)
		assert.Contains(t, view, "해시태그 검색", "width %d", width)
	}
}
