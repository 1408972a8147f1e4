// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/backendtest"
	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/ui/nav"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newModel(t *testing.T) (Model, *backendtest.Server) {
	t.Helper()
	prev := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = prev })

	srv := backendtest.New(t)
	client := api.NewClient(&api.ClientConfig{BaseURL: srv.URL})
	m := New(context.Background(), client, styles.NewThemeNamed(styles.ThemeDark))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	return m, srv
}

func load(t *testing.T, m Model) Model {
	t.Helper()
	loaded, ok := m.load()().(LoadedMsg)
	require.True(t, ok)
	m, _ = m.Update(loaded)
	return m
}

func seed(srv *backendtest.Server) (luna, haeon model.Character) {
	luna = srv.AddCharacter(model.Character{Name: "루나"})
	haeon = srv.AddCharacter(model.Character{Name: "해온"})
	srv.AddConversation(luna.ID, true, fixedNow.Add(-2*time.Hour))
	srv.AddConversation(haeon.ID, false, fixedNow.Add(-5*time.Minute))
	return luna, haeon
}

func TestLoad_NewestFirst(t *testing.T) {
	m, srv := newModel(t)
	seed(srv)
	assert.Contains(t, m.View(), "불러오는 중")

	m = load(t, m)
	entries := m.State().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "해온", entries[0].CharacterName)

	view := m.View()
	assert.Contains(t, view, "해온")
	assert.Contains(t, view, "세이프 OFF")
	assert.Contains(t, view, "5분 전")
	assert.Contains(t, view, "2시간 전")
	assert.Contains(t, view, "대화 2개")
}

func TestOpen_ResumesSelected(t *testing.T) {
	m, srv := newModel(t)
	luna, _ := seed(srv)
	m = load(t, m)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, nav.OpenChatMsg{CharacterID: luna.ID, ConversationID: 1}, cmd())
}

func TestEmpty(t *testing.T) {
	m, _ := newModel(t)
	m = load(t, m)
	assert.Contains(t, m.View(), "아직 대화 기록이 없어요")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestFailure_ThenReload(t *testing.T) {
	m, srv := newModel(t)
	seed(srv)
	srv.Fail("GET /conversations", http.StatusInternalServerError, "")
	m = load(t, m)
	require.Error(t, m.State().Err())
	assert.Contains(t, m.View(), api.MsgListConversations)

	srv.ClearFailures()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	m = load(t, m)
	assert.NoError(t, m.State().Err())
	assert.Len(t, m.State().Entries(), 2)
}

func TestBack(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, nav.GoMsg{To: nav.ScreenDirectory}, cmd())
}
