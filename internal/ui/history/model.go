// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides the conversation history screen.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	hist "github.com/jeranaias/companion-tui/internal/history"
	"github.com/jeranaias/companion-tui/internal/ui/components"
	"github.com/jeranaias/companion-tui/internal/ui/nav"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
	"github.com/jeranaias/companion-tui/internal/util"
)

// now is replaced in tests.
var now = time.Now

// LoadedMsg carries the history fetch result.
type LoadedMsg struct {
	Entries []hist.Entry
	Err     error
}

// KeyMap defines the history bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Reload key.Binding
	Back   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "위")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "아래")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "이어서 대화")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "새로고침")),
		Back:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "뒤로")),
	}
}

// Model is the history screen.
type Model struct {
	ctx    context.Context
	source hist.Source
	state  *hist.History
	theme  *styles.Theme
	keys   KeyMap

	loading bool
	spinner spinner.Model
	header  *components.Header
	status  *components.StatusBar

	width  int
	height int
}

// New creates the history screen. Call Init to start loading.
func New(ctx context.Context, source hist.Source, theme *styles.Theme) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	sp := spinner.New()
	sp.Spinner = styles.LoadingSpinner
	sp.Style = theme.Spinner

	m := Model{
		ctx:     ctx,
		source:  source,
		state:   hist.New(),
		theme:   theme,
		keys:    DefaultKeyMap(),
		loading: true,
		spinner: sp,
		header:  components.NewHeader(theme),
		status:  components.NewStatusBar(theme),
		width:   80,
		height:  24,
	}
	m.header.Title = nav.ScreenHistory.String()
	for _, b := range []key.Binding{m.keys.Open, m.keys.Reload, m.keys.Back} {
		h := b.Help()
		m.status.Shortcuts = append(m.status.Shortcuts, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return m
}

// Init starts loading.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

// State exposes the history state.
func (m Model) State() *hist.History {
	return m.state
}

func (m Model) load() tea.Cmd {
	ctx, src := m.ctx, m.source
	return func() tea.Msg {
		entries, err := hist.Fetch(ctx, src)
		return LoadedMsg{Entries: entries, Err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.header.SetWidth(msg.Width)
		m.status.SetWidth(msg.Width)
		return m, nil

	case LoadedMsg:
		m.loading = false
		m.state.SetResult(msg.Entries, msg.Err)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, nav.Go(nav.ScreenDirectory)
		case key.Matches(msg, m.keys.Up):
			m.state.Move(-1)
		case key.Matches(msg, m.keys.Down):
			m.state.Move(1)
		case key.Matches(msg, m.keys.Reload):
			m.loading = true
			return m, tea.Batch(m.load(), m.spinner.Tick)
		case key.Matches(msg, m.keys.Open):
			if e, ok := m.state.Selected(); ok {
				return m, nav.OpenChat(e.CharacterID, e.ConversationID)
			}
		}
	}
	return m, nil
}

// View renders the history list.
func (m Model) View() string {
	header := m.header.View()

	switch {
	case m.loading:
		m.status.Status = components.StatusLoading
	case m.state.Err() != nil:
		m.status.Status = components.StatusError
	default:
		m.status.Status = components.StatusReady
	}
	m.status.Message = ""
	if m.state.Loaded() && m.state.Err() == nil {
		m.status.Message = fmt.Sprintf("대화 %d개", len(m.state.Entries()))
	}
	status := m.status.View()

	bodyHeight := maxInt(m.height-lipgloss.Height(header)-lipgloss.Height(status), 3)
	var body string
	switch {
	case m.loading:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" 대화 기록을 불러오는 중")
	case m.state.Err() != nil:
		box := components.NewErrorBox(m.state.Err(), m.theme)
		box.Width = minInt(m.width-4, 70)
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, box.View())
	case len(m.state.Entries()) == 0:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.theme.FormHint.Render("아직 대화 기록이 없어요"))
	default:
		body = m.renderList(bodyHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) renderList(height int) string {
	entries := m.state.Entries()
	cursor := m.state.Cursor()
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	t := now()

	var lines []string
	for i := start; i < len(entries) && len(lines) < height; i++ {
		e := entries[i]
		name := util.PadWidth(util.TruncateWidth(e.CharacterName, 16), 16)
		meta := fmt.Sprintf("대화 #%d · %s · %s", e.ConversationID, e.SafeLabel(), hist.RelativeTime(e.UpdatedAt, t))
		line := name + "  " + m.theme.ListMeta.Render(meta)
		if i == cursor {
			lines = append(lines, m.theme.ListItemSelected.Render("> "+line))
		} else {
			lines = append(lines, m.theme.ListItem.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
