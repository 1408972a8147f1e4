// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory provides the character roster screen: a card grid with
// keyword, gender and age filters and a profile preview overlay.
package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/config"
	dir "github.com/jeranaias/companion-tui/internal/directory"
	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/ui/components"
	"github.com/jeranaias/companion-tui/internal/ui/nav"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// cardWidth is the width of one roster card including its border.
const cardWidth = 34

// LoadedMsg carries the roster fetch result.
type LoadedMsg struct {
	Characters []model.Character
	Err        error
}

// Model is the directory screen.
type Model struct {
	ctx    context.Context
	lister dir.Lister
	state  *dir.Directory
	theme  *styles.Theme
	keys   KeyMap

	search    textinput.Model
	searching bool
	preview   bool
	loading   bool
	spinner   spinner.Model

	header *components.Header
	status *components.StatusBar

	width  int
	height int
}

// searchHint is shown in the empty search input.
const searchHint = "이름, 소개, 해시태그 검색"

// New creates the directory screen with an initial filter.
func New(ctx context.Context, lister dir.Lister, filter dir.Filter, theme *styles.Theme) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = theme.InputPrompt
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = styles.LoadingSpinner
	sp.Style = theme.Spinner

	m := Model{
		ctx:     ctx,
		lister:  lister,
		state:   dir.New(filter),
		theme:   theme,
		keys:    DefaultKeyMap(),
		search:  ti,
		loading: true,
		spinner: sp,
		header:  components.NewHeader(theme),
		status:  components.NewStatusBar(theme),
		width:   80,
		height:  24,
	}
	m.header.Title = "캐릭터 목록"
	m.status.Shortcuts = shortcutsFor(m.keys.ShortHelp())
	return m
}

// Init starts the roster fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

// State exposes the roster state.
func (m Model) State() *dir.Directory {
	return m.state
}

// Previewing reports whether the profile overlay is open.
func (m Model) Previewing() bool {
	return m.preview
}

// Reload refetches the roster, e.g. after a character was created.
func (m Model) Reload() (Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.load(), m.spinner.Tick)
}

func (m Model) load() tea.Cmd {
	ctx, lister := m.ctx, m.lister
	return func() tea.Msg {
		chars, err := lister.ListCharacters(ctx)
		return LoadedMsg{Characters: chars, Err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.header.SetWidth(msg.Width)
		m.status.SetWidth(msg.Width)
		m.search.Width = maxInt(msg.Width-6, 10)
		return m, nil

	case LoadedMsg:
		m.loading = false
		m.state.SetResult(msg.Characters, msg.Err)
		if msg.Err == nil {
			m.status.Status = components.StatusReady
		} else {
			m.status.Status = components.StatusError
		}
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
		case m.searching:
			return m.handleSearchKey(msg)
		case m.preview:
			return m.handlePreviewKey(msg)
		default:
			return m.handleKey(msg)
		}
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	f := m.state.Filter()
	f.Keyword = m.search.Value()
	m.state.SetFilter(f)
	return m, cmd
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.preview = false
	case key.Matches(msg, m.keys.Open):
		if c, ok := m.state.Selected(); ok {
			m.preview = false
			return m, nav.OpenChat(c.ID, 0)
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	cols := m.columns()
	f := m.state.Filter()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.state.Move(-cols)
	case key.Matches(msg, m.keys.Down):
		m.state.Move(cols)
	case key.Matches(msg, m.keys.Left):
		m.state.Move(-1)
	case key.Matches(msg, m.keys.Right):
		m.state.Move(1)
	case key.Matches(msg, m.keys.Open):
		if _, ok := m.state.Selected(); ok {
			m.preview = true
		}
	case key.Matches(msg, m.keys.Close):
		if f.Keyword != "" {
			f.Keyword = ""
			m.search.SetValue("")
			m.state.SetFilter(f)
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Gender):
		m.state.SetFilter(f.NextGender())
	case key.Matches(msg, m.keys.MinDown):
		m.state.SetFilter(adjustAges(f, -1, 0))
	case key.Matches(msg, m.keys.MinUp):
		m.state.SetFilter(adjustAges(f, 1, 0))
	case key.Matches(msg, m.keys.MaxDown):
		m.state.SetFilter(adjustAges(f, 0, -1))
	case key.Matches(msg, m.keys.MaxUp):
		m.state.SetFilter(adjustAges(f, 0, 1))
	case key.Matches(msg, m.keys.Reset):
		m.search.SetValue("")
		m.state.SetFilter(dir.DefaultFilter())
	case key.Matches(msg, m.keys.Create):
		return m, nav.Go(nav.ScreenCreate)
	case key.Matches(msg, m.keys.History):
		return m, nav.Go(nav.ScreenHistory)
	case key.Matches(msg, m.keys.Settings):
		return m, nav.Go(nav.ScreenSettings)
	case key.Matches(msg, m.keys.Reload):
		return m.Reload()
	}
	return m, nil
}

// adjustAges moves the age bounds, keeping 0 <= min <= max <= config.MaxAge.
func adjustAges(f dir.Filter, dMin, dMax int) dir.Filter {
	f.MinAge = clamp(f.MinAge+dMin, 0, config.MaxAge)
	f.MaxAge = clamp(f.MaxAge+dMax, 0, config.MaxAge)
	if f.MinAge > f.MaxAge {
		if dMin != 0 {
			f.MaxAge = f.MinAge
		} else {
			f.MinAge = f.MaxAge
		}
	}
	return f
}

func (m Model) columns() int {
	return maxInt(m.width/cardWidth, 1)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the directory screen.
func (m Model) View() string {
	m.header.Subtitle = m.state.Filter().String()
	header := m.header.View()

	filterLine := m.theme.FormHint.Render(m.filterSummary())
	if m.searching || m.state.Filter().Keyword != "" {
		filterLine = components.InputView(m.search, searchHint, m.theme.InputPlaceholder)
	}

	m.status.Message = ""
	if m.searching {
		m.status.Message = "검색 중 (enter/esc 완료)"
	}
	status := m.status.View()

	bodyHeight := maxInt(m.height-lipgloss.Height(header)-lipgloss.Height(status)-1, 3)
	var body string
	switch {
	case m.loading:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" 캐릭터를 불러오는 중")
	case m.state.Err() != nil:
		box := components.NewErrorBox(m.state.Err(), m.theme)
		box.Width = minInt(m.width-4, 70)
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, box.View())
	case m.preview:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderPreview())
	default:
		body = m.renderGrid(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, filterLine, body, status)
}

func (m Model) filterSummary() string {
	visible := len(m.state.Visible())
	return fmt.Sprintf("%d / %d명 · g 성별 · [ ] 최소 나이 · { } 최대 나이 · / 검색", visible, m.state.Total())
}

func (m Model) renderGrid(height int) string {
	visible := m.state.Visible()
	if len(visible) == 0 {
		msg := "조건에 맞는 캐릭터가 없어요"
		if m.state.Total() == 0 {
			msg = "아직 캐릭터가 없어요. n 키로 만들어보세요"
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.theme.FormHint.Render(msg))
	}

	cols := m.columns()
	cardHeight := 6
	visibleRows := maxInt(height/cardHeight, 1)
	cursorRow := m.state.Cursor() / cols
	firstRow := 0
	if cursorRow >= visibleRows {
		firstRow = cursorRow - visibleRows + 1
	}

	var rows []string
	for start := firstRow * cols; start < len(visible) && len(rows) < visibleRows; start += cols {
		end := minInt(start+cols, len(visible))
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			card := components.NewCharacterCard(visible[i], m.theme)
			card.Width = cardWidth
			card.Selected = i == m.state.Cursor()
			cards = append(cards, card.View())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderPreview() string {
	c, ok := m.state.Selected()
	if !ok {
		return ""
	}
	width := minInt(m.width-4, 60)
	text := dir.Preview(c)
	name, rest, _ := strings.Cut(text, "\n")
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.CardName.Render(name),
		lipgloss.NewStyle().Width(width-4).Render(rest),
		"",
		m.theme.ShortcutKey.Render("enter")+" "+m.theme.ShortcutDesc.Render("대화 시작")+"  "+
			m.theme.ShortcutKey.Render("esc")+" "+m.theme.ShortcutDesc.Render("닫기"),
	)
	return m.theme.Panel.Width(width).Render(body)
}

// =============================================================================
// HELPERS
// =============================================================================

func shortcutsFor(bindings []key.Binding) []components.Shortcut {
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
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
