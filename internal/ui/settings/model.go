// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings provides the settings screen: nickname, safe-mode default
// and backend connection checks.
package settings

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/api"
	prefs "github.com/jeranaias/companion-tui/internal/settings"
	"github.com/jeranaias/companion-tui/internal/ui/components"
	"github.com/jeranaias/companion-tui/internal/ui/nav"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// statusTTL is how long transient status lines stay up.
const statusTTL = 3 * time.Second

// nicknameHint is shown in the empty nickname input.
const nicknameHint = "닉네임"

// Rows of the panel, in focus order.
const (
	rowNickname = iota
	rowSafeMode
	rowProbe
	rowModel
	rowCount
)

// Config wires the screen to shared state.
type Config struct {
	Context  context.Context
	Settings *prefs.Settings
	Prober   prefs.Prober

	// BaseURL is shown for reference.
	BaseURL string
}

// ProbeResultMsg carries a /health result for probe generation Gen.
type ProbeResultMsg struct {
	Gen int
	OK  bool
}

// ProbeResetMsg returns probe generation Gen to idle.
type ProbeResetMsg struct {
	Gen int
}

// ModelHealthMsg carries the deep probe result.
type ModelHealthMsg struct {
	Health *api.ModelHealth
	Err    error
}

type clearStatusMsg struct {
	gen int
}

// KeyMap defines the settings bindings.
type KeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Back     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "다음")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "이전")),
		Activate: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "실행")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "뒤로")),
	}
}

// Model is the settings screen.
type Model struct {
	cfg   Config
	theme *styles.Theme
	keys  KeyMap

	nickname textinput.Model
	focus    int

	checkingModel bool
	spinner       spinner.Model
	header        *components.Header
	status        *components.StatusBar

	statusMsg string
	statusErr bool
	statusGen int

	width  int
	height int
}

// New creates the settings screen.
func New(cfg Config, theme *styles.Theme) Model {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Settings == nil {
		cfg.Settings = prefs.New()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 30
	ti.SetValue(cfg.Settings.Nickname())
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = styles.LoadingSpinner
	sp.Style = theme.Spinner

	m := Model{
		cfg:      cfg,
		theme:    theme,
		keys:     DefaultKeyMap(),
		nickname: ti,
		spinner:  sp,
		header:   components.NewHeader(theme),
		status:   components.NewStatusBar(theme),
		width:    80,
		height:   24,
	}
	m.header.Title = nav.ScreenSettings.String()
	m.status.Shortcuts = []components.Shortcut{
		{Key: "tab", Desc: "이동"},
		{Key: "enter", Desc: "실행"},
		{Key: "esc", Desc: "뒤로"},
	}
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// StatusMessage returns the transient status line.
func (m Model) StatusMessage() string {
	return m.statusMsg
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.header.SetWidth(msg.Width)
		m.status.SetWidth(msg.Width)
		m.nickname.Width = maxInt(msg.Width-24, 10)
		return m, nil

	case ProbeResultMsg:
		m.cfg.Settings.CompleteProbe(msg.Gen, msg.OK)
		gen := msg.Gen
		return m, tea.Tick(prefs.ProbeResetAfter, func(time.Time) tea.Msg { return ProbeResetMsg{Gen: gen} })

	case ProbeResetMsg:
		m.cfg.Settings.ResetProbe(msg.Gen)
		return m, nil

	case ModelHealthMsg:
		m.checkingModel = false
		m.cfg.Settings.SetModelHealth(msg.Health, msg.Err)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		if msg.gen == m.statusGen {
			m.statusMsg, m.statusErr = "", false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == rowNickname {
		var cmd tea.Cmd
		m.nickname, cmd = m.nickname.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) busy() bool {
	return m.checkingModel || m.cfg.Settings.Probe() == prefs.ProbeTesting
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.commitNickname()
		return m, nav.Go(nav.ScreenDirectory)

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)

	case key.Matches(msg, m.keys.Activate) && (m.focus != rowNickname || msg.Type == tea.KeyEnter):
		return m.activate()
	}

	if m.focus == rowNickname {
		var cmd tea.Cmd
		m.nickname, cmd = m.nickname.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) moveFocus(delta int) (Model, tea.Cmd) {
	if m.focus == rowNickname {
		m.commitNickname()
		m.nickname.Blur()
	}
	m.focus = (m.focus + delta + rowCount) % rowCount
	if m.focus == rowNickname {
		return m, m.nickname.Focus()
	}
	return m, nil
}

// commitNickname applies the typed nickname. Blank restores the default.
func (m *Model) commitNickname() {
	m.cfg.Settings.SetNickname(m.nickname.Value())
	m.nickname.SetValue(m.cfg.Settings.Nickname())
}

func (m Model) activate() (Model, tea.Cmd) {
	switch m.focus {
	case rowNickname:
		m.commitNickname()
		return m.setStatus("닉네임: "+m.cfg.Settings.Nickname(), false)

	case rowSafeMode:
		if m.cfg.Settings.ToggleSafeModeDefault() {
			return m.setStatus("새 대화는 세이프 모드로 시작해요", false)
		}
		return m.setStatus("새 대화는 세이프 모드 없이 시작해요", false)

	case rowProbe:
		if m.cfg.Settings.Probe() == prefs.ProbeTesting {
			return m, nil
		}
		gen := m.cfg.Settings.BeginProbe()
		ctx, p := m.cfg.Context, m.cfg.Prober
		run := func() tea.Msg {
			return ProbeResultMsg{Gen: gen, OK: p.Health(ctx)}
		}
		return m, tea.Batch(run, m.spinner.Tick)

	case rowModel:
		if m.checkingModel {
			return m, nil
		}
		m.checkingModel = true
		ctx, p := m.cfg.Context, m.cfg.Prober
		run := func() tea.Msg {
			h, err := p.ModelHealth(ctx)
			return ModelHealthMsg{Health: h, Err: err}
		}
		return m, tea.Batch(run, m.spinner.Tick)
	}
	return m, nil
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.statusGen++
	m.statusMsg, m.statusErr = text, isErr
	gen := m.statusGen
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{gen: gen} })
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the settings panel.
func (m Model) View() string {
	s := m.cfg.Settings
	header := m.header.View()

	m.status.Status = components.StatusReady
	switch {
	case m.statusErr:
		m.status.Status = components.StatusError
	case m.busy():
		m.status.Status = components.StatusLoading
	}
	m.status.Message = m.statusMsg
	status := m.status.View()

	probe := s.Probe().String()
	switch s.Probe() {
	case prefs.ProbeTesting:
		probe = m.spinner.View() + " " + probe
	case prefs.ProbeOK:
		probe = m.theme.SuccessStyle.Render(styles.StatusIndicators.Success + " " + probe)
	case prefs.ProbeFail:
		probe = m.theme.ErrorStyle.Render(styles.StatusIndicators.Error + " " + probe)
	}

	modelLine := s.ModelSummary()
	if m.checkingModel {
		modelLine = m.spinner.View() + " 모델 확인 중..."
	}

	rows := []string{
		m.row(rowNickname, "닉네임", components.InputView(m.nickname, nicknameHint, m.theme.InputPlaceholder)),
		m.row(rowSafeMode, "기본 세이프 모드", components.SafeModeBadge(m.theme, s.SafeModeDefault())),
		m.row(rowProbe, "백엔드 연결", probe),
		m.row(rowModel, "모델 상태", modelLine),
		"",
		m.theme.FormHint.Render("서버: " + m.cfg.BaseURL),
	}

	width := minInt(m.width-4, 80)
	panel := m.theme.Panel.Width(maxInt(width, 20)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	bodyHeight := maxInt(m.height-lipgloss.Height(header)-lipgloss.Height(status), 3)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Top, panel)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) row(i int, label, value string) string {
	style := m.theme.FormLabel
	marker := "  "
	if i == m.focus {
		style = m.theme.FormLabelFocused
		marker = "> "
	}
	return marker + style.Width(18).Render(label) + m.theme.PanelValue.Render(value)
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
