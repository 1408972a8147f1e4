// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/session"
	"github.com/jeranaias/companion-tui/internal/ui/components"
	"github.com/jeranaias/companion-tui/internal/ui/nav"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// statusTTL is how long transient status lines stay up.
const statusTTL = 3 * time.Second

// inputHint is shown in the empty message input.
const inputHint = "메시지를 입력하세요 (*행동*은 별표로 감싸기)"

// panelWidth is the image panel's width in columns.
const panelWidth = 30

// screens numbers chat screens so results for a discarded screen are dropped.
var screens atomic.Uint64

// Config describes the session to open.
type Config struct {
	// Context bounds every request the screen makes.
	Context        context.Context
	Backend        session.Backend
	CharacterID    int64
	Options        session.Options
	ShowImagePanel bool
}

// Model is the chat screen.
type Model struct {
	id          uint64
	ctx         context.Context
	backend     session.Backend
	characterID int64
	opts        session.Options
	theme       *styles.Theme
	keys        KeyMap

	sess    *session.Session
	loading bool
	loadErr error

	input    textinput.Model
	spinner  spinner.Model
	viewport *components.ChatViewport
	header   *components.Header
	status   *components.StatusBar
	panel    *components.ImagePanel

	showPanel bool
	width     int
	height    int

	statusMsg string
	statusErr bool
	statusGen int
}

// New creates the chat screen. Call Init to start loading.
func New(cfg Config, theme *styles.Theme) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = styles.TypingSpinner
	sp.Style = theme.Spinner

	m := Model{
		id:          screens.Add(1),
		ctx:         ctx,
		backend:     cfg.Backend,
		characterID: cfg.CharacterID,
		opts:        cfg.Options,
		theme:       theme,
		keys:        DefaultKeyMap(),
		loading:     true,
		input:       ti,
		spinner:     sp,
		viewport:    components.NewChatViewport(theme),
		header:      components.NewHeader(theme),
		status:      components.NewStatusBar(theme),
		panel:       components.NewImagePanel(theme),
		showPanel:   cfg.ShowImagePanel,
		width:       80,
		height:      24,
	}
	m.status.Shortcuts = shortcuts(m.keys.ShortHelp())
	m.layout()
	return m
}

// Init starts loading the character and history.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick, textinput.Blink)
}

// Session returns the loaded session, or nil while loading or after a load
// failure.
func (m Model) Session() *session.Session {
	return m.sess
}

// LoadErr returns the fatal load error, if any.
func (m Model) LoadErr() error {
	return m.loadErr
}

// canRetry reports whether the load failure may be retried in place. A
// missing character only offers navigation away.
func (m Model) canRetry() bool {
	return m.loadErr != nil && !errors.Is(m.loadErr, api.ErrNotFound)
}

// StatusMessage returns the transient status line.
func (m Model) StatusMessage() string {
	return m.statusMsg
}

func (m Model) load() tea.Cmd {
	ctx, backend, id, opts, screen := m.ctx, m.backend, m.characterID, m.opts, m.id
	return func() tea.Msg {
		s, err := session.Load(ctx, backend, id, opts)
		return LoadedMsg{Session: s, Err: err, screen: screen}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case LoadedMsg:
		return m.handleLoaded(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.sync()
		return m, cmd

	case clearStatusMsg:
		if msg.gen == m.statusGen {
			m.statusMsg, m.statusErr = "", false
			m.sync()
		}
		return m, nil

	case tea.MouseMsg:
		return m, m.viewport.Update(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) busy() bool {
	return m.loading || (m.sess != nil && m.sess.IsLoading())
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleLoaded(msg LoadedMsg) (Model, tea.Cmd) {
	if msg.screen != m.id {
		return m, nil
	}
	m.loading = false
	if msg.Err != nil {
		m.loadErr = msg.Err
		m.sync()
		return m, nil
	}
	m.sess = msg.Session
	m.loadErr = nil
	m.sync()
	if herr := m.sess.HistoryError(); herr != nil {
		return m.setStatus("이전 대화를 불러오지 못했어요: "+herr.Error(), true)
	}
	return m, nil
}

func (m Model) handleReply(msg ReplyMsg) (Model, tea.Cmd) {
	if msg.screen != m.id || m.sess == nil || msg.Pending == nil {
		return m, nil
	}
	out := m.sess.CompleteSend(msg.Pending, msg.Response, msg.Err)
	focus := m.input.Focus()
	m.viewport.ScrollToBottom()
	m.sync()
	if out.Failed() {
		var status tea.Cmd
		m, status = m.setStatus(out.Err.Error(), true)
		return m, tea.Batch(focus, status)
	}
	return m, focus
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, nav.Go(nav.ScreenDirectory)

	case m.sess == nil:
		if m.canRetry() && key.Matches(msg, m.keys.Retry) {
			m.loading, m.loadErr = true, nil
			m.sync()
			return m, tea.Batch(m.load(), m.spinner.Tick)
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.send()

	case key.Matches(msg, m.keys.SafeMode):
		if m.sess.ToggleSafeMode() {
			return m.setStatus("세이프 모드 켜짐", false)
		}
		return m.setStatus("세이프 모드 꺼짐", false)

	case key.Matches(msg, m.keys.CopyReply):
		last, ok := m.sess.LastReply()
		if !ok {
			return m.setStatus("복사할 답장이 없어요", false)
		}
		return m.copy(last.Content, "답장을 복사했어요 ("+sizeInfo(last.Content)+")")

	case key.Matches(msg, m.keys.CopyImage):
		ref := m.sess.CurrentImage()
		return m.copy(ref, "이미지 주소를 복사했어요: "+ref)

	case key.Matches(msg, m.keys.ImagePanel):
		m.showPanel = !m.showPanel
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ScrollUp(maxInt(m.height/2, 1))
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ScrollDown(maxInt(m.height/2, 1))
		return m, nil
	}

	// The input is read-only while a reply is pending.
	if m.busy() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send applies the optimistic part of a send and returns the command that
// delivers it.
func (m Model) send() (Model, tea.Cmd) {
	p, err := m.sess.BeginSend(m.input.Value())
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, session.ErrSendInFlight):
		return m.setStatus("답장을 기다리는 중이에요", false)
	case err != nil:
		return m.setStatus(err.Error(), true)
	}

	m.input.Reset()
	m.input.Blur()
	m.viewport.ScrollToBottom()
	m.sync()

	sess, ctx, screen := m.sess, m.ctx, m.id
	deliver := func() tea.Msg {
		resp, err := sess.Deliver(ctx, p)
		return ReplyMsg{Pending: p, Response: resp, Err: err, screen: screen}
	}
	return m, tea.Batch(deliver, m.spinner.Tick)
}

func (m Model) copy(text, okMsg string) (Model, tea.Cmd) {
	if err := copyToClipboard(text); err != nil {
		logging.L().WithError(err).Warn("clipboard write failed")
		return m.setStatus("복사 실패: "+err.Error(), true)
	}
	return m.setStatus(okMsg, false)
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.statusGen++
	m.statusMsg, m.statusErr = text, isErr
	m.sync()
	gen := m.statusGen
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{gen: gen} })
}

// =============================================================================
// LAYOUT AND SYNC
// =============================================================================

func (m Model) panelVisible() bool {
	return m.showPanel && styles.LayoutFor(m.width) != styles.LayoutNarrow
}

// layout recomputes component sizes. Components are pointers, so the
// changes survive the value receiver.
func (m *Model) layout() {
	const (
		headerHeight = 1
		inputHeight  = 2 // border + line
		statusHeight = 1
	)
	vpWidth := m.width
	if m.panelVisible() {
		vpWidth = m.width - panelWidth - 1
	}
	m.viewport.SetSize(maxInt(vpWidth, 10), maxInt(m.height-headerHeight-inputHeight-statusHeight, 3))
	m.input.Width = maxInt(m.width-6, 10)
	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.panel.Width = panelWidth
	m.sync()
}

// sync pushes session state into the components.
func (m *Model) sync() {
	switch {
	case m.loading:
		m.status.Status = components.StatusLoading
	case m.loadErr != nil:
		m.status.Status = components.StatusError
	case m.sess != nil && m.sess.IsLoading():
		m.status.Status = components.StatusSending
	default:
		m.status.Status = components.StatusReady
	}
	m.status.Message = m.statusMsg
	if m.statusErr {
		m.status.Status = components.StatusError
	}

	if m.sess == nil {
		m.header.Title = "companion"
		m.header.Subtitle = ""
		m.header.SafeMode = nil
		return
	}

	c := m.sess.Character()
	convID, hasConv := m.sess.ConversationID()
	safe := m.sess.SafeMode()
	m.header.Title = c.Name
	m.header.Subtitle = subtitle(c.Gender, c.AgeLabel(), convID, hasConv)
	m.header.SafeMode = &safe

	m.panel.Name = c.Name
	m.panel.Emotion = m.sess.CurrentEmotion()
	m.panel.ImageRef = m.sess.CurrentImage()

	m.viewport.SetSpeaker(c.Name)
	m.viewport.SetMessages(m.sess.Messages())
	if m.sess.IsLoading() {
		m.viewport.SetFooter(m.theme.TypingText.Render(c.Name+" 입력 중 ") + m.spinner.View())
	} else {
		m.viewport.SetFooter("")
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
