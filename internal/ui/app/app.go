// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model. It owns the shared state (API
// client, settings, theme), switches between screens on nav messages and
// applies config reloads.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/companion-tui/internal/config"
	"github.com/jeranaias/companion-tui/internal/creation"
	dir "github.com/jeranaias/companion-tui/internal/directory"
	hist "github.com/jeranaias/companion-tui/internal/history"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/session"
	prefs "github.com/jeranaias/companion-tui/internal/settings"
	"github.com/jeranaias/companion-tui/internal/ui/chat"
	"github.com/jeranaias/companion-tui/internal/ui/create"
	"github.com/jeranaias/companion-tui/internal/ui/directory"
	"github.com/jeranaias/companion-tui/internal/ui/history"
	"github.com/jeranaias/companion-tui/internal/ui/nav"
	"github.com/jeranaias/companion-tui/internal/ui/settings"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// Backend is everything the screens ask of the API client.
type Backend interface {
	session.Backend
	creation.Creator
	creation.Uploader
	prefs.Prober
	hist.Source
}

// Options configures the root model.
type Options struct {
	Backend  Backend
	Config   *config.Config
	Settings *prefs.Settings

	// StartCharacter opens a chat with this character immediately.
	// StartConversation resumes that conversation; 0 starts a new one.
	StartCharacter    int64
	StartConversation int64

	// Reloads delivers config file changes. Nil disables hot reload.
	Reloads <-chan config.Reload
}

// ReloadMsg wraps a config reload for the update loop.
type ReloadMsg struct {
	config.Reload
}

// Model is the root model.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	backend Backend
	cfg     *config.Config
	prefs   *prefs.Settings
	theme   *styles.Theme
	reloads <-chan config.Reload

	screen    nav.Screen
	directory directory.Model
	chat      chat.Model
	create    create.Model
	settings  settings.Model
	history   history.Model

	start  nav.OpenChatMsg
	width  int
	height int
}

// New builds the root model. ctx bounds every request; quitting cancels it.
func New(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	p := opts.Settings
	if p == nil {
		p = prefs.FromConfig(cfg)
	}
	theme := styles.NewThemeNamed(cfg.UI.Theme)

	m := &Model{
		ctx:     ctx,
		cancel:  cancel,
		backend: opts.Backend,
		cfg:     cfg,
		prefs:   p,
		theme:   theme,
		reloads: opts.Reloads,
		screen:  nav.ScreenDirectory,
		start:   nav.OpenChatMsg{CharacterID: opts.StartCharacter, ConversationID: opts.StartConversation},
		width:   80,
		height:  24,
	}
	m.directory = directory.New(ctx, opts.Backend, initialFilter(cfg), theme)
	return m
}

// initialFilter seeds the directory from the configured age range.
func initialFilter(cfg *config.Config) dir.Filter {
	f := dir.DefaultFilter()
	f.MinAge = cfg.Defaults.MinAge
	f.MaxAge = cfg.Defaults.MaxAge
	return f
}

// Screen returns the active screen.
func (m *Model) Screen() nav.Screen {
	return m.screen
}

// Settings returns the shared settings.
func (m *Model) Settings() *prefs.Settings {
	return m.prefs
}

// Config returns the active configuration.
func (m *Model) Config() *config.Config {
	return m.cfg
}

// Context returns the root context. It is canceled when the user quits.
func (m *Model) Context() context.Context {
	return m.ctx
}

// Init loads the directory, opens the launch chat if one was requested and
// starts listening for config reloads.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.directory.Init(), m.waitForReload()}
	if m.start.CharacterID > 0 {
		cmds = append(cmds, func() tea.Msg { return m.start })
	}
	return tea.Batch(cmds...)
}

func (m *Model) waitForReload() tea.Cmd {
	ch := m.reloads
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg{Reload: r}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the active screen and handles navigation.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		return m, m.forward(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		return m, m.forward(msg)

	case nav.GoMsg:
		return m, m.goTo(msg.To)

	case nav.OpenChatMsg:
		return m, m.openChat(msg)

	case nav.CreatedMsg:
		var cmd tea.Cmd
		m.directory, cmd = m.directory.Reload()
		return m, cmd

	case ReloadMsg:
		m.applyReload(msg.Reload)
		return m, m.waitForReload()

	// Results are delivered to their owner even when another screen is up.
	case directory.LoadedMsg:
		var cmd tea.Cmd
		m.directory, cmd = m.directory.Update(msg)
		return m, cmd

	case chat.LoadedMsg, chat.ReplyMsg:
		if m.screen != nav.ScreenChat {
			return m, nil
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case create.UploadedMsg, create.CreatedMsg:
		if m.screen != nav.ScreenCreate {
			return m, nil
		}
		var cmd tea.Cmd
		m.create, cmd = m.create.Update(msg)
		return m, cmd

	case settings.ProbeResultMsg, settings.ProbeResetMsg, settings.ModelHealthMsg:
		if m.screen != nav.ScreenSettings {
			m.settleOffscreen(msg)
			return m, nil
		}
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd

	case history.LoadedMsg:
		if m.screen != nav.ScreenHistory {
			return m, nil
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		// Each spinner ignores ticks addressed to another.
		return m, m.broadcast(msg)
	}

	return m, m.forward(msg)
}

// settleOffscreen applies settings results that arrive after the user left
// the settings screen. Nothing displays the probe, so it goes straight back
// to idle.
func (m *Model) settleOffscreen(msg tea.Msg) {
	switch msg := msg.(type) {
	case settings.ProbeResultMsg:
		m.prefs.CompleteProbe(msg.Gen, msg.OK)
		m.prefs.ResetProbe(msg.Gen)
	case settings.ProbeResetMsg:
		m.prefs.ResetProbe(msg.Gen)
	case settings.ModelHealthMsg:
		m.prefs.SetModelHealth(msg.Health, msg.Err)
	}
}

func (m *Model) quit() tea.Cmd {
	logging.L().Info("quitting")
	m.cancel()
	return tea.Quit
}

// forward sends msg to the active screen.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.screen {
	case nav.ScreenChat:
		m.chat, cmd = m.chat.Update(msg)
	case nav.ScreenCreate:
		m.create, cmd = m.create.Update(msg)
	case nav.ScreenSettings:
		m.settings, cmd = m.settings.Update(msg)
	case nav.ScreenHistory:
		m.history, cmd = m.history.Update(msg)
	default:
		m.directory, cmd = m.directory.Update(msg)
	}
	return cmd
}

func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.directory, cmd = m.directory.Update(msg)
	cmds = append(cmds, cmd)
	if m.screen != nav.ScreenDirectory {
		cmds = append(cmds, m.forward(msg))
	}
	return tea.Batch(cmds...)
}

func (m *Model) size() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: m.height}
}

// goTo switches to a screen that takes no arguments. Leaving the chat
// discards its session.
func (m *Model) goTo(to nav.Screen) tea.Cmd {
	logging.L().WithFields(logrus.Fields{"from": m.screen.String(), "to": to.String()}).Debug("navigate")
	m.screen = to

	switch to {
	case nav.ScreenCreate:
		m.create = create.New(m.ctx, m.backend, m.theme)
		m.create, _ = m.create.Update(m.size())
		return m.create.Init()
	case nav.ScreenSettings:
		m.settings = settings.New(settings.Config{
			Context:  m.ctx,
			Settings: m.prefs,
			Prober:   m.backend,
			BaseURL:  m.cfg.API.BaseURL,
		}, m.theme)
		m.settings, _ = m.settings.Update(m.size())
		return m.settings.Init()
	case nav.ScreenHistory:
		m.history = history.New(m.ctx, m.backend, m.theme)
		m.history, _ = m.history.Update(m.size())
		return m.history.Init()
	case nav.ScreenChat:
		// Chats are opened with OpenChatMsg.
		m.screen = nav.ScreenDirectory
		fallthrough
	default:
		m.chat = chat.Model{}
		var cmd tea.Cmd
		m.directory, cmd = m.directory.Update(m.size())
		return cmd
	}
}

// openChat starts a fresh session seeded from the current settings.
func (m *Model) openChat(msg nav.OpenChatMsg) tea.Cmd {
	logging.L().WithFields(logrus.Fields{
		"character_id":    msg.CharacterID,
		"conversation_id": msg.ConversationID,
	}).Info("opening chat")

	m.screen = nav.ScreenChat
	m.chat = chat.New(chat.Config{
		Context:        m.ctx,
		Backend:        m.backend,
		CharacterID:    msg.CharacterID,
		Options:        m.prefs.SessionOptions(msg.ConversationID),
		ShowImagePanel: m.cfg.UI.ShowImagePanel,
	}, m.theme)
	m.chat, _ = m.chat.Update(m.size())
	return m.chat.Init()
}

// applyReload adopts a reloaded config for screens opened from now on. The
// API client and session settings keep their current values.
func (m *Model) applyReload(r config.Reload) {
	log := logging.L()
	if r.Err != nil {
		log.WithError(r.Err).Warn("ignoring invalid config reload")
		return
	}
	if r.Config.API.BaseURL != m.cfg.API.BaseURL {
		log.WithField("base_url", r.Config.API.BaseURL).Warn("api.base_url changed; restart to apply")
	}
	if r.Config.UI.Theme != m.cfg.UI.Theme {
		m.theme = styles.NewThemeNamed(r.Config.UI.Theme)
		m.theme.SetSize(m.width, m.height)
	}
	if r.Config.Logging.Level != m.cfg.Logging.Level {
		if lvl, err := logrus.ParseLevel(r.Config.Logging.Level); err == nil {
			log.SetLevel(lvl)
		}
	}
	m.cfg = r.Config
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen.
func (m *Model) View() string {
	switch m.screen {
	case nav.ScreenChat:
		return m.chat.View()
	case nav.ScreenCreate:
		return m.create.View()
	case nav.ScreenSettings:
		return m.settings.View()
	case nav.ScreenHistory:
		return m.history.View()
	default:
		return m.directory.View()
	}
}
