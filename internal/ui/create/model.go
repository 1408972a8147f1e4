// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package create provides the character creation screen: a tabbed form with
// per-slot image uploads and a live summary of the request.
package create

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/creation"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/ui/components"
	"github.com/jeranaias/companion-tui/internal/ui/nav"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
)

// statusTTL is how long transient status lines stay up.
const statusTTL = 3 * time.Second

// Backend is the part of the API client the form needs.
type Backend interface {
	creation.Creator
	creation.Uploader
}

// UploadedMsg carries one slot's upload result.
type UploadedMsg struct {
	Slot   creation.Slot
	File   creation.File
	Result *api.UploadResult
	Err    error
}

// CreatedMsg carries the creation result.
type CreatedMsg struct {
	Character *model.Character
	Err       error
}

type clearStatusMsg struct {
	gen int
}

// Model is the creation screen.
type Model struct {
	ctx     context.Context
	backend Backend
	theme   *styles.Theme
	keys    KeyMap

	form   *creation.Form
	fields []field
	focus  int

	submitting bool
	spinner    spinner.Model
	header     *components.Header
	status     *components.StatusBar

	statusMsg string
	statusErr bool
	statusGen int

	width  int
	height int
}

// New creates an empty form.
func New(ctx context.Context, backend Backend, theme *styles.Theme) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	form := creation.NewForm()

	sp := spinner.New()
	sp.Spinner = styles.LoadingSpinner
	sp.Style = theme.Spinner

	m := Model{
		ctx:     ctx,
		backend: backend,
		theme:   theme,
		keys:    DefaultKeyMap(),
		form:    form,
		fields:  buildFields(form),
		spinner: sp,
		header:  components.NewHeader(theme),
		status:  components.NewStatusBar(theme),
		width:   80,
		height:  24,
	}
	m.header.Title = nav.ScreenCreate.String()
	m.status.Shortcuts = shortcutsFor(m.keys.ShortHelp())
	m.fields[0].input.Focus()
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return m.fields[m.focus].input.Focus()
}

// Form exposes the underlying form state.
func (m Model) Form() *creation.Form {
	return m.form
}

// StatusMessage returns the transient status line.
func (m Model) StatusMessage() string {
	return m.statusMsg
}

// Submitting reports whether a create request is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.header.SetWidth(msg.Width)
		m.status.SetWidth(msg.Width)
		for i := range m.fields {
			m.fields[i].input.Width = maxInt(msg.Width-24, 10)
		}
		return m, nil

	case UploadedMsg:
		return m.handleUploaded(msg)

	case CreatedMsg:
		return m.handleCreated(msg)

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

	return m.updateFocused(msg)
}

func (m Model) busy() bool {
	return m.submitting || len(m.form.Uploading()) > 0
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	fd := &m.fields[m.focus]
	if fd.kind != kindText && fd.kind != kindSlot {
		return m, nil
	}
	var cmd tea.Cmd
	fd.input, cmd = fd.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	fd := m.fields[m.focus]

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, nav.Go(nav.ScreenDirectory)

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Upload):
		if fd.kind != kindSlot {
			return m.setStatus("이미지 칸에서만 업로드할 수 있어요", false)
		}
		return m.upload(fd.slot, fd.input.Value())

	case key.Matches(msg, m.keys.Enter):
		if fd.kind == kindSubmit {
			return m.submit()
		}
		return m.moveFocus(1)

	case fd.kind == kindChoice && key.Matches(msg, m.keys.Left):
		m.cycle(-1)
		return m, nil

	case fd.kind == kindChoice && (key.Matches(msg, m.keys.Right) || msg.String() == " "):
		m.cycle(1)
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) moveFocus(delta int) (Model, tea.Cmd) {
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	fd := &m.fields[m.focus]
	if fd.kind == kindText || fd.kind == kindSlot {
		return m, fd.input.Focus()
	}
	return m, nil
}

func (m *Model) cycle(delta int) {
	fd := &m.fields[m.focus]
	n := len(fd.options)
	fd.choice = (fd.choice + delta + n) % n
}

// =============================================================================
// ACTIONS
// =============================================================================

// upload starts an upload of the local file at path into slot. Uploads to
// different slots run concurrently.
func (m Model) upload(slot creation.Slot, path string) (Model, tea.Cmd) {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return m.setStatus("업로드할 파일 경로를 입력해주세요", true)
	}
	if err := m.form.BeginUpload(slot); err != nil {
		return m.setStatus(err.Error(), true)
	}
	ctx, backend := m.ctx, m.backend
	run := func() tea.Msg {
		file := creation.File{Name: filepath.Base(path)}
		fh, err := os.Open(path)
		if err != nil {
			return UploadedMsg{Slot: slot, File: file, Err: err}
		}
		defer fh.Close()
		if info, err := fh.Stat(); err == nil {
			file.Size = info.Size()
		}
		res, err := backend.UploadImage(ctx, path, fh)
		return UploadedMsg{Slot: slot, File: file, Result: res, Err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) handleUploaded(msg UploadedMsg) (Model, tea.Cmd) {
	m.form.CompleteUpload(msg.Slot, msg.File, msg.Result, msg.Err)
	if err := m.form.UploadError(msg.Slot); err != nil {
		return m.setStatus(msg.Slot.Label()+" 이미지 업로드 실패: "+err.Error(), true)
	}
	for i := range m.fields {
		if m.fields[i].kind == kindSlot && m.fields[i].slot == msg.Slot {
			m.fields[i].input.SetValue(m.form.SlotValue(msg.Slot))
		}
	}
	return m.setStatus(msg.Slot.Label()+" 이미지 업로드 완료: "+m.form.Preview(msg.Slot), false)
}

// submit validates locally and sends the create request. Invalid forms never
// reach the network.
func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if err := apply(m.fields, m.form); err != nil {
		return m.focusInvalid(err)
	}
	if err := m.form.Validate(); err != nil {
		return m.focusInvalid(err)
	}

	m.submitting = true
	ctx, backend, req := m.ctx, m.backend, m.form.Payload()
	run := func() tea.Msg {
		c, err := backend.CreateCharacter(ctx, req)
		return CreatedMsg{Character: c, Err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) focusInvalid(err error) (Model, tea.Cmd) {
	var verr *creation.ValidationError
	if errors.As(err, &verr) {
		for i, fd := range m.fields {
			if fd.id == verr.Field && i != m.focus {
				m, _ = m.moveFocus(i - m.focus)
				break
			}
		}
	}
	return m.setStatus(err.Error(), true)
}

func (m Model) handleCreated(msg CreatedMsg) (Model, tea.Cmd) {
	m.submitting = false
	if msg.Err == nil && msg.Character == nil {
		msg.Err = errors.New("빈 응답")
	}
	if msg.Err != nil {
		logging.L().WithError(msg.Err).Warn("character creation failed")
		return m.setStatus(msg.Err.Error(), true)
	}
	c := *msg.Character
	logging.L().WithField("character_id", c.ID).Info("character created")
	return m, tea.Batch(nav.Created(c), nav.OpenChat(c.ID, 0))
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

// View renders the form and the request summary.
func (m Model) View() string {
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

	rows := make([]string, 0, len(m.fields))
	for i, fd := range m.fields {
		rows = append(rows, m.renderField(i, fd))
	}

	summary := m.summary()
	bodyHeight := maxInt(m.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(summary), 3)
	body := window(rows, m.focus, bodyHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, summary, status)
}

func (m Model) renderField(i int, fd field) string {
	focused := i == m.focus
	labelStyle := m.theme.FormLabel
	if focused {
		labelStyle = m.theme.FormLabelFocused
	}
	label := labelStyle.Render(padLabel(fd.label))

	switch fd.kind {
	case kindSubmit:
		btn := "[ 만들기 ]"
		if m.submitting {
			btn = m.spinner.View() + " 만드는 중"
		}
		if focused {
			return m.theme.ListItemSelected.Render(btn)
		}
		return m.theme.ListItem.Render(btn)

	case kindChoice:
		opts := make([]string, len(fd.options))
		for j, o := range fd.options {
			if j == fd.choice {
				opts[j] = m.theme.FormValue.Render("(" + o + ")")
			} else {
				opts[j] = m.theme.FormHint.Render(" " + o + " ")
			}
		}
		return label + strings.Join(opts, " ")

	case kindSlot:
		line := label + components.InputView(fd.input, fd.placeholder, m.theme.InputPlaceholder)
		switch {
		case m.form.IsUploading(fd.slot):
			line += "  " + m.spinner.View() + " 업로드 중"
		case m.form.UploadError(fd.slot) != nil:
			line += "  " + m.theme.ErrorStyle.Render(styles.StatusIndicators.Error+" "+m.form.UploadError(fd.slot).Error())
		case m.form.Preview(fd.slot) != "":
			line += "  " + m.theme.SuccessStyle.Render(styles.StatusIndicators.Success+" "+m.form.Preview(fd.slot))
		}
		if focused {
			line += "\n" + strings.Repeat(" ", labelWidth) + m.theme.FormHint.Render(fd.hint)
		}
		return line
	}

	line := label + components.InputView(fd.input, fd.placeholder, m.theme.InputPlaceholder)
	if focused && fd.hint != "" {
		line += "  " + m.theme.FormHint.Render(fd.hint)
	}
	return line
}

// summary previews the request the form would send.
func (m Model) summary() string {
	preview := creation.NewForm()
	for _, s := range creation.Slots() {
		preview.SetSlotValue(s, m.form.SlotValue(s))
	}
	if err := apply(m.fields, preview); err != nil {
		return m.theme.FormHint.Render("미리보기: " + err.Error())
	}
	if strings.TrimSpace(preview.Name) == "" {
		preview.Name = "(이름 없음)"
	}
	text := creation.Summary(preview.Payload())
	return m.theme.Panel.Width(maxInt(m.width-2, 20)).Render(text)
}

// =============================================================================
// HELPERS
// =============================================================================

const labelWidth = 14

func padLabel(s string) string {
	return lipgloss.NewStyle().Width(labelWidth).Render(s)
}

// window returns the rows around focus that fit in height lines.
func window(rows []string, focus, height int) string {
	start := 0
	used := 0
	for i := focus; i >= 0; i-- {
		used += lipgloss.Height(rows[i])
		if used > height {
			break
		}
		start = i
	}
	var out []string
	used = 0
	for i := start; i < len(rows); i++ {
		h := lipgloss.Height(rows[i])
		if used+h > height {
			break
		}
		out = append(out, rows[i])
		used += h
	}
	return strings.Join(out, "\n")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func shortcutsFor(bindings []key.Binding) []components.Shortcut {
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
