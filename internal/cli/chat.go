// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/companion-tui/internal/config"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/session"
	"github.com/jeranaias/companion-tui/internal/settings"
)

// resumeTail is how many loaded messages are replayed when resuming.
const resumeTail = 10

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of user input. io.EOF ends the chat.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// linerReader provides line editing and persistent input history on a
// terminal.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader() *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &linerReader{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the input history with owner-only permissions and restores
// the terminal.
func (r *linerReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = r.line.WriteHistory(f)
			f.Close()
		}
	}
	return r.line.Close()
}

// scanReader reads piped input. Prompts are not echoed.
type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) ReadLine(string) (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) Close() error { return nil }

func newLineReader(in io.Reader) lineReader {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return newLinerReader()
	}
	return &scanReader{sc: bufio.NewScanner(in)}
}

// =============================================================================
// REPLY RENDERING
// =============================================================================

// replyRenderer formats assistant replies. Markdown is rendered with glamour
// only when colors are on; piped output stays plain.
type replyRenderer struct {
	md *glamour.TermRenderer
}

func newReplyRenderer(plain bool) *replyRenderer {
	r := &replyRenderer{}
	if plain || !ColorsEnabled() {
		return r
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		logging.L().WithError(err).Debug("markdown renderer unavailable, using plain text")
		return r
	}
	r.md = md
	return r
}

func (r *replyRenderer) render(msg model.Message) string {
	if msg.RendersAsAction() {
		return ActionStyle.Render("* " + model.ActionBody(msg.Content) + " *")
	}
	if r.md != nil {
		if out, err := r.md.Render(msg.Content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return msg.Content
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// chatREPL is one line-mode conversation.
type chatREPL struct {
	env      *Env
	sess     *session.Session
	input    lineReader
	renderer *replyRenderer
}

// RunChat opens a conversation with one character and reads messages line
// by line until /quit, EOF or Ctrl+C.
func RunChat(ctx context.Context, env *Env, argv []string) error {
	args := NewArgParser(argv, "unsafe", "safe", "plain")
	id, err := ParseID(args.Positional(0), "character-id")
	if err != nil {
		return err
	}
	convID, err := args.FlagID("conversation")
	if err != nil {
		return err
	}

	prefs := settings.FromConfig(env.Config)
	if nick := args.Flag("nickname"); nick != "" {
		prefs.SetNickname(nick)
	}
	switch {
	case args.BoolFlag("unsafe"):
		prefs.SetSafeModeDefault(false)
	case args.BoolFlag("safe"):
		prefs.SetSafeModeDefault(true)
	}

	sess, err := session.Load(ctx, env.Client, id, prefs.SessionOptions(convID))
	if err != nil {
		return err
	}

	repl := &chatREPL{
		env:      env,
		sess:     sess,
		input:    newLineReader(env.In),
		renderer: newReplyRenderer(args.BoolFlag("plain")),
	}
	defer repl.input.Close()
	return repl.run(ctx)
}

func (r *chatREPL) run(ctx context.Context) error {
	r.printWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := r.input.ReadLine(r.prompt())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		text := strings.TrimSpace(line)
		switch {
		case text == "":
			continue
		case strings.HasPrefix(text, "/"):
			if quit := r.handleSlash(text); quit {
				return r.finish()
			}
			continue
		}

		p, err := r.sess.BeginSend(text)
		if err != nil {
			fmt.Fprintln(r.env.Err, WarningStyle.Render(err.Error()))
			continue
		}
		resp, err := r.sess.Deliver(ctx, p)
		out := r.sess.CompleteSend(p, resp, err)
		r.printReply(out.Reply)
		if out.Failed() && !r.env.Quiet {
			fmt.Fprintln(r.env.Err, DimStyle.Render("("+out.Err.Error()+")"))
		}
	}
	return r.finish()
}

func (r *chatREPL) prompt() string {
	return r.sess.Nickname() + "> "
}

func (r *chatREPL) name() string {
	if c := r.sess.Character(); c != nil {
		return c.Name
	}
	return "?"
}

func safeBadge(on bool) string {
	if on {
		return "[세이프 ON]"
	}
	return "[세이프 OFF]"
}

func (r *chatREPL) printWelcome() {
	out := r.env.Out
	c := r.sess.Character()
	fmt.Fprintf(out, "%s %s\n", TitleStyle.Render(r.name()), DimStyle.Render(safeBadge(r.sess.SafeMode())))
	if c != nil && c.Bio != "" && !r.env.Quiet {
		fmt.Fprintln(out, DimStyle.Render(c.Bio))
	}
	if err := r.sess.HistoryError(); err != nil {
		fmt.Fprintln(r.env.Err, WarningStyle.Render("이전 대화를 불러오지 못했어요: "+err.Error()))
	}

	msgs := r.sess.Messages()
	if len(msgs) > resumeTail {
		fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("(이전 메시지 %d개 생략)", len(msgs)-resumeTail)))
		msgs = msgs[len(msgs)-resumeTail:]
	}
	for _, m := range msgs {
		if m.Role == model.RoleUser {
			fmt.Fprintf(out, "%s%s\n", r.prompt(), m.Content)
			continue
		}
		r.printReply(m)
	}
	if !r.env.Quiet {
		fmt.Fprintln(out, DimStyle.Render("/help 로 명령어를 볼 수 있어요"))
	}
}

func (r *chatREPL) printReply(m model.Message) {
	label := r.name()
	if m.Emotion != model.EmotionNone && m.Emotion.IsKnown() {
		label += " (" + m.Emotion.DisplayName() + ")"
	}
	fmt.Fprintf(r.env.Out, "%s\n%s\n", TitleStyle.Render(label), r.renderer.render(m))
}

// handleSlash runs a chat command and reports whether the chat should end.
func (r *chatREPL) handleSlash(text string) bool {
	out := r.env.Out
	cmd, _, _ := strings.Cut(strings.ToLower(text), " ")
	switch cmd {
	case "/quit", "/exit", "/q":
		return true
	case "/safe":
		on := r.sess.ToggleSafeMode()
		fmt.Fprintln(out, DimStyle.Render("세이프 모드 "+safeBadge(on)))
	case "/image":
		emotion := r.sess.CurrentEmotion()
		label := "기본"
		if emotion != model.EmotionNone && emotion.IsKnown() {
			label = emotion.DisplayName()
		}
		fmt.Fprintf(out, "%s %s\n", RenderLabel(label, 6), r.sess.CurrentImage())
	case "/help", "/?":
		fmt.Fprintln(out, "/safe   세이프 모드 전환")
		fmt.Fprintln(out, "/image  현재 표정 이미지")
		fmt.Fprintln(out, "/quit   종료")
	default:
		fmt.Fprintln(r.env.Err, WarningStyle.Render("알 수 없는 명령어: "+cmd+" (/help)"))
	}
	return false
}

func (r *chatREPL) finish() error {
	if r.env.Quiet {
		return nil
	}
	if id, ok := r.sess.ConversationID(); ok {
		fmt.Fprintln(r.env.Out, DimStyle.Render(fmt.Sprintf(
			"대화 #%d · 이어서 하려면 companion chat %d --conversation %d", id, r.sess.Character().ID, id)))
	}
	return nil
}
