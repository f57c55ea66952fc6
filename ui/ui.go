// Package ui provides the interactive lecture view.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/studyloop/lecturecast/internal/content"
	"github.com/studyloop/lecturecast/internal/lecture"
)

const (
	statusMessageTimeout = time.Second * 3
	defaultRefresh       = 200 * time.Millisecond
	maxBodyLines         = 12
)

// Controller is the part of the lecture controller the view drives.
type Controller interface {
	Status() lecture.Status
	Pause() error
	Resume() error
	PauseForNotes() error
	ResumeFromNotes() error
	SkipToSection(index int) error
	Stop() error
	Transcript() lecture.Transcript
	Done() <-chan struct{}
}

// NewProgram returns a new Tea program driving ctrl.
func NewProgram(cfg Config, ctrl Controller) *tea.Program {
	log.Debug("starting lecture view", "alt_screen", cfg.AltScreen, "refresh", cfg.RefreshInterval)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, ctrl), opts...)
}

type (
	tickMsg                 time.Time
	lectureDoneMsg          struct{}
	stoppedMsg              struct{ err error }
	statusMessageTimeoutMsg struct{ seq int }
	errMsg                  struct{ err error }
)

func (e errMsg) Error() string { return e.err.Error() }

type mode int

const (
	modeWatch mode = iota
	modeAnswer
	modeJump
)

type model struct {
	cfg  Config
	ctrl Controller

	keys     keyMap
	help     help.Model
	progress progress.Model
	input    textinput.Model
	renderer *glamour.TermRenderer

	mode     mode
	promptID int
	prompt   string
	reply    chan<- string

	status lecture.Status
	latest lecture.Entry

	statusMessage string
	messageSeq    int
	done          bool
	quitting      bool
	err           error

	width  int
	height int
}

func newModel(cfg Config, ctrl Controller) model {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefresh
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	m := model{
		cfg:      cfg,
		ctrl:     ctrl,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		input:    ti,
		width:    80,
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tick(m.cfg.RefreshInterval), waitForLecture(m.ctrl))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.refresh()
		if m.quitting {
			return m, nil
		}
		return m, tick(m.cfg.RefreshInterval)

	case lectureDoneMsg:
		m.done = true
		m.refresh()
		return m, nil

	case stoppedMsg:
		if msg.err != nil {
			log.Debug("stop", "error", msg.err)
		}
		return m, tea.Quit

	case promptMsg:
		m.cancelPrompt()
		m.mode = modeAnswer
		m.promptID = msg.id
		m.prompt = msg.text
		m.reply = msg.reply
		m.input.SetValue("")
		m.input.Placeholder = "type your reply and press enter"
		return m, m.input.Focus()

	case promptCanceledMsg:
		if m.mode == modeAnswer && m.promptID == msg.id {
			m.reply = nil
			m.leaveInput()
		}
		return m, nil

	case statusMessageTimeoutMsg:
		if msg.seq == m.messageSeq {
			m.statusMessage = ""
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAnswer:
			return m.updateAnswer(msg)
		case modeJump:
			return m.updateJump(msg)
		}
		return m.updateWatch(msg)
	}
	return m, nil
}

func (m model) updateWatch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Pause):
		if m.status.State == lecture.Paused {
			return m.control("resumed", m.ctrl.Resume())
		}
		return m.control("paused", m.ctrl.Pause())

	case key.Matches(msg, m.keys.Notes):
		if m.status.AudioPaused && m.status.State == lecture.Running {
			return m.control("audio resumed", m.ctrl.ResumeFromNotes())
		}
		return m.control("audio held for notes", m.ctrl.PauseForNotes())

	case key.Matches(msg, m.keys.Next):
		return m.skip(m.status.CurrentSectionIndex + 1)

	case key.Matches(msg, m.keys.Prev):
		return m.skip(m.status.CurrentSectionIndex - 1)

	case key.Matches(msg, m.keys.Jump):
		m.mode = modeJump
		m.input.SetValue("")
		m.input.Placeholder = "section name or number"
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Stop):
		return m.control("stopped", m.ctrl.Stop())

	case key.Matches(msg, m.keys.Copy):
		return m.copyTranscript()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m model) updateAnswer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEnter:
		m.sendReply(strings.TrimSpace(m.input.Value()))
		m.leaveInput()
		return m, nil
	case tea.KeyEsc:
		m.sendReply("")
		m.leaveInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEsc:
		m.leaveInput()
		return m, nil
	case tea.KeyEnter:
		query := m.input.Value()
		m.leaveInput()
		idx, err := lecture.FindSection(query)
		if err != nil {
			return m.showStatusMessage(fmt.Sprintf("no section matches %q", query))
		}
		return m.skip(idx)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s %s\n\n", logoView(), m.stateView())

	if m.status.TotalSections > 0 {
		title := m.status.CurrentSection
		if content.Known(title) {
			title = content.Title(title)
		}
		fmt.Fprintf(&b, "  %s %s\n", dimStyle(fmt.Sprintf("Section %d/%d", m.status.CurrentSectionIndex+1, m.status.TotalSections)), sectionTitleStyle(title))
		fmt.Fprintf(&b, "  %s\n\n", m.progress.ViewAs(m.status.ProgressPercent/100))
	}

	if body := m.bodyView(); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAnswer:
		fmt.Fprintf(&b, "  %s\n  %s\n\n", promptStyle(wordwrap.String(m.prompt, max(20, m.width-4))), m.input.View())
	case modeJump:
		fmt.Fprintf(&b, "  %s\n  %s\n\n", promptStyle("Jump to section"), m.input.View())
	}

	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", errorStyle(m.err.Error()))
	}

	b.WriteString(m.statusBarView())
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m model) stateView() string {
	switch {
	case m.done && m.status.Completed:
		return dimStyle("lecture complete")
	case m.status.State == lecture.Paused:
		return pausedStyle("paused")
	case m.status.Interactive:
		return promptStyle("question time")
	case m.status.AudioPaused:
		return pausedStyle("audio held")
	}
	return dimStyle(m.status.State.String())
}

func (m model) bodyView() string {
	if m.latest.Text == "" {
		return ""
	}
	width := max(20, m.width-4)
	var out string
	if m.renderer != nil {
		if s, err := m.renderer.Render(m.latest.Text); err == nil {
			out = strings.Trim(s, "\n")
		}
	}
	if out == "" {
		out = indent(wordwrap.String(m.latest.Text, width), 2)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > maxBodyLines {
		lines = lines[len(lines)-maxBodyLines:]
		lines[0] = "  " + ellipsis
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m model) statusBarView() string {
	var left string
	if m.statusMessage != "" {
		left = statusBarMessageStyle(" " + m.statusMessage + " ")
	} else {
		left = statusBarStateStyle(" " + m.status.State.String() + " ")
	}

	note := " " + m.status.Summary() + " "
	room := max(0, m.width-ansi.PrintableRuneWidth(left))
	note = truncate.StringWithTail(note, uint(room), ellipsis) //nolint:gosec
	if pad := room - runewidth.StringWidth(note); pad > 0 {
		note += strings.Repeat(" ", pad)
	}
	return left + statusBarNoteStyle(note)
}

func (m model) helpView() string {
	return "  " + m.help.View(m.keys) + "\n"
}

func (m *model) setSize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	m.progress.Width = max(10, w-4)
	m.input.Width = max(10, w-6)

	r, err := glamourRenderer(m.cfg.GlamourStyle, max(20, w-4))
	if err != nil {
		log.Debug("glamour renderer", "error", err)
	}
	m.renderer = r
}

func (m *model) refresh() {
	m.status = m.ctrl.Status()
	tr := m.ctrl.Transcript()
	if n := len(tr.Entries); n > 0 {
		m.latest = tr.Entries[n-1]
	} else {
		m.latest = lecture.Entry{}
	}
}

func (m *model) sendReply(s string) {
	if m.reply == nil {
		return
	}
	select {
	case m.reply <- s:
	default:
	}
	m.reply = nil
}

// cancelPrompt answers an outstanding prompt with an empty reply.
func (m *model) cancelPrompt() {
	if m.mode == modeAnswer {
		m.sendReply("")
	}
}

func (m *model) leaveInput() {
	m.mode = modeWatch
	m.input.Blur()
	m.input.SetValue("")
}

func (m model) control(done string, err error) (tea.Model, tea.Cmd) {
	m.refresh()
	if err != nil {
		return m.showStatusMessage(err.Error())
	}
	return m.showStatusMessage(done)
}

func (m model) skip(idx int) (tea.Model, tea.Cmd) {
	err := m.ctrl.SkipToSection(idx)
	m.refresh()
	if err != nil {
		return m.showStatusMessage(err.Error())
	}
	return m.showStatusMessage("skipped to " + content.Title(m.status.CurrentSection))
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.cancelPrompt()
	m.quitting = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return stoppedMsg{err: ctrl.Stop()}
	}
}

func (m model) copyTranscript() (tea.Model, tea.Cmd) {
	tr := m.ctrl.Transcript()
	if tr.TotalEntries == 0 {
		return m.showStatusMessage("nothing to copy yet")
	}
	body, err := tr.Export(lecture.FormatText)
	if err != nil {
		return m, func() tea.Msg { return errMsg{err} }
	}

	// OSC52 for terminals that support it, the system clipboard otherwise.
	termenv.Copy(string(body))
	if err := clipboard.WriteAll(string(body)); err != nil {
		log.Debug("clipboard", "error", err)
	}
	return m.showStatusMessage("Copied transcript")
}

func (m model) showStatusMessage(msg string) (tea.Model, tea.Cmd) {
	m.statusMessage = msg
	m.messageSeq++
	seq := m.messageSeq
	return m, tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{seq: seq}
	})
}

// COMMANDS

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForLecture(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		<-ctrl.Done()
		return lectureDoneMsg{}
	}
}

// ETC

func glamourRenderer(style string, width int) (*glamour.TermRenderer, error) {
	opt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		opt = glamour.WithStylePath(style)
	}
	return glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
