package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studyloop/lecturecast/internal/content"
	"github.com/studyloop/lecturecast/internal/lecture"
)

type fakeController struct {
	status  lecture.Status
	entries []lecture.Entry
	calls   []string
	skipped []int
	err     error
	done    chan struct{}
}

func newFakeController() *fakeController {
	return &fakeController{
		status: lecture.Status{
			State:               lecture.Running,
			Running:             true,
			CurrentSectionIndex: 2,
			CurrentSection:      content.Sections[2],
			TotalSections:       len(content.Sections),
			ProgressPercent:     lecture.Progress(2, len(content.Sections)),
		},
		done: make(chan struct{}),
	}
}

func (f *fakeController) Status() lecture.Status { return f.status }

func (f *fakeController) Pause() error {
	f.calls = append(f.calls, "pause")
	if f.err == nil {
		f.status.State = lecture.Paused
	}
	return f.err
}

func (f *fakeController) Resume() error {
	f.calls = append(f.calls, "resume")
	if f.err == nil {
		f.status.State = lecture.Running
	}
	return f.err
}

func (f *fakeController) PauseForNotes() error {
	f.calls = append(f.calls, "notes")
	f.status.AudioPaused = true
	return f.err
}

func (f *fakeController) ResumeFromNotes() error {
	f.calls = append(f.calls, "unnotes")
	f.status.AudioPaused = false
	return f.err
}

func (f *fakeController) SkipToSection(i int) error {
	f.calls = append(f.calls, "skip")
	if i < 0 || i >= len(content.Sections) {
		return lecture.ErrInvalidSection
	}
	f.skipped = append(f.skipped, i)
	f.status.CurrentSectionIndex = i
	f.status.CurrentSection = content.Sections[i]
	return nil
}

func (f *fakeController) Stop() error {
	f.calls = append(f.calls, "stop")
	f.status.State = lecture.Stopped
	return nil
}

func (f *fakeController) Transcript() lecture.Transcript {
	return lecture.Transcript{Entries: f.entries, TotalEntries: len(f.entries)}
}

func (f *fakeController) Done() <-chan struct{} { return f.done }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestPauseToggle(t *testing.T) {
	ctrl := newFakeController()
	m := newModel(Config{}, ctrl)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	if got := strings.Join(ctrl.calls, ","); got != "pause,resume" {
		t.Errorf("calls = %s", got)
	}
	if m.statusMessage != "resumed" {
		t.Errorf("status message = %q", m.statusMessage)
	}
}

func TestControlErrorsAreShown(t *testing.T) {
	ctrl := newFakeController()
	ctrl.err = lecture.ErrNotRunning
	m := newModel(Config{}, ctrl)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !strings.Contains(m.statusMessage, lecture.ErrNotRunning.Error()) {
		t.Errorf("status message = %q", m.statusMessage)
	}
	if cmd == nil {
		t.Error("expected a status message timeout")
	}
}

func TestNotesToggle(t *testing.T) {
	ctrl := newFakeController()
	m := newModel(Config{}, ctrl)

	m, _ = update(t, m, runes("m"))
	m, _ = update(t, m, runes("m"))
	if got := strings.Join(ctrl.calls, ","); got != "notes,unnotes" {
		t.Errorf("calls = %s", got)
	}
	if m.status.AudioPaused {
		t.Error("audio still held")
	}
}

func TestSectionNavigation(t *testing.T) {
	ctrl := newFakeController()
	m := newModel(Config{}, ctrl)

	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes("b"))
	m, _ = update(t, m, runes("b"))
	if len(ctrl.skipped) != 3 || ctrl.skipped[0] != 3 || ctrl.skipped[1] != 2 || ctrl.skipped[2] != 1 {
		t.Errorf("skipped = %v", ctrl.skipped)
	}

	ctrl.status.CurrentSectionIndex = 0
	m.refresh()
	m, _ = update(t, m, runes("b"))
	if !strings.Contains(m.statusMessage, lecture.ErrInvalidSection.Error()) {
		t.Errorf("status message = %q", m.statusMessage)
	}
}

func TestJumpToSection(t *testing.T) {
	ctrl := newFakeController()
	m := newModel(Config{}, ctrl)

	m, _ = update(t, m, runes("/"))
	if m.mode != modeJump {
		t.Fatal("not in jump mode")
	}
	m, _ = update(t, m, runes("concl"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeWatch {
		t.Error("still in jump mode")
	}
	if len(ctrl.skipped) != 1 || ctrl.skipped[0] != 7 {
		t.Errorf("skipped = %v", ctrl.skipped)
	}

	m, _ = update(t, m, runes("/"))
	m, _ = update(t, m, runes("zzzz"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.statusMessage, "no section matches") {
		t.Errorf("status message = %q", m.statusMessage)
	}
}

func TestPromptReply(t *testing.T) {
	ctrl := newFakeController()
	m := newModel(Config{}, ctrl)

	reply := make(chan string, 1)
	m, _ = update(t, m, promptMsg{id: 1, text: "Any questions?", reply: reply})
	if m.mode != modeAnswer {
		t.Fatal("not answering")
	}
	if !strings.Contains(m.View(), "Any questions?") {
		t.Error("prompt not shown")
	}

	// Control keys are plain text while answering.
	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes("o"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case got := <-reply:
		if got != "no" {
			t.Errorf("reply = %q", got)
		}
	default:
		t.Fatal("no reply sent")
	}
	if m.mode != modeWatch || len(ctrl.skipped) != 0 {
		t.Errorf("mode = %d, skipped = %v", m.mode, ctrl.skipped)
	}
}

func TestPromptCanceled(t *testing.T) {
	m := newModel(Config{}, newFakeController())

	m, _ = update(t, m, promptMsg{id: 2, text: "?", reply: make(chan string, 1)})
	m, _ = update(t, m, promptCanceledMsg{id: 1})
	if m.mode != modeAnswer {
		t.Error("stale cancel closed the current prompt")
	}
	m, _ = update(t, m, promptCanceledMsg{id: 2})
	if m.mode != modeWatch {
		t.Error("prompt not canceled")
	}
}

func TestQuitStopsLecture(t *testing.T) {
	ctrl := newFakeController()
	m := newModel(Config{}, ctrl)

	m, cmd := update(t, m, runes("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("quit not started")
	}
	msg := cmd()
	if _, ok := msg.(stoppedMsg); !ok {
		t.Fatalf("cmd returned %T", msg)
	}
	if ctrl.status.State != lecture.Stopped {
		t.Error("lecture not stopped")
	}
	if _, cmd := update(t, m, msg); cmd == nil {
		t.Error("expected tea.Quit")
	}
}

func TestViewShowsLatestEntry(t *testing.T) {
	ctrl := newFakeController()
	ctrl.entries = []lecture.Entry{
		{Section: content.Introduction, Text: "Hello future mathematicians!"},
		{Section: content.AlgebraicVocabulary, Text: "A numerator sits above the bar."},
	}
	m := newModel(Config{}, ctrl)
	m, _ = update(t, m, tickMsg(time.Now()))

	v := m.View()
	for _, want := range []string{"Lecturecast", "Section 3/8", "numerator sits above", "running"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(v, "Hello future") {
		t.Error("view shows stale entry")
	}
}

func TestLectureDone(t *testing.T) {
	ctrl := newFakeController()
	m := newModel(Config{}, ctrl)
	cmd := waitForLecture(ctrl)

	ctrl.status.State = lecture.Stopped
	ctrl.status.Completed = true
	close(ctrl.done)

	m, _ = update(t, m, cmd())
	if !m.done || !strings.Contains(m.View(), "lecture complete") {
		t.Error("completion not shown")
	}
}

func TestAskerWithoutProgram(t *testing.T) {
	a := NewAsker()
	if _, err := a.Ask(context.Background(), "?"); !errors.Is(err, ErrNoProgram) {
		t.Errorf("Ask = %v", err)
	}
}

type sink struct{ msgs chan tea.Msg }

func (s sink) Send(msg tea.Msg) { s.msgs <- msg }

func TestAskerRoundTrip(t *testing.T) {
	s := sink{msgs: make(chan tea.Msg, 4)}
	a := &Asker{program: s}

	go func() {
		p := (<-s.msgs).(promptMsg)
		p.reply <- "yes"
	}()
	got, err := a.Ask(context.Background(), "More questions?")
	if err != nil || got != "yes" {
		t.Errorf("Ask = %q, %v", got, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Ask(ctx, "ignored"); !errors.Is(err, context.Canceled) {
		t.Errorf("Ask with canceled ctx = %v", err)
	}
}
