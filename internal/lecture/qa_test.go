package lecture

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/studyloop/lecturecast/internal/content"
	"github.com/studyloop/lecturecast/internal/events"
	"github.com/studyloop/lecturecast/internal/synth"
)

func TestIsYes(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"yes", true},
		{"Y", true},
		{"  yeah ", true},
		{"Yep!", true},
		{"no", false},
		{"", false},
		{"yes please", false},
		{"nope", false},
	}
	for _, tt := range tests {
		if got := IsYes(tt.reply); got != tt.want {
			t.Errorf("IsYes(%q) = %v, want %v", tt.reply, got, tt.want)
		}
	}
}

func TestQuestionAndAnswer(t *testing.T) {
	asker := NewScriptedAsker("yes", "Why does x/5 mean division?", "no")
	f := newFixture(t, fastConfig(), asker)

	if err := f.ctrl.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, f.ctrl)

	qa := f.ctrl.QATranscript()
	if len(qa) != 3 {
		t.Fatalf("Q&A entries = %d: %+v", len(qa), qa)
	}
	wantSection := QAPrefix + "Fraction Bar Notation"
	for _, e := range qa {
		if e.Section != wantSection || e.SectionIndex != 1 {
			t.Errorf("entry %+v not attributed to %q", e, wantSection)
		}
	}
	if qa[0].Text != "Question: Why does x/5 mean division?" {
		t.Errorf("question entry = %q", qa[0].Text)
	}
	if !strings.HasPrefix(qa[1].Text, "Answer: ") || len(qa[1].Text) < 20 {
		t.Errorf("answer entry = %q", qa[1].Text)
	}
	if qa[2].Text != "Q&A session completed." {
		t.Errorf("closing entry = %q", qa[2].Text)
	}

	prompts := asker.Prompts()
	// one offer per section after the introduction, plus the question and
	// follow-up prompts of the one exchange
	if len(prompts) != len(content.Sections)-1+2 {
		t.Fatalf("prompts = %d: %q", len(prompts), prompts)
	}
	if !strings.Contains(prompts[0], "Do you have any AMAZING questions about Fraction Bar Notation? Say yes or no.") {
		t.Errorf("offer prompt = %q", prompts[0])
	}
	if prompts[1] != "What's your AMAZING question?" {
		t.Errorf("ask prompt = %q", prompts[1])
	}
	if !strings.HasSuffix(prompts[2], "Do you have any more questions?") {
		t.Errorf("follow-up prompt = %q", prompts[2])
	}

	st := f.ctrl.Status()
	if st.Rate != synth.NaturalRate {
		t.Errorf("rate after Q&A = %v, want neutral", st.Rate)
	}
	if st.Interactive {
		t.Error("interactive mode left on")
	}
	if got := sectionNames(f.ctrl.Transcript().Entries); len(got) != len(content.Sections) {
		t.Errorf("section entries = %v", got)
	}
	if n := f.publisher.count(events.QAStarted); n != len(content.Sections)-1 {
		t.Errorf("qa_started events = %d", n)
	}
}

func TestEmptyQuestionEndsQA(t *testing.T) {
	asker := NewScriptedAsker("y", "   ")
	f := newFixture(t, fastConfig(), asker)
	if err := f.ctrl.StartAt(context.Background(), 6); err != nil {
		t.Fatal(err)
	}
	waitDone(t, f.ctrl)

	if qa := f.ctrl.QATranscript(); len(qa) != 0 {
		t.Errorf("empty question should record nothing, got %+v", qa)
	}
}

func TestQADisabled(t *testing.T) {
	asker := NewScriptedAsker("yes", "what is a variable", "no")
	f := newFixture(t, fastConfig(), asker)
	f.ctrl.DisableQA()
	if f.ctrl.QAEnabled() || f.ctrl.Status().QAEnabled {
		t.Fatal("DisableQA had no effect")
	}

	if err := f.ctrl.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, f.ctrl)
	if n := len(asker.Prompts()); n != 0 {
		t.Errorf("asker prompted %d times with Q&A disabled", n)
	}

	f.ctrl.EnableQA()
	if !f.ctrl.QAEnabled() {
		t.Error("EnableQA had no effect")
	}
}

type failingAsker struct{ calls int }

func (a *failingAsker) Ask(context.Context, string) (string, error) {
	a.calls++
	return "", errors.New("terminal went away")
}

func TestAskFailuresAreBounded(t *testing.T) {
	asker := &failingAsker{}
	f := newFixture(t, fastConfig(), asker)
	if err := f.ctrl.StartAt(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	waitDone(t, f.ctrl)
	if asker.calls != maxAskFailures {
		t.Errorf("asker called %d times, want %d", asker.calls, maxAskFailures)
	}
	if !f.ctrl.Status().Completed {
		t.Error("lecture should continue past a failing asker")
	}
}

func TestStopInterruptsQuestion(t *testing.T) {
	blocking := askerFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	f := newFixture(t, fastConfig(), blocking)
	if err := f.ctrl.StartAt(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(10 * time.Second)
	for !f.ctrl.Status().Interactive {
		select {
		case <-deadline:
			t.Fatal("Q&A never started")
		case <-time.After(time.Millisecond):
		}
	}

	if err := f.ctrl.Stop(); err != nil {
		t.Fatal(err)
	}
	if st := f.ctrl.Status(); st.State != Stopped || st.Interactive {
		t.Errorf("after stop: %+v", st)
	}
}

type askerFunc func(ctx context.Context, prompt string) (string, error)

func (f askerFunc) Ask(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

func TestLineAsker(t *testing.T) {
	var out strings.Builder
	a := NewLineAsker(strings.NewReader("yes\nWhat is x?\n"), &out)

	for _, want := range []string{"yes", "What is x?"} {
		got, err := a.Ask(context.Background(), "prompt")
		if err != nil || got != want {
			t.Fatalf("Ask = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := a.Ask(context.Background(), "prompt"); !errors.Is(err, io.EOF) {
		t.Errorf("Ask at end of input = %v", err)
	}
	if !strings.Contains(out.String(), "prompt\n> ") {
		t.Errorf("prompt not written: %q", out.String())
	}
}

func TestLineAskerHonorsContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	a := NewLineAsker(r, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := a.Ask(ctx, "anything?"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Ask = %v, want deadline exceeded", err)
	}
}
