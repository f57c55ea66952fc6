package lecture

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/studyloop/lecturecast/internal/content"
)

func sampleTranscript() Transcript {
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []Entry{
		{Section: content.Introduction, Text: "Hello future mathematicians!", Timestamp: start, SectionIndex: 0},
		{Section: content.FractionBarNotation, Text: strings.Repeat("The fraction bar means divide. ", 6), Timestamp: start.Add(time.Minute), SectionIndex: 1},
		{Section: QAPrefix + "Fraction Bar Notation", Text: "Question: Why?", Timestamp: start.Add(2 * time.Minute), SectionIndex: 1},
		{Section: QAPrefix + "Fraction Bar Notation", Text: "Answer: Because.", Timestamp: start.Add(3 * time.Minute), SectionIndex: 1},
	}
	return Transcript{
		LectureStartTime: start,
		Sections:         content.Sections,
		Entries:          entries,
		TotalEntries:     len(entries),
	}
}

func TestExportText(t *testing.T) {
	out, err := sampleTranscript().Export(FormatText)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	lines := strings.Split(text, "\n")
	if lines[0] != TranscriptTitle || lines[1] != "Started: 2026-03-14 09:30:00" || !strings.HasPrefix(lines[2], "=====") {
		t.Errorf("header = %q", lines[:3])
	}
	for _, want := range []string{"Section: introduction", "Section: Q&A - Fraction Bar Notation", "Time: 2026-03-14 09:31:00"} {
		if !strings.Contains(text, want) {
			t.Errorf("text export missing %q", want)
		}
	}
	for _, l := range lines {
		if len(l) > wrapWidth {
			t.Errorf("line not wrapped (%d chars): %q", len(l), l)
		}
	}
}

func TestExportMarkdown(t *testing.T) {
	out, err := sampleTranscript().Export(FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)
	for _, want := range []string{"# " + TranscriptTitle, "## Introduction", "## Fraction Bar Notation", "## Q&A - Fraction Bar Notation", "**Question:** Why?", "**Answer:** Because."} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown export missing %q", want)
		}
	}
	if strings.Count(md, "## Q&A") != 1 {
		t.Error("consecutive entries of one section should share a heading")
	}
}

func TestExportStructured(t *testing.T) {
	tr := sampleTranscript()

	data, err := tr.Export(FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"lecture_start_time", "sections", "transcript", "total_entries"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("JSON export missing %q", key)
		}
	}

	data, err = tr.Export(FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "section_index: 1") || !strings.Contains(string(data), "total_entries: 4") {
		t.Errorf("unexpected YAML:\n%s", data)
	}

	if _, err := tr.Export("pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Export(pdf) = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"json": FormatJSON, "TXT": FormatText, "md": FormatMarkdown, "yml": FormatYAML}
	for in, want := range tests {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(docx) = %v", err)
	}
}

func TestTranscriptQA(t *testing.T) {
	qa := sampleTranscript().QA()
	if len(qa) != 2 || qa[0].Text != "Question: Why?" {
		t.Errorf("QA = %+v", qa)
	}
}

func TestFindSection(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"introduction", 0},
		{"3", 2},
		{"Inverse Operations", 4},
		{"vocab", 2},
		{"concl", 7},
	}
	for _, tt := range tests {
		got, err := FindSection(tt.query)
		if err != nil || got != tt.want {
			t.Errorf("FindSection(%q) = %d, %v; want %d", tt.query, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "0", "9", "zzzz"} {
		if _, err := FindSection(bad); !errors.Is(err, ErrInvalidSection) {
			t.Errorf("FindSection(%q) = %v", bad, err)
		}
	}
	if SectionIndex("nope") != -1 || SectionIndex(content.Conclusion) != 7 {
		t.Error("SectionIndex")
	}
}

func TestStudyFromTranscript(t *testing.T) {
	f := newFixture(t, fastConfig(), nil)

	if _, err := f.ctrl.Flashcards(context.Background(), 5); !errors.Is(err, ErrEmptyTranscript) {
		t.Errorf("Flashcards before a lecture = %v", err)
	}

	if err := f.ctrl.StartAt(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	waitDone(t, f.ctrl)

	cards, err := f.ctrl.Flashcards(context.Background(), 5)
	if err != nil {
		t.Fatalf("Flashcards: %v", err)
	}
	if cards.TotalCards != 5 || len(cards.Flashcards) != 5 {
		t.Errorf("cards = %d", cards.TotalCards)
	}
	quiz, err := f.ctrl.Quiz(context.Background(), 3)
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	if quiz.TotalQuestions != 3 {
		t.Errorf("quiz questions = %d", quiz.TotalQuestions)
	}

	if n := f.ctrl.ClearTranscript(); n != 3 {
		t.Errorf("cleared %d entries, want 3", n)
	}
	if f.ctrl.Transcript().TotalEntries != 0 {
		t.Error("transcript not cleared")
	}
}

func TestStatusSummary(t *testing.T) {
	st := Status{
		State:               Running,
		CurrentSectionIndex: 1,
		CurrentSection:      content.FractionBarNotation,
		TotalSections:       8,
		ProgressPercent:     Progress(1, 8),
		BytesPlayed:         2 << 20,
	}
	s := st.Summary()
	for _, want := range []string{"running", "section 2/8", "Fraction Bar Notation", "25%", "2.1 MB played"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q missing %q", s, want)
		}
	}
}
