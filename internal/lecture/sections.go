package lecture

import (
	"context"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/studyloop/lecturecast/internal/content"
)

// SectionIndex returns the index of the named section, or -1.
func SectionIndex(name string) int {
	for i, s := range content.Sections {
		if s == name {
			return i
		}
	}
	return -1
}

// FindSection resolves a loose section reference: a 1-based number, an
// exact name or title, or a fuzzy match such as "vocab".
func FindSection(query string) (int, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return -1, ErrInvalidSection
	}
	if n, err := strconv.Atoi(q); err == nil {
		if n < 1 || n > len(content.Sections) {
			return -1, ErrInvalidSection
		}
		return n - 1, nil
	}

	key := strings.ReplaceAll(strings.ToLower(q), " ", "_")
	if i := SectionIndex(key); i >= 0 {
		return i, nil
	}

	matches := fuzzy.Find(key, content.Sections)
	if len(matches) == 0 {
		return -1, ErrInvalidSection
	}
	return matches[0].Index, nil
}

// Transcript returns a copy of the transcript.
func (c *Controller) Transcript() Transcript {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()

	entries := c.transcript.snapshot()
	sections := make([]string, len(content.Sections))
	copy(sections, content.Sections)
	return Transcript{
		LectureStartTime: started,
		Sections:         sections,
		Entries:          entries,
		TotalEntries:     len(entries),
	}
}

// Export renders the transcript in format f.
func (c *Controller) Export(f Format) ([]byte, error) {
	return c.Transcript().Export(f)
}

// QATranscript returns the question and answer entries.
func (c *Controller) QATranscript() []Entry {
	return c.Transcript().QA()
}

// ClearTranscript drops every entry and returns how many there were.
func (c *Controller) ClearTranscript() int {
	n := c.transcript.clear()
	c.logger.Debug("Transcript cleared", "entries", n)
	return n
}

// lectureText joins the section narration, leaving out Q&A.
func (c *Controller) lectureText() string {
	var parts []string
	for _, e := range c.transcript.snapshot() {
		if !e.IsQA() {
			parts = append(parts, e.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Flashcards builds revision cards from the sections delivered so far.
// It works after the lecture has stopped.
func (c *Controller) Flashcards(ctx context.Context, n int) (content.FlashcardSet, error) {
	text := c.lectureText()
	if text == "" {
		return content.FlashcardSet{}, ErrEmptyTranscript
	}
	return c.study.Flashcards(ctx, text, n)
}

// Quiz builds a multiple choice quiz from the sections delivered so far.
func (c *Controller) Quiz(ctx context.Context, n int) (content.Quiz, error) {
	text := c.lectureText()
	if text == "" {
		return content.Quiz{}, ErrEmptyTranscript
	}
	return c.study.Quiz(ctx, text, n)
}
