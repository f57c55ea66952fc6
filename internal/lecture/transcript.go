package lecture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"

	"github.com/studyloop/lecturecast/internal/content"
)

// TranscriptTitle heads every text and markdown export.
const TranscriptTitle = "Algebra Level 1 Lecture Transcript"

// QAPrefix starts the section name of every question and answer entry.
const QAPrefix = "Q&A - "

// wrapWidth is the column text exports wrap at.
const wrapWidth = 80

// Entry is one transcript record. Entries are never changed after they
// are appended.
type Entry struct {
	Section      string    `json:"section" yaml:"section"`
	Text         string    `json:"text" yaml:"text"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	SectionIndex int       `json:"section_index" yaml:"section_index"`
}

// Transcript is the exportable record of a session.
type Transcript struct {
	LectureStartTime time.Time `json:"lecture_start_time" yaml:"lecture_start_time"`
	Sections         []string  `json:"sections" yaml:"sections"`
	Entries          []Entry   `json:"transcript" yaml:"transcript"`
	TotalEntries     int       `json:"total_entries" yaml:"total_entries"`
}

// Format is a transcript export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatText, FormatMarkdown, FormatYAML}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// transcriptLog is the append-only entry list.
type transcriptLog struct {
	mu      sync.Mutex
	entries []Entry
}

func (t *transcriptLog) append(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

func (t *transcriptLog) snapshot() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *transcriptLog) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *transcriptLog) clear() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.entries)
	t.entries = nil
	return n
}

// IsQA reports whether the entry belongs to a question and answer
// exchange.
func (e Entry) IsQA() bool {
	return strings.Contains(e.Section, "Q&A")
}

// QA returns the question and answer entries.
func (t Transcript) QA() []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.IsQA() {
			out = append(out, e)
		}
	}
	return out
}

// Export renders the transcript in format f.
func (t Transcript) Export(f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("unable to encode transcript: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("unable to encode transcript: %w", err)
		}
		return data, nil
	case FormatText:
		return t.text(), nil
	case FormatMarkdown:
		return t.markdown(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func (t Transcript) text() []byte {
	var b bytes.Buffer
	fmt.Fprintln(&b, TranscriptTitle)
	fmt.Fprintf(&b, "Started: %s\n", stamp(t.LectureStartTime))
	fmt.Fprintln(&b, strings.Repeat("=", 50))
	for _, e := range t.Entries {
		fmt.Fprintf(&b, "\nSection: %s\n", e.Section)
		fmt.Fprintf(&b, "Time: %s\n", stamp(e.Timestamp))
		fmt.Fprintln(&b, strings.Repeat("-", 30))
		fmt.Fprintln(&b, wordwrap.String(e.Text, wrapWidth))
	}
	return b.Bytes()
}

func (t Transcript) markdown() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", TranscriptTitle)
	fmt.Fprintf(&b, "_Started: %s_\n", stamp(t.LectureStartTime))

	last := ""
	for _, e := range t.Entries {
		if e.Section != last {
			fmt.Fprintf(&b, "\n## %s\n\n", heading(e.Section))
			last = e.Section
		} else {
			b.WriteString("\n")
		}
		if e.IsQA() {
			text := e.Text
			for _, label := range []string{"Question", "Answer"} {
				if rest, ok := strings.CutPrefix(text, label+": "); ok {
					text = "**" + label + ":** " + rest
				}
			}
			fmt.Fprintln(&b, text)
			continue
		}
		fmt.Fprintln(&b, e.Text)
	}
	return b.Bytes()
}

func heading(section string) string {
	if content.Known(section) {
		return content.Title(section)
	}
	return section
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "not started"
	}
	return t.Format(time.DateTime)
}
