package lecture

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/studyloop/lecturecast/internal/content"
)

// Status is a point-in-time view of the controller.
type Status struct {
	State               State         `json:"state" yaml:"state"`
	Running             bool          `json:"running" yaml:"running"`
	Paused              bool          `json:"paused" yaml:"paused"`
	AudioPaused         bool          `json:"audio_paused" yaml:"audio_paused"`
	Interactive         bool          `json:"interactive" yaml:"interactive"`
	Completed           bool          `json:"completed" yaml:"completed"`
	CurrentSectionIndex int           `json:"current_section_index" yaml:"current_section_index"`
	CurrentSection      string        `json:"current_section" yaml:"current_section"`
	TotalSections       int           `json:"total_sections" yaml:"total_sections"`
	ProgressPercent     float64       `json:"progress_percent" yaml:"progress_percent"`
	Muted               bool          `json:"muted" yaml:"muted"`
	DeviceFormat        string        `json:"device_format" yaml:"device_format"`
	QAEnabled           bool          `json:"qa_enabled" yaml:"qa_enabled"`
	Rate                float64       `json:"rate" yaml:"rate"`
	QueueDepth          int           `json:"queue_depth" yaml:"queue_depth"`
	FramesPlayed        int64         `json:"frames_played" yaml:"frames_played"`
	BytesPlayed         int64         `json:"bytes_played" yaml:"bytes_played"`
	StartedAt           time.Time     `json:"started_at" yaml:"started_at"`
	Elapsed             time.Duration `json:"elapsed" yaml:"elapsed"`
	TranscriptEntries   int           `json:"transcript_entries" yaml:"transcript_entries"`
	Session             string        `json:"session,omitempty" yaml:"session,omitempty"`
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	st := Status{
		State:               c.state,
		Running:             c.state.Active(),
		Paused:              c.state == Paused,
		Completed:           c.completed,
		CurrentSectionIndex: c.index,
		CurrentSection:      content.Sections[c.index],
		TotalSections:       len(content.Sections),
		Rate:                c.rate,
		StartedAt:           c.started,
	}
	if c.state != Idle {
		st.ProgressPercent = Progress(c.index, len(content.Sections))
	}
	switch {
	case c.started.IsZero():
	case c.ended.IsZero():
		st.Elapsed = time.Since(c.started)
	default:
		st.Elapsed = c.ended.Sub(c.started)
	}
	sess := c.sess
	c.mu.Unlock()

	st.AudioPaused = c.gate.Paused()
	st.Interactive = c.gate.Interactive()
	st.QAEnabled = c.qaEnabled.Load()
	st.TranscriptEntries = c.transcript.len()
	st.Muted = c.cfg.Muted || c.deps.Device == nil
	if sess != nil {
		st.Session = sess.id
		st.Muted = sess.muted
		if !sess.muted {
			st.DeviceFormat = sess.format.String()
		}
		st.QueueDepth = sess.queue.Len()
		stats := sess.loop.Stats()
		st.FramesPlayed = stats.FramesPlayed
		st.BytesPlayed = stats.BytesPlayed
	}
	return st
}

// Progress is the share of the lecture reached once section index is
// under way, as a percentage.
func Progress(index, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(index+1) / float64(total) * 100
}

// Summary renders the status as a single line.
func (s Status) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s · section %d/%d %s · %.0f%%",
		s.State, s.CurrentSectionIndex+1, s.TotalSections, content.Title(s.CurrentSection), s.ProgressPercent)
	if s.Muted {
		b.WriteString(" · muted")
	} else if s.BytesPlayed > 0 {
		fmt.Fprintf(&b, " · %s played", humanize.Bytes(uint64(s.BytesPlayed)))
	}
	if s.AudioPaused && s.State != Paused {
		b.WriteString(" · audio held")
	}
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(&b, " · started %s", humanize.Time(s.StartedAt))
	}
	return b.String()
}
