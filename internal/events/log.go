package events

import (
	"context"

	"github.com/charmbracelet/log"
)

// LogPublisher writes events to a logger.
type LogPublisher struct {
	logger *log.Logger
	level  log.Level
}

// NewLogPublisher logs events at level through l, or through the default
// logger when l is nil.
func NewLogPublisher(l *log.Logger, level log.Level) *LogPublisher {
	if l == nil {
		l = log.WithPrefix("events")
	}
	return &LogPublisher{logger: l, level: level}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	kv := []any{"type", e.Type, "session", e.Session}
	if e.Section != "" {
		kv = append(kv, "section", e.Section, "index", e.SectionIndex)
	}
	for k, v := range e.Data {
		kv = append(kv, k, v)
	}
	p.logger.Log(p.level, "Lecture event", kv...)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
