// Package events publishes lecture lifecycle events. Events go to NATS
// subjects of the form "<prefix>.<type>", to the log, or nowhere.
package events

import (
	"context"
	"errors"
	"time"
)

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "lecturecast.lecture"

// Type names a lecture event.
type Type string

const (
	Started          Type = "started"
	SectionStarted   Type = "section_started"
	SectionCompleted Type = "section_completed"
	Paused           Type = "paused"
	Resumed          Type = "resumed"
	Skipped          Type = "skipped"
	QAStarted        Type = "qa_started"
	QACompleted      Type = "qa_completed"
	Stopped          Type = "stopped"
	Completed        Type = "completed"
)

// Types lists every event type.
var Types = []Type{
	Started, SectionStarted, SectionCompleted, Paused, Resumed,
	Skipped, QAStarted, QACompleted, Stopped, Completed,
}

// Event is one lifecycle notification.
type Event struct {
	Type         Type           `json:"type"`
	Session      string         `json:"session"`
	Section      string         `json:"section,omitempty"`
	SectionIndex int            `json:"section_index"`
	Time         time.Time      `json:"time"`
	Data         map[string]any `json:"data,omitempty"`
}

// Subject returns the subject for t under prefix.
func Subject(prefix string, t Type) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "." + string(t)
}

// Publisher delivers events. Publish must not block on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Multi fans events out to several publishers.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
