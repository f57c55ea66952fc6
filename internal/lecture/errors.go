package lecture

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidState is returned for a control call the current state
	// does not allow.
	ErrInvalidState = errors.New("invalid state for operation")
	// ErrNotRunning is returned by Pause and the notes controls when no
	// lecture is in progress.
	ErrNotRunning = errors.New("lecture is not running")
	// ErrNotPaused is returned by Resume when the lecture is not paused.
	ErrNotPaused = errors.New("lecture is not paused")
	// ErrAlreadyRunning is returned by Start while a session is active.
	ErrAlreadyRunning = errors.New("lecture is already running")
	// ErrInvalidSection is returned for an out of range section index or
	// an unknown section name.
	ErrInvalidSection = errors.New("invalid section")
	// ErrUnknownFormat is returned by Export for an unsupported format.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrEmptyTranscript is returned by study operations before any
	// section has been delivered.
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// Severity grades a ControlError.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ControlError describes a rejected control call. The controller state is
// unchanged when one is returned.
type ControlError struct {
	Err       error          // The underlying sentinel
	Component string         // Component that rejected the call
	Action    string         // The control call, e.g. "pause"
	Severity  Severity       // Severity of the error
	Timestamp int64          // Unix timestamp when the call was rejected
	State     State          // State at the time of the call
	Context   map[string]any // Additional context
}

func (e *ControlError) Error() string {
	if e.Err == nil {
		return "unknown lecture error"
	}
	if e.Action == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s (state %s)", e.Action, e.Err, e.State)
}

func (e *ControlError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether retrying the call later can succeed. Only
// bad arguments are final.
func (e *ControlError) Recoverable() bool {
	return !errors.Is(e.Err, ErrInvalidSection) && !errors.Is(e.Err, ErrUnknownFormat)
}

func newControlError(err error, action string, state State) *ControlError {
	return &ControlError{
		Err:       err,
		Component: "lecture",
		Action:    action,
		Severity:  SeverityWarning,
		Timestamp: time.Now().Unix(),
		State:     state,
		Context:   make(map[string]any),
	}
}

// With adds a context value.
func (e *ControlError) With(key string, value any) *ControlError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
