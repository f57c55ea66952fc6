package ui

import (
	"context"
	"errors"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoProgram is returned by Asker.Ask before a program is attached.
var ErrNoProgram = errors.New("no program attached")

type (
	promptMsg struct {
		id    int
		text  string
		reply chan<- string
	}
	promptCanceledMsg struct{ id int }
)

// Asker collects learner replies through the TUI's text input. It
// satisfies lecture.Asker.
type Asker struct {
	mu      sync.Mutex
	program interface{ Send(tea.Msg) }
	next    int
}

// NewAsker returns an Asker. Attach a program before the lecture starts.
func NewAsker() *Asker {
	return &Asker{}
}

// Attach routes prompts to p.
func (a *Asker) Attach(p *tea.Program) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.program = p
}

// Ask shows prompt above the input line and waits for the reply.
func (a *Asker) Ask(ctx context.Context, prompt string) (string, error) {
	a.mu.Lock()
	p := a.program
	a.next++
	id := a.next
	a.mu.Unlock()

	if p == nil {
		return "", ErrNoProgram
	}

	reply := make(chan string, 1)
	p.Send(promptMsg{id: id, text: prompt, reply: reply})
	select {
	case <-ctx.Done():
		p.Send(promptCanceledMsg{id: id})
		return "", ctx.Err()
	case r, ok := <-reply:
		if !ok {
			return "", io.EOF
		}
		return r, nil
	}
}
