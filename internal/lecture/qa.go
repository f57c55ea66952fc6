package lecture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/studyloop/lecturecast/internal/affect"
	"github.com/studyloop/lecturecast/internal/content"
	"github.com/studyloop/lecturecast/internal/events"
)

// Asker shows a prompt to the learner and returns the typed reply. Ask
// must return when ctx ends.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// maxAskFailures ends the sub-flow after this many failed reads in a row.
const maxAskFailures = 3

const (
	askPrompt        = "What's your AMAZING question?"
	completedMessage = "Q&A session completed."
)

var offerOpeners = []string{"", "Awesome. ", "Great work so far. "}

var followUps = []string{
	"That was such a great question. Do you have any more questions?",
	"I love your curiosity. Do you have any more questions?",
	"Great thinking. Do you have any more questions?",
}

func offerPrompt(opener, topic string) string {
	return fmt.Sprintf("%sDo you have any AMAZING questions about %s? Say yes or no.", opener, topic)
}

// IsYes reports whether reply accepts an offer.
func IsYes(reply string) bool {
	switch strings.ToLower(strings.Trim(reply, " \t\r\n.!")) {
	case "yes", "y", "yeah", "yep":
		return true
	}
	return false
}

func (c *Controller) pick(options []string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return options[c.rng.IntN(len(options))]
}

// questionTime runs the question sub-flow after section idx. It is skipped
// for the introduction, when disabled, or without an Asker.
func (c *Controller) questionTime(ctx context.Context, sess *session, idx int) {
	if idx == 0 || !c.qaEnabled.Load() || c.deps.Asker == nil {
		return
	}
	if !c.checkpoint(ctx) {
		return
	}

	name := content.Sections[idx]
	topic := content.Title(name)
	qaSection := QAPrefix + topic

	ctx, span := c.tracer.Start(ctx, "lecture.qa")
	span.SetAttributes(attribute.String("section", name))
	defer span.End()

	c.gate.SetInteractive(true)
	defer c.gate.SetInteractive(false)
	defer c.setRate(c.cfg.Rate)

	c.publish(ctx, sess, events.QAStarted, idx, nil)
	asked := 0
	defer func() {
		span.SetAttributes(attribute.Int("questions", asked))
		if ctx.Err() == nil {
			c.publish(ctx, sess, events.QACompleted, idx, map[string]any{"questions": asked})
		}
	}()

	reply, ok := c.prompt(ctx, sess, offerPrompt(c.pick(offerOpeners), topic))
	if !ok || !IsYes(reply) {
		return
	}

	for {
		question, ok := c.prompt(ctx, sess, askPrompt)
		question = strings.TrimSpace(question)
		if !ok || question == "" {
			return
		}

		res := c.deps.Classifier.Classify(question)
		c.setRate(affect.RateFor(res.Category))
		c.logger.Info("Learner question", "section", name, "affect", res.Category, "confidence", fmt.Sprintf("%.2f", res.Confidence))

		c.record(qaSection, "Question: "+question, idx)
		answer, fallback := content.AnswerOrFallback(ctx, c.deps.Answerer, content.Question{
			Text:   question,
			Topic:  topic,
			Affect: res,
		})
		if ctx.Err() != nil {
			return
		}
		c.record(qaSection, "Answer: "+answer, idx)
		asked++
		c.logger.Debug("Answer ready", "chars", len(answer), "fallback", fallback)

		if _, err := c.say(ctx, sess, answer); err != nil || !c.drain(ctx, sess) {
			return
		}

		reply, ok := c.prompt(ctx, sess, c.pick(followUps))
		if !ok || !IsYes(reply) {
			c.record(qaSection, completedMessage, idx)
			return
		}
	}
}

// prompt speaks text, waits for it to play, then reads the learner's
// reply. Read failures are retried; ok is false when the reply could not
// be read.
func (c *Controller) prompt(ctx context.Context, sess *session, text string) (reply string, ok bool) {
	if _, err := c.say(ctx, sess, text); err != nil || !c.drain(ctx, sess) {
		return "", false
	}
	for failures := 0; failures < maxAskFailures; failures++ {
		line, err := c.deps.Asker.Ask(ctx, text)
		if err == nil {
			return line, true
		}
		if ctx.Err() != nil || errors.Is(err, io.EOF) {
			return "", false
		}
		c.logger.Warn("Could not read reply", "error", err, "attempt", failures+1)
	}
	return "", false
}

func (c *Controller) record(section, text string, idx int) {
	c.transcript.append(Entry{Section: section, Text: text, Timestamp: time.Now(), SectionIndex: idx})
}

// LineAsker reads replies line by line, writing each prompt to w.
type LineAsker struct {
	w     io.Writer
	r     io.Reader
	once  sync.Once
	lines chan string
	err   error
}

// NewLineAsker reads replies from r and writes prompts to w.
func NewLineAsker(r io.Reader, w io.Writer) *LineAsker {
	return &LineAsker{r: r, w: w, lines: make(chan string)}
}

func (a *LineAsker) start() {
	go func() {
		defer close(a.lines)
		sc := bufio.NewScanner(a.r)
		for sc.Scan() {
			a.lines <- sc.Text()
		}
		a.err = sc.Err()
	}()
}

// Ask writes the prompt and waits for the next line.
func (a *LineAsker) Ask(ctx context.Context, prompt string) (string, error) {
	a.once.Do(a.start)
	if a.w != nil {
		fmt.Fprintf(a.w, "%s\n> ", prompt)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-a.lines:
		if !ok {
			if a.err != nil {
				return "", a.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}

// ScriptedAsker replies from a fixed list and records the prompts it was
// shown. Once the list is used up it replies with an empty string.
type ScriptedAsker struct {
	mu      sync.Mutex
	replies []string
	prompts []string
}

// NewScriptedAsker returns an asker that gives replies in order.
func NewScriptedAsker(replies ...string) *ScriptedAsker {
	return &ScriptedAsker{replies: replies}
}

func (a *ScriptedAsker) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prompts = append(a.prompts, prompt)
	if len(a.replies) == 0 {
		return "", nil
	}
	r := a.replies[0]
	a.replies = a.replies[1:]
	return r, nil
}

// Prompts returns the prompts shown so far.
func (a *ScriptedAsker) Prompts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.prompts))
	copy(out, a.prompts)
	return out
}
