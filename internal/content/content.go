// Package content supplies the text a lecture speaks: section narration,
// answers to learner questions, and study material derived from the
// transcript. Text comes from Gemini when an API key is configured and
// from canned fallbacks otherwise.
package content

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/studyloop/lecturecast/internal/affect"
)

// Section identifiers in lecture order.
const (
	Introduction        = "introduction"
	FractionBarNotation = "fraction_bar_notation"
	AlgebraicVocabulary = "algebraic_vocabulary"
	SubstitutionImage   = "substitution_image"
	InverseOperations   = "inverse_operations"
	WordProblemImage    = "word_problem_image"
	RealWorldImage      = "real_world_image"
	Conclusion          = "conclusion"
)

// Sections is the fixed lecture order.
var Sections = []string{
	Introduction,
	FractionBarNotation,
	AlgebraicVocabulary,
	SubstitutionImage,
	InverseOperations,
	WordProblemImage,
	RealWorldImage,
	Conclusion,
}

var (
	ErrGeneratorUnavailable = errors.New("content generator unavailable")
	ErrOverloaded           = errors.New("content service overloaded")
	ErrTimeout              = errors.New("content request timed out")
	ErrUnknownSection       = errors.New("unknown section")
	ErrEmptyResponse        = errors.New("empty response")
	ErrNoContent            = errors.New("no lecture content available")
)

// Generator produces the narration for one section.
type Generator interface {
	Generate(ctx context.Context, section string) (string, error)
}

// Question is a learner question asked during a lecture.
type Question struct {
	Text   string
	Topic  string
	Affect affect.Result
}

// Answerer answers learner questions.
type Answerer interface {
	Answer(ctx context.Context, q Question) (string, error)
}

// Completer runs a free-form prompt. Study material generation uses it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Retryable reports whether err is worth another attempt: a timeout or an
// overloaded upstream. Cancellation is never retryable.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrOverloaded) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Title turns a section identifier into a display title, so
// "fraction_bar_notation" becomes "Fraction Bar Notation".
func Title(section string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(section, "_", " "))
}

// Known reports whether section is one of Sections.
func Known(section string) bool {
	for _, s := range Sections {
		if s == section {
			return true
		}
	}
	return false
}

// AnswerOrFallback asks a and falls back to the canned answer when a is nil
// or fails. The second result reports whether the fallback was used.
func AnswerOrFallback(ctx context.Context, a Answerer, q Question) (string, bool) {
	if a != nil {
		text, err := a.Answer(ctx, q)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, false
		}
	}
	return FallbackAnswer(q), true
}
