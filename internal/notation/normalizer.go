package notation

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

var spaceBeforePunct = regexp.MustCompile(`\s+([.,!?;:])`)

// Normalizer holds the ordered stages. It has no mutable state and is safe
// for concurrent use.
type Normalizer struct {
	stages []stage
}

// New returns a Normalizer with the standard stage order: structural
// patterns, operators, functions and constants, glyphs, numbers.
func New() *Normalizer {
	n := &Normalizer{}
	n.stages = []stage{
		{name: "structural", rules: n.structuralRules()},
		{name: "operators", rules: operatorRules()},
		{name: "functions", rules: functionRules()},
		{name: "glyphs", rules: glyphRules()},
		{name: "numbers", rules: numberRules()},
	}
	return n
}

var std = New()

// Normalize rewrites text with the default Normalizer.
func Normalize(text string) string {
	return std.Normalize(text)
}

// Normalize rewrites mathematical notation in text into speakable words.
// It never fails: anything no rule recognizes is passed through.
func (n *Normalizer) Normalize(text string) string {
	cleaned := cleanInput(text)
	if cleaned == "" {
		return ""
	}
	tokens := tokenize(cleaned)
	for _, s := range n.stages {
		tokens = s.run(tokens)
	}
	return finalCleanup(render(tokens))
}

// StageOutput is the text after one stage, as reported by Trace.
type StageOutput struct {
	Stage string
	Text  string
}

// Trace normalizes text and reports the intermediate text after cleanup and
// after every stage.
func (n *Normalizer) Trace(text string) []StageOutput {
	cleaned := cleanInput(text)
	trace := []StageOutput{{Stage: "cleanup", Text: cleaned}}
	tokens := tokenize(cleaned)
	for _, s := range n.stages {
		tokens = s.run(tokens)
		trace = append(trace, StageOutput{Stage: s.name, Text: finalCleanup(render(tokens))})
	}
	return trace
}

// StageNames lists the stages in the order they run.
func (n *Normalizer) StageNames() []string {
	names := make([]string, len(n.stages))
	for i, s := range n.stages {
		names[i] = s.name
	}
	return names
}

// cleanInput folds full-width forms, replaces control characters and
// collapses whitespace.
func cleanInput(text string) string {
	text = width.Narrow.String(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)
	for _, rep := range cleanupReplacements {
		text = strings.ReplaceAll(text, rep.from, rep.to)
	}
	return strings.Join(strings.Fields(text), " ")
}

func finalCleanup(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return spaceBeforePunct.ReplaceAllString(text, "$1")
}
