// Package affect classifies the tone of a learner's question into one of
// three buckets and maps each bucket to a playback rate and answer style.
package affect

import (
	"regexp"
	"strings"
	"unicode"
)

// Category is the tone of a question.
type Category string

const (
	Curious Category = "curious"
	Simple  Category = "simple"
	Nervous Category = "nervous"
	// Neutral is not produced by Classify; it names the rate used outside
	// of question answering.
	Neutral Category = "neutral"
)

// Categories lists the classifier outputs in tie-break order.
var Categories = []Category{Curious, Simple, Nervous}

// Result is the outcome of classifying one question.
type Result struct {
	Category   Category
	Confidence float64
	Scores     map[Category]int
	Matches    []string
}

// Classifier scores questions against keyword, pattern and structural
// cues.
type Classifier interface {
	Classify(question string) Result
}

type cues struct {
	keywords      []string
	keywordWeight int
	patterns      []*regexp.Regexp
	patternWeight int
}

// Heuristic is the default Classifier.
type Heuristic struct {
	cues map[Category]cues
}

// NewHeuristic builds the classifier from the built-in cue tables.
func NewHeuristic() *Heuristic {
	return &Heuristic{cues: map[Category]cues{
		Curious: {curiousKeywords, 1, compile(curiousPatterns), 2},
		Simple:  {simpleKeywords, 1, compile(simplePatterns), 2},
		Nervous: {nervousKeywords, 2, compile(nervousPatterns), 3},
	}}
}

func compile(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Classify scores question and returns the dominant category. A question
// with no cues at all is Simple with confidence 0.5.
func (h *Heuristic) Classify(question string) Result {
	lower := strings.ToLower(strings.TrimSpace(question))
	scores := map[Category]int{Curious: 0, Simple: 0, Nervous: 0}
	matches := map[Category][]string{}

	for _, c := range Categories {
		cue := h.cues[c]
		for _, kw := range cue.keywords {
			if strings.Contains(lower, kw) {
				scores[c] += cue.keywordWeight
				matches[c] = append(matches[c], kw)
			}
		}
		for _, re := range cue.patterns {
			if re.MatchString(lower) {
				scores[c] += cue.patternWeight
				matches[c] = append(matches[c], "pattern: "+re.String())
			}
		}
	}

	switch q := strings.Count(question, "?"); {
	case q > 2:
		scores[Nervous] += 2
	case q > 1:
		scores[Nervous]++
	}
	switch e := strings.Count(question, "!"); {
	case e > 1:
		scores[Curious] += 2
	case e > 0:
		scores[Curious]++
	}

	switch n := len(strings.Fields(lower)); {
	case n > 30:
		scores[Nervous] += 2
	case n > 15:
		scores[Nervous]++
	case n < 3:
		scores[Simple] += 2
	case n < 6:
		scores[Simple]++
	}

	if isUpper(question) {
		scores[Nervous] += 2
	} else {
		for _, w := range strings.Fields(question) {
			if len(w) > 1 && isUpper(w) {
				scores[Nervous]++
				break
			}
		}
	}

	if hasRun(lower, 3) {
		scores[Nervous]++
	}

	switch {
	case hasAnyPrefix(lower, "why", "how", "what if"):
		scores[Curious]++
	case hasAnyPrefix(lower, "what is", "what are", "define"):
		scores[Simple]++
	case hasAnyPrefix(lower, "help", "i don't", "i can't"):
		scores[Nervous] += 2
	}

	total := scores[Curious] + scores[Simple] + scores[Nervous]
	if total == 0 {
		return Result{Category: Simple, Confidence: 0.5, Scores: scores}
	}

	best := Curious
	for _, c := range Categories[1:] {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return Result{
		Category:   best,
		Confidence: float64(scores[best]) / float64(total),
		Scores:     scores,
		Matches:    matches[best],
	}
}

// isUpper reports whether s has at least one cased letter and no
// lowercase ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// hasRun reports whether any character repeats n or more times in a row.
func hasRun(s string, n int) bool {
	var prev rune
	count := 0
	for i, r := range s {
		if i > 0 && r == prev {
			count++
		} else {
			count = 1
		}
		if count >= n {
			return true
		}
		prev = r
	}
	return false
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
