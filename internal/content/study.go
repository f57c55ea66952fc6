package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Flashcard topics.
const (
	TopicDefinitions       = "definitions"
	TopicExamples          = "examples"
	TopicVocabulary        = "algebra_vocabulary"
	TopicNotation          = "notation"
	TopicSubstitution      = "substitution"
	TopicInverseOperations = "inverse_operations"
	TopicGeneral           = "general"
)

const (
	studyTitle = "Algebra Level 1"
	studyTopic = "Algebra - The Language of Division"
)

type Flashcard struct {
	ID         int    `json:"id" yaml:"id"`
	Question   string `json:"question" yaml:"question"`
	Answer     string `json:"answer" yaml:"answer"`
	Topic      string `json:"topic" yaml:"topic"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`
}

type FlashcardSet struct {
	Title       string      `json:"title" yaml:"title"`
	Topic       string      `json:"topic" yaml:"topic"`
	TotalCards  int         `json:"total_cards" yaml:"total_cards"`
	Flashcards  []Flashcard `json:"flashcards" yaml:"flashcards"`
	Generated   bool        `json:"generated" yaml:"generated"`
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
}

// QuizQuestion is one multiple-choice question. Correct is the option
// label, A through D.
type QuizQuestion struct {
	ID             int               `json:"id" yaml:"id"`
	Question       string            `json:"question" yaml:"question"`
	Options        []string          `json:"options" yaml:"options"`
	Correct        string            `json:"correct_option" yaml:"correct_option"`
	ExplainCorrect string            `json:"explain_correct,omitempty" yaml:"explain_correct,omitempty"`
	Explanations   map[string]string `json:"explanations,omitempty" yaml:"explanations,omitempty"`
}

type Quiz struct {
	Title          string         `json:"title" yaml:"title"`
	Topic          string         `json:"topic" yaml:"topic"`
	TotalQuestions int            `json:"total_questions" yaml:"total_questions"`
	Questions      []QuizQuestion `json:"quiz" yaml:"quiz"`
	Generated      bool           `json:"generated" yaml:"generated"`
	GeneratedAt    time.Time      `json:"generated_at" yaml:"generated_at"`
}

// OptionLabels are the quiz option labels in order.
var OptionLabels = []string{"A", "B", "C", "D"}

// Study builds flashcards and quizzes from lecture text.
type Study struct {
	completer Completer
	logger    *log.Logger
	now       func() time.Time
}

// NewStudy returns a Study backed by c. A nil c serves canned material.
func NewStudy(c Completer) *Study {
	return &Study{
		completer: c,
		logger:    log.WithPrefix("study"),
		now:       time.Now,
	}
}

// Flashcards returns up to n cards covering lecture. Parsed cards are
// padded with canned ones until there are at least min(n, 8).
func (s *Study) Flashcards(ctx context.Context, lecture string, n int) (FlashcardSet, error) {
	if strings.TrimSpace(lecture) == "" {
		return FlashcardSet{}, ErrNoContent
	}
	if n <= 0 {
		n = 10
	}

	var cards []Flashcard
	if s.completer != nil {
		text, err := s.completer.Complete(ctx, fmt.Sprintf(flashcardPrompt, n, lecture))
		if err != nil {
			if ctx.Err() != nil {
				return FlashcardSet{}, ctx.Err()
			}
			s.logger.Warn("Study: flashcard generation failed, using canned cards", "err", err)
		} else {
			cards = ParseFlashcards(text)
		}
	}
	generated := len(cards) > 0
	cards = padFlashcards(cards, n)

	return FlashcardSet{
		Title:       studyTitle + " - Revision Flashcards",
		Topic:       studyTopic,
		TotalCards:  len(cards),
		Flashcards:  cards,
		Generated:   generated,
		GeneratedAt: s.now(),
	}, nil
}

// Quiz returns up to n questions covering lecture.
func (s *Study) Quiz(ctx context.Context, lecture string, n int) (Quiz, error) {
	if strings.TrimSpace(lecture) == "" {
		return Quiz{}, ErrNoContent
	}
	if n <= 0 {
		n = 10
	}

	var questions []QuizQuestion
	if s.completer != nil {
		text, err := s.completer.Complete(ctx, fmt.Sprintf(quizPrompt, n, n, lecture))
		if err != nil {
			if ctx.Err() != nil {
				return Quiz{}, ctx.Err()
			}
			s.logger.Warn("Study: quiz generation failed, using canned questions", "err", err)
		} else {
			questions = ParseQuiz(text)
		}
	}
	generated := len(questions) > 0
	if !generated {
		questions = FallbackQuiz()
	}
	if len(questions) > n {
		questions = questions[:n]
	}

	return Quiz{
		Title:          studyTitle + " - Quiz",
		Topic:          studyTopic,
		TotalQuestions: len(questions),
		Questions:      questions,
		Generated:      generated,
		GeneratedAt:    s.now(),
	}, nil
}

// ParseFlashcards reads "CARD n:" blocks with "Q:" and "A:" lines. Lines
// that follow a Q or A line continue it. Blocks missing either part are
// dropped.
func ParseFlashcards(text string) []Flashcard {
	var cards []Flashcard
	blocks := strings.Split(text, "CARD")
	for _, block := range blocks[1:] {
		var q, a *strings.Builder
		question, answer := &strings.Builder{}, &strings.Builder{}
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case strings.HasPrefix(line, "Q:"):
				q, a = question, nil
				q.WriteString(strings.TrimSpace(line[2:]))
			case strings.HasPrefix(line, "A:"):
				q, a = nil, answer
				a.WriteString(strings.TrimSpace(line[2:]))
			case q != nil:
				q.WriteString(" " + line)
			case a != nil:
				a.WriteString(" " + line)
			}
		}

		qs, as := strings.TrimSpace(question.String()), strings.TrimSpace(answer.String())
		if qs == "" || as == "" {
			continue
		}
		cards = append(cards, Flashcard{
			ID:         len(cards) + 1,
			Question:   qs,
			Answer:     as,
			Topic:      CategorizeTopic(qs),
			Difficulty: "beginner",
		})
	}
	return cards
}

var topicCues = []struct {
	topic string
	words []string
}{
	{TopicDefinitions, []string{"definition", "what is", "what are"}},
	{TopicExamples, []string{"example", "real life", "everyday", "word problem"}},
	{TopicVocabulary, []string{"variable", "constant", "term", "vocabulary"}},
	{TopicNotation, []string{"fraction bar", "notation", "/", "division"}},
	{TopicSubstitution, []string{"substitution", "evaluate", "substitute"}},
	{TopicInverseOperations, []string{"inverse", "undo", "opposite"}},
}

// CategorizeTopic assigns a flashcard topic from the question wording.
// The first matching topic wins.
func CategorizeTopic(question string) string {
	lower := strings.ToLower(question)
	for _, tc := range topicCues {
		for _, w := range tc.words {
			if strings.Contains(lower, w) {
				return tc.topic
			}
		}
	}
	return TopicGeneral
}

// ParseQuiz reads "QUESTION n:" blocks. Options may be written "A)" or
// "A:". Blocks without a question, options or a valid answer are dropped.
func ParseQuiz(text string) []QuizQuestion {
	var quiz []QuizQuestion
	blocks := strings.Split(text, "QUESTION")
	for _, block := range blocks[1:] {
		var (
			q       string
			opts    = map[string]string{}
			answer  string
			correct string
			explain = map[string]string{}
		)
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "Q:"):
				q = strings.TrimSpace(line[2:])
			case strings.HasPrefix(line, "ANSWER:"):
				answer = strings.TrimSpace(strings.TrimPrefix(line, "ANSWER:"))
			case strings.HasPrefix(line, "EXPLAIN_CORRECT:"):
				correct = strings.TrimSpace(strings.TrimPrefix(line, "EXPLAIN_CORRECT:"))
			case strings.HasPrefix(line, "EXPLAIN_"):
				if label, rest, ok := optionLine(strings.TrimPrefix(line, "EXPLAIN_")); ok {
					explain[label] = rest
				}
			default:
				if label, rest, ok := optionLine(line); ok {
					opts[label] = rest
				}
			}
		}

		label := strings.ToUpper(strings.TrimSpace(answer))
		if len(label) > 1 {
			label = label[:1]
		}
		if q == "" || len(opts) == 0 || !validLabel(label) {
			continue
		}

		options := make([]string, len(OptionLabels))
		for i, l := range OptionLabels {
			options[i] = opts[l]
		}
		qq := QuizQuestion{
			ID:             len(quiz) + 1,
			Question:       q,
			Options:        options,
			Correct:        label,
			ExplainCorrect: correct,
		}
		if len(explain) > 0 {
			qq.Explanations = explain
		}
		quiz = append(quiz, qq)
	}
	return quiz
}

// optionLine splits "B) text" or "B: text".
func optionLine(line string) (label, rest string, ok bool) {
	if len(line) < 2 {
		return "", "", false
	}
	label = line[:1]
	if !validLabel(label) || (line[1] != ')' && line[1] != ':') {
		return "", "", false
	}
	return label, strings.TrimSpace(line[2:]), true
}

func validLabel(l string) bool {
	for _, v := range OptionLabels {
		if l == v {
			return true
		}
	}
	return false
}

func padFlashcards(cards []Flashcard, n int) []Flashcard {
	want := min(n, 8)
	canned := FallbackFlashcards()
	for i := 0; len(cards) < want; i++ {
		c := canned[i%len(canned)]
		c.ID = len(cards) + 1
		cards = append(cards, c)
	}
	if len(cards) > n {
		cards = cards[:n]
	}
	return cards
}

// FallbackFlashcards returns the eight canned revision cards.
func FallbackFlashcards() []Flashcard {
	cards := []Flashcard{
		{Question: "What is algebra?", Answer: "Algebra is the language of mathematics that uses letters and symbols to represent numbers and relationships.", Topic: TopicDefinitions},
		{Question: "What does the fraction bar (/) mean in algebra?", Answer: "The fraction bar means division. For example, x/5 means x divided by 5.", Topic: TopicNotation},
		{Question: "What is a variable in algebra?", Answer: "A variable is a letter, like x or y, that stands for an unknown number or a value that can change.", Topic: TopicVocabulary},
		{Question: "What is a constant?", Answer: "A constant is a number that never changes, like 5, 10 or 3.14.", Topic: TopicVocabulary},
		{Question: "If x = 5, what is 20/x + 2?", Answer: "First substitute: 20/5 + 2. Then calculate: 4 + 2 = 6.", Topic: TopicSubstitution},
		{Question: "What is the inverse operation of multiplication?", Answer: "Division. If you multiply by 3, you divide by 3 to undo it.", Topic: TopicInverseOperations},
		{Question: "Give an example of algebra in everyday life.", Answer: "If your meal costs 10 and you split a dessert that costs d with a friend, your total is 10 + d/2.", Topic: TopicExamples},
		{Question: "How do you write '20 divided by x plus 2' in algebraic notation?", Answer: "20/x + 2", Topic: TopicNotation},
	}
	for i := range cards {
		cards[i].ID = i + 1
		cards[i].Difficulty = "beginner"
	}
	return cards
}

// FallbackQuiz returns the canned quiz, easiest question first.
func FallbackQuiz() []QuizQuestion {
	quiz := []QuizQuestion{
		{
			Question:       "How do we usually write x divided by 5 in algebra?",
			Options:        []string{"x ÷ 5", "x/5", "5x", "x - 5"},
			Correct:        "B",
			ExplainCorrect: "Algebra uses the fraction bar for division, so x divided by 5 is x/5.",
		},
		{
			Question:       "In the expression 4/y + 9, which part is the constant?",
			Options:        []string{"4/y", "y", "9", "4"},
			Correct:        "C",
			ExplainCorrect: "9 never changes whatever y is, so it is the constant.",
		},
		{
			Question:       "How many terms does 4/y + 9 have?",
			Options:        []string{"1", "2", "3", "4"},
			Correct:        "B",
			ExplainCorrect: "Terms are separated by + or -, so 4/y and 9 are the two terms.",
		},
		{
			Question:       "What is 20/x + 2 when x = 5?",
			Options:        []string{"4", "6", "10", "22"},
			Correct:        "B",
			ExplainCorrect: "Substitute to get 20/5 + 2, divide to get 4, then add 2 to get 6.",
		},
		{
			Question:       "To solve y/4 = 5, what do you do to both sides?",
			Options:        []string{"Add 4", "Subtract 4", "Divide by 4", "Multiply by 4"},
			Correct:        "D",
			ExplainCorrect: "Multiplication undoes division, so multiply both sides by 4 to get y = 20.",
		},
		{
			Question:       "Which equation matches: a number divided by six is seven?",
			Options:        []string{"6x = 7", "x/6 = 7", "x - 6 = 7", "7/x = 6"},
			Correct:        "B",
			ExplainCorrect: "The number is x, divided by six is x/6, and the result is seven gives = 7.",
		},
	}
	for i := range quiz {
		quiz[i].ID = i + 1
	}
	return quiz
}

const flashcardPrompt = `Based on this Class 7 algebra lecture, create %d revision flashcards for 12 to 13 year old students.
Cover definitions, examples and key concepts: the fraction bar, variables, constants and terms, substitution,
inverse operations, word problems and everyday applications.

Format each card exactly as:
CARD [number]:
Q: [question]
A: [answer]

Lecture:
%s`

const quizPrompt = `Based on this Class 7 algebra lecture, create a quiz of %d multiple-choice questions, easiest first.
Each question has four options. Format each question exactly as:
QUESTION [number]:
Q: [question]
A) [option]
B) [option]
C) [option]
D) [option]
ANSWER: [A/B/C/D]
EXPLAIN_CORRECT: [why the answer is right]
EXPLAIN_A: [why A is right or wrong]
EXPLAIN_B: [why B is right or wrong]
EXPLAIN_C: [why C is right or wrong]
EXPLAIN_D: [why D is right or wrong]

Create exactly %d questions.

Lecture:
%s`
