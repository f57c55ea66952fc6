package content

import (
	"context"
	"errors"
	"testing"
)

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Complete(context.Context, string) (string, error) { return s.text, s.err }

const cardsResponse = `Here are your flashcards.

CARD 1:
Q: What is a variable?
A: A letter that stands for an unknown number.

CARD 2:
Q: How do you write x divided by 5
using the fraction bar?
A: x/5

CARD 3:
Q: What is the opposite of multiplication?

CARD 4:
Q: Evaluate 20/x + 2 when x = 5.
A: 20/5 + 2 = 6
because you divide first.
`

func TestParseFlashcards(t *testing.T) {
	cards := ParseFlashcards(cardsResponse)
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d: %+v", len(cards), cards)
	}

	tests := []struct {
		question string
		answer   string
		topic    string
	}{
		{"What is a variable?", "A letter that stands for an unknown number.", TopicDefinitions},
		{"How do you write x divided by 5 using the fraction bar?", "x/5", TopicNotation},
		{"Evaluate 20/x + 2 when x = 5.", "20/5 + 2 = 6 because you divide first.", TopicNotation},
	}
	for i, tt := range tests {
		c := cards[i]
		if c.ID != i+1 {
			t.Errorf("card %d: id = %d", i, c.ID)
		}
		if c.Question != tt.question {
			t.Errorf("card %d: question = %q, want %q", i, c.Question, tt.question)
		}
		if c.Answer != tt.answer {
			t.Errorf("card %d: answer = %q, want %q", i, c.Answer, tt.answer)
		}
		if c.Topic != tt.topic {
			t.Errorf("card %d: topic = %q, want %q", i, c.Topic, tt.topic)
		}
	}
}

func TestCategorizeTopic(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"What is algebra?", TopicDefinitions},
		{"Give a real life example", TopicExamples},
		{"Name the constant in 4y + 9", TopicVocabulary},
		{"Why use the fraction bar?", TopicNotation},
		{"Substitute x = 2 into 3x", TopicSubstitution},
		{"How do you undo multiplying by 3?", TopicInverseOperations},
		{"Why do we study maths?", TopicGeneral},
	}
	for _, tt := range tests {
		if got := CategorizeTopic(tt.question); got != tt.want {
			t.Errorf("CategorizeTopic(%q) = %q, want %q", tt.question, got, tt.want)
		}
	}
}

const quizResponse = `QUESTION 1:
Q: What is 10/2?
A) 2
B) 5
C) 8
D) 12
ANSWER: B
EXPLAIN_CORRECT: 10 shared into 2 groups is 5.
EXPLAIN_A: 2 is the divisor.
EXPLAIN_B: Correct.

QUESTION 2:
Q: Which is the variable in 3x + 4?
A: 3
B: x
C: 4
D: +
ANSWER: b) x

QUESTION 3:
Q: Missing answer
A) one
B) two

QUESTION 4:
Q: Bad label
A) one
ANSWER: E
`

func TestParseQuiz(t *testing.T) {
	quiz := ParseQuiz(quizResponse)
	if len(quiz) != 2 {
		t.Fatalf("expected 2 questions, got %d: %+v", len(quiz), quiz)
	}

	first := quiz[0]
	if first.Correct != "B" || first.Options[1] != "5" || len(first.Options) != 4 {
		t.Errorf("unexpected first question: %+v", first)
	}
	if first.ExplainCorrect != "10 shared into 2 groups is 5." {
		t.Errorf("explain correct = %q", first.ExplainCorrect)
	}
	if first.Explanations["A"] != "2 is the divisor." || len(first.Explanations) != 2 {
		t.Errorf("explanations = %v", first.Explanations)
	}

	second := quiz[1]
	if second.ID != 2 || second.Correct != "B" || second.Options[1] != "x" {
		t.Errorf("unexpected second question: %+v", second)
	}
	if second.Explanations != nil {
		t.Errorf("expected no explanations, got %v", second.Explanations)
	}
}

func TestStudyFlashcards(t *testing.T) {
	tests := []struct {
		name          string
		completer     Completer
		n             int
		wantCards     int
		wantGenerated bool
	}{
		{"canned", nil, 10, 8, false},
		{"canned trimmed", nil, 3, 3, false},
		{"completer error", stubCompleter{err: ErrOverloaded}, 5, 5, false},
		{"parsed and padded", stubCompleter{text: cardsResponse}, 10, 8, true},
		{"parsed and trimmed", stubCompleter{text: cardsResponse}, 2, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewStudy(tt.completer).Flashcards(context.Background(), "lecture text", tt.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(set.Flashcards) != tt.wantCards || set.TotalCards != tt.wantCards {
				t.Errorf("cards = %d (total %d), want %d", len(set.Flashcards), set.TotalCards, tt.wantCards)
			}
			if set.Generated != tt.wantGenerated {
				t.Errorf("generated = %v, want %v", set.Generated, tt.wantGenerated)
			}
			for i, c := range set.Flashcards {
				if c.ID != i+1 {
					t.Errorf("card %d has id %d", i, c.ID)
				}
			}
		})
	}
}

func TestStudyRequiresContent(t *testing.T) {
	s := NewStudy(nil)
	if _, err := s.Flashcards(context.Background(), " ", 5); !errors.Is(err, ErrNoContent) {
		t.Errorf("Flashcards: expected ErrNoContent, got %v", err)
	}
	if _, err := s.Quiz(context.Background(), "", 5); !errors.Is(err, ErrNoContent) {
		t.Errorf("Quiz: expected ErrNoContent, got %v", err)
	}
}

func TestStudyQuiz(t *testing.T) {
	quiz, err := NewStudy(stubCompleter{text: quizResponse}).Quiz(context.Background(), "lecture", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quiz.Generated || quiz.TotalQuestions != 2 {
		t.Errorf("expected 2 generated questions, got %+v", quiz)
	}

	quiz, err = NewStudy(stubCompleter{text: "no questions here"}).Quiz(context.Background(), "lecture", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quiz.Generated || quiz.TotalQuestions != 4 {
		t.Errorf("expected 4 canned questions, got %+v", quiz)
	}
	for _, q := range quiz.Questions {
		if !validLabel(q.Correct) || len(q.Options) != 4 {
			t.Errorf("invalid canned question %+v", q)
		}
	}
}
