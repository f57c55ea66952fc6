package content

import (
	"context"
	"fmt"

	"github.com/studyloop/lecturecast/internal/affect"
)

var fallbackSections = map[string]string{
	Introduction: "Hello future mathematicians! Today we start our journey into algebra, the powerful language where numbers meet letters. " +
		"This first level is all about the new vocabulary and notation, especially how we write division. " +
		"By the end of this lecture you will be able to read, understand and set up your first algebraic equations. " +
		"We will cover the fraction bar, the vocabulary of variables, constants and terms, division as the inverse of multiplication, " +
		"and how to turn a word problem into an equation. Let's dive in!",

	FractionBarNotation: "In earlier math courses you mostly used the division symbol, as in 10 ÷ 2 = 5. " +
		"In algebra we nearly always stop using that symbol, because it is easy to confuse as equations get longer. " +
		"Instead we use the fraction bar. The expression x divided by 5 is written x/5. " +
		"The sum of a and b, divided by 2, is written (a + b)/2. " +
		"The fraction bar works like a built-in grouping symbol. It tells you to treat the whole numerator as one group " +
		"and the whole denominator as another, which keeps the equation easy to read!",

	AlgebraicVocabulary: "Let's learn the core vocabulary with an expression that involves division: 4/y + 9. " +
		"The variable is y. It stands for a value that is unknown or can change. " +
		"The constant is 9. Its value never changes, whatever y is. " +
		"Terms are separated by addition or subtraction signs, so this expression has two terms, 4/y and 9. " +
		"The term 4/y means that 4 is being shared equally among y groups, so the idea of division lives right inside the term.",

	SubstitutionImage: "Before we solve equations we must master substitution. Substitution means replacing the variable with a known value and simplifying. " +
		"Let's evaluate 20/x + 2 when x = 5. " +
		"First, substitute: 20/5 + 2. " +
		"Second, divide first, following the order of operations: 20/5 = 4. " +
		"Third, add last: 4 + 2 = 6. " +
		"The value of the expression is 6. Look at the picture on screen and follow each step with your finger!",

	InverseOperations: "The key to solving any equation is using inverse operations to isolate the variable. " +
		"The inverse of addition is subtraction, and the inverse of multiplication is division. " +
		"If x is multiplied by 3, as in 3x = 12, we divide both sides by 3 to undo it, so x = 4. " +
		"If y is divided by 4, as in y/4 = 5, we multiply both sides by 4 to undo it, so y = 20. " +
		"Remember the most important rule of algebra: an equation is a balanced scale. Whatever you do to one side, you must do to the other!",

	WordProblemImage: "Now we combine notation and vocabulary to translate a sentence into an equation. " +
		"Here is the problem: when a number is divided by six, the result is seven. " +
		"First, the number becomes our variable, x. " +
		"Second, divided by six becomes x/6. " +
		"Third, the result is seven gives us the right side, = 7. " +
		"The final equation is x/6 = 7. We will solve it in the next level, but mapping the words to the symbols is level one mastery!",

	RealWorldImage: "Algebra is everywhere in everyday life. Imagine your meal costs 10 and you share a dessert that costs d with a friend. " +
		"Your total is 10 + d/2. If the dessert costs 8, your total is 10 + 8/2 = 14. " +
		"Pizza works the same way. If p slices are shared by 4 friends, each friend gets p/4 slices. " +
		"Every time you split a bill, share snacks or work out a speed, you are using the language of division!",

	Conclusion: "Amazing work today! You learned that algebra uses the fraction bar to show division, as in x/5. " +
		"You can now name variables, constants and terms, substitute values into expressions like 20/x + 2, " +
		"and use inverse operations to keep an equation balanced. " +
		"You even turned a word problem into the equation x/6 = 7. " +
		"Keep practicing, keep asking questions, and get ready for level two, where we start solving these equations!",
}

const fallbackGeneric = "Algebra is the powerful language where numbers meet letters! " +
	"It helps us solve problems by using variables to represent unknown values. " +
	"With division notation, new vocabulary and inverse operations, we can turn everyday situations into equations and solve them step by step."

// FallbackText returns the canned narration for section, or a generic
// paragraph when the section is unknown.
func FallbackText(section string) string {
	if text, ok := fallbackSections[section]; ok {
		return text
	}
	return fallbackGeneric
}

// FallbackAnswer returns a canned answer shaped by the question's tone.
func FallbackAnswer(q Question) string {
	topic := q.Topic
	if topic == "" {
		topic = "algebra"
	}

	switch q.Affect.Category {
	case affect.Curious:
		return fmt.Sprintf("What a brilliant question about %s! You are thinking like a real mathematician. ", topic) +
			"Algebra lets us solve mysteries that would be impossible with numbers alone. " +
			"Think about x/5. It is not just one division, it stands for any number divided by 5. " +
			"That is the power of variables. Keep asking deep questions like this one!"
	case affect.Simple:
		return fmt.Sprintf("Good question! Simply put, %s is about reading algebraic notation. ", topic) +
			"When we write x/5, we mean x divided by 5. " +
			"For example, if x = 10, then x/5 = 10/5 = 2. " +
			"The fraction bar is just another way to show division. Does that make sense?"
	case affect.Nervous:
		return fmt.Sprintf("Don't worry at all! %s is easier than it looks, I promise. ", Title(topic)) +
			"Let's take it one step at a time. Algebra uses letters like x to stand for numbers we don't know yet. " +
			"So x/5 simply means whatever x is, divide it by 5. If x = 20, then x/5 = 4. " +
			"See? You already understand it. You've got this!"
	default:
		return fmt.Sprintf("That's a great question about %s! ", topic) +
			"Algebra helps us work with unknown values using variables like x and y. " +
			"Keep asking questions, you're learning really well!"
	}
}

// Fallback serves canned content. It never fails.
type Fallback struct{}

func (Fallback) Generate(_ context.Context, section string) (string, error) {
	return FallbackText(section), nil
}

func (Fallback) Answer(_ context.Context, q Question) (string, error) {
	return FallbackAnswer(q), nil
}
