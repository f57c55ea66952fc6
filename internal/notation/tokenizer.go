package notation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	kindSpace tokenKind = iota
	kindWord
	kindNumber
	kindSymbol
	// kindSpoken marks words produced by a rule. Later stages never rewrite
	// them.
	kindSpoken
)

func (k tokenKind) String() string {
	switch k {
	case kindSpace:
		return "space"
	case kindWord:
		return "word"
	case kindNumber:
		return "number"
	case kindSymbol:
		return "symbol"
	case kindSpoken:
		return "spoken"
	default:
		return "unknown"
	}
}

type token struct {
	kind tokenKind
	text string
	// operand is set on spoken groups that stand in for a value (an exponent,
	// a fraction, a parenthesized group) so the minus rule treats them like
	// digits.
	operand bool
}

func spoken(text string, operand bool) token {
	return token{kind: kindSpoken, text: text, operand: operand}
}

// multiRuneOperators are symbol sequences tokenized as one operator.
var multiRuneOperators = []string{"==", "<=", ">="}

func wordRune(r rune) bool {
	return unicode.IsLetter(r) && !symbolRune(r)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// tokenize splits text into spaces, words, numbers and single symbols.
//
// Words keep inner apostrophes and inner hyphens ("don't", "well-known",
// "x-y"), so a hyphen only becomes its own token when something other than
// a letter sits on one of its sides. Numbers absorb one decimal point when
// a digit follows it.
func tokenize(text string) []token {
	var tokens []token
	rs := []rune(text)

	for i := 0; i < len(rs); {
		r := rs[i]
		start := i

		switch {
		case unicode.IsSpace(r):
			for i < len(rs) && unicode.IsSpace(rs[i]) {
				i++
			}
			tokens = append(tokens, token{kind: kindSpace, text: string(rs[start:i])})

		case isASCIIDigit(r):
			for i < len(rs) && isASCIIDigit(rs[i]) {
				i++
			}
			if i+1 < len(rs) && rs[i] == '.' && isASCIIDigit(rs[i+1]) {
				i++
				for i < len(rs) && isASCIIDigit(rs[i]) {
					i++
				}
			}
			tokens = append(tokens, token{kind: kindNumber, text: string(rs[start:i])})

		case wordRune(r):
			i++
			for i < len(rs) {
				if wordRune(rs[i]) {
					i++
					continue
				}
				joiner := rs[i] == '\'' || rs[i] == '’' || rs[i] == '-'
				if joiner && i+1 < len(rs) && wordRune(rs[i+1]) {
					i += 2
					continue
				}
				break
			}
			tokens = append(tokens, token{kind: kindWord, text: string(rs[start:i])})

		default:
			op := string(r)
			rest := string(rs[i:])
			for _, m := range multiRuneOperators {
				if strings.HasPrefix(rest, m) {
					op = m
					break
				}
			}
			i += utf8.RuneCountInString(op)
			tokens = append(tokens, token{kind: kindSymbol, text: op})
		}
	}
	return tokens
}

// render joins tokens back into text. Spoken tokens are padded with spaces;
// the final cleanup collapses the excess.
func render(tokens []token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.kind == kindSpoken {
			b.WriteByte(' ')
			b.WriteString(t.text)
			b.WriteByte(' ')
			continue
		}
		b.WriteString(t.text)
	}
	return b.String()
}

// raw joins tokens without padding. It is only meaningful before any rule
// has produced spoken tokens.
func raw(tokens []token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.text)
	}
	return b.String()
}
