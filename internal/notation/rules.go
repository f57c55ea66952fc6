package notation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// rule inspects the stage input at position i. When it matches it returns
// the replacement tokens and the number of input tokens they replace.
type rule struct {
	name  string
	apply func(ts []token, i int) (out []token, n int, ok bool)
}

// stage is one pass over the token stream. Rules are tried in order at each
// position and the first match wins.
type stage struct {
	name  string
	rules []rule
}

func (s stage) run(ts []token) []token {
	out := make([]token, 0, len(ts))
	for i := 0; i < len(ts); {
		matched := false
		for _, r := range s.rules {
			repl, n, ok := r.apply(ts, i)
			if !ok || n < 1 {
				continue
			}
			out = append(out, repl...)
			i += n
			matched = true
			break
		}
		if !matched {
			out = append(out, ts[i])
			i++
		}
	}
	return out
}

func symbolAt(ts []token, i int, text string) bool {
	return i >= 0 && i < len(ts) && ts[i].kind == kindSymbol && ts[i].text == text
}

func kindAt(ts []token, i int, k tokenKind) bool {
	return i >= 0 && i < len(ts) && ts[i].kind == k
}

func integerAt(ts []token, i int) bool {
	return kindAt(ts, i, kindNumber) && !strings.Contains(ts[i].text, ".")
}

// neighbor finds the closest non-space token from i in direction dir. gap
// reports whether whitespace separated them.
func neighbor(ts []token, i, dir int) (t token, gap, ok bool) {
	for j := i + dir; j >= 0 && j < len(ts); j += dir {
		if ts[j].kind == kindSpace {
			gap = true
			continue
		}
		return ts[j], gap, true
	}
	return token{}, gap, false
}

// digitLike reports whether t reads as a numeric value: a number, a spoken
// operand group, or a superscript/subscript glyph attached to a value.
func digitLike(t token) bool {
	switch t.kind {
	case kindNumber:
		return true
	case kindSpoken:
		return t.operand
	case kindSymbol:
		r, _ := utf8.DecodeRuneInString(t.text)
		return utf8.RuneCountInString(t.text) == 1 && glyphRune(r)
	}
	return false
}

// variableLike reports whether t is a single-letter variable, Latin or Greek.
func variableLike(t token) bool {
	if utf8.RuneCountInString(t.text) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.text)
	switch t.kind {
	case kindWord:
		return unicode.IsLetter(r)
	case kindSymbol:
		return unicode.Is(unicode.Greek, r) && unicode.IsLetter(r)
	}
	return false
}

// signContext reports whether t, the token before a hyphen, allows that
// hyphen to be read as a leading negative sign.
func signContext(t token, ok, gap bool) bool {
	if !ok || gap {
		return true
	}
	if t.kind != kindSymbol {
		return false
	}
	if t.text == "(" || t.text == "[" {
		return true
	}
	_, isOperator := operatorPhrases[t.text]
	return isOperator
}

func exponentPhrase(digits string) string {
	switch digits {
	case "2":
		return "squared"
	case "3":
		return "cubed"
	}
	return "to the power of " + spellDigits(digits)
}

// exponents reads a chain of caret exponents ("^2^3") starting at i. It
// returns one spoken token per exponent and the number of input tokens
// consumed.
func exponents(ts []token, i int) ([]token, int) {
	var out []token
	n := 0
	for symbolAt(ts, i+n, "^") && integerAt(ts, i+n+1) {
		out = append(out, spoken(exponentPhrase(ts[i+n+1].text), true))
		n += 2
	}
	return out, n
}

// structuralRules rewrite multi-token patterns before any single symbol is
// touched, so numeric conversion cannot break them apart.
func (n *Normalizer) structuralRules() []rule {
	return []rule{
		{
			name: "fraction",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !integerAt(ts, i) || !symbolAt(ts, i+1, "/") || !integerAt(ts, i+2) {
					return nil, 0, false
				}
				num, den := ts[i].text, ts[i+2].text
				if num == "1" {
					if phrase, ok := unitFractions[den]; ok {
						return []token{spoken(phrase, true)}, 3, true
					}
				}
				phrase := spellDigits(num) + " over " + spellDigits(den)
				return []token{spoken(phrase, true)}, 3, true
			},
		},
		{
			name: "caret exponent",
			apply: func(ts []token, i int) ([]token, int, bool) {
				base := kindAt(ts, i, kindWord) || kindAt(ts, i, kindNumber)
				if !base {
					return nil, 0, false
				}
				exps, n := exponents(ts, i+1)
				if n == 0 {
					return nil, 0, false
				}
				return append([]token{ts[i]}, exps...), 1 + n, true
			},
		},
		{
			name: "absolute value bars",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !symbolAt(ts, i, "|") {
					return nil, 0, false
				}
				for j := i + 1; j < len(ts); j++ {
					if !symbolAt(ts, j, "|") {
						continue
					}
					inner := strings.TrimSpace(raw(ts[i+1 : j]))
					if inner == "" {
						return nil, 0, false
					}
					return []token{spoken("absolute value of "+n.Normalize(inner), true)}, j - i + 1, true
				}
				return nil, 0, false
			},
		},
		{
			name: "root prefix",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if i >= len(ts) || ts[i].kind != kindSymbol {
					return nil, 0, false
				}
				switch ts[i].text {
				case "√", "∛", "∜":
				default:
					return nil, 0, false
				}
				if !kindAt(ts, i+1, kindWord) && !kindAt(ts, i+1, kindNumber) {
					return nil, 0, false
				}
				return []token{spoken(functionPhrases[ts[i].text], false), ts[i+1]}, 2, true
			},
		},
		{
			name: "coefficient",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !kindAt(ts, i, kindNumber) || !kindAt(ts, i+1, kindWord) {
					return nil, 0, false
				}
				return []token{ts[i], {kind: kindSpace, text: " "}}, 1, true
			},
		},
		{
			name: "parentheses",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !symbolAt(ts, i, "(") {
					return nil, 0, false
				}
				depth := 0
				for j := i; j < len(ts); j++ {
					switch {
					case symbolAt(ts, j, "("):
						depth++
					case symbolAt(ts, j, ")"):
						depth--
					}
					if depth > 0 {
						continue
					}
					inner := strings.TrimSpace(raw(ts[i+1 : j]))
					if inner == "" {
						return nil, 0, false
					}
					phrase := "open parenthesis " + n.Normalize(inner) + " close parenthesis"
					exps, k := exponents(ts, j+1)
					return append([]token{spoken(phrase, true)}, exps...), j - i + 1 + k, true
				}
				return nil, 0, false
			},
		},
	}
}

func operatorRules() []rule {
	return []rule{
		{
			name: "minus",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !symbolAt(ts, i, "-") {
					return nil, 0, false
				}
				prev, prevGap, hasPrev := neighbor(ts, i, -1)
				next, nextGap, hasNext := neighbor(ts, i, 1)
				if !hasNext {
					return nil, 0, false
				}
				minus := []token{spoken("minus", false)}
				switch {
				case hasPrev && digitLike(prev) && digitLike(next):
					return minus, 1, true
				case hasPrev && variableLike(prev) && variableLike(next):
					return minus, 1, true
				case hasPrev && digitLike(prev) && variableLike(next):
					return minus, 1, true
				case hasPrev && variableLike(prev) && digitLike(next):
					return minus, 1, true
				case next.kind == kindNumber && !nextGap && signContext(prev, hasPrev, prevGap):
					return minus, 1, true
				}
				return nil, 0, false
			},
		},
		{
			name: "factorial",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !symbolAt(ts, i, "!") || !kindAt(ts, i-1, kindNumber) {
					return nil, 0, false
				}
				return []token{spoken("factorial", true)}, 1, true
			},
		},
		{
			name: "division slash",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !symbolAt(ts, i, "/") {
					return nil, 0, false
				}
				// "and/or" style prose stays as written.
				prose := kindAt(ts, i-1, kindWord) && kindAt(ts, i+1, kindWord) &&
					utf8.RuneCountInString(ts[i-1].text) > 1 &&
					utf8.RuneCountInString(ts[i+1].text) > 1
				if prose {
					return nil, 0, false
				}
				return []token{spoken("divided by", false)}, 1, true
			},
		},
		tableRule("operator table", operatorPhrases, false),
	}
}

func functionRules() []rule {
	return []rule{
		{
			name: "euler constant",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !kindAt(ts, i, kindWord) || ts[i].text != "e" {
					return nil, 0, false
				}
				return []token{spoken("e", true)}, 1, true
			},
		},
		tableRule("function table", functionPhrases, false),
	}
}

func glyphRules() []rule {
	return []rule{
		tableRule("exponent glyphs", exponentPhrases, true),
		tableRule("subscript glyphs", subscriptPhrases, true),
	}
}

func numberRules() []rule {
	return []rule{
		{
			name: "number words",
			apply: func(ts []token, i int) ([]token, int, bool) {
				if !kindAt(ts, i, kindNumber) {
					return nil, 0, false
				}
				return []token{{kind: kindWord, text: SpellDecimal(ts[i].text)}}, 1, true
			},
		},
	}
}

// tableRule replaces a symbol token found in table. An empty phrase drops
// the symbol.
func tableRule(name string, table map[string]string, operand bool) rule {
	return rule{
		name: name,
		apply: func(ts []token, i int) ([]token, int, bool) {
			if !kindAt(ts, i, kindSymbol) {
				return nil, 0, false
			}
			phrase, ok := table[ts[i].text]
			if !ok {
				return nil, 0, false
			}
			if phrase == "" {
				return []token{{kind: kindSpace, text: " "}}, 1, true
			}
			return []token{spoken(phrase, operand)}, 1, true
		},
	}
}
