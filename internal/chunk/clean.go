package chunk

import (
	"strings"
	"unicode"
)

// MaxSpeechLength bounds the text handed to the engine in one call.
const MaxSpeechLength = 2000

// CleanForSpeech prepares one chunk for the engine: it collapses
// whitespace, drops characters other than letters, digits, whitespace and
// basic punctuation, and makes sure the text ends a sentence. Text longer
// than MaxSpeechLength is cut and marked with "...". An empty result means
// there is nothing to speak.
func CleanForSpeech(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r), r == '_':
			return r
		case strings.ContainsRune(".,!?-:;", r):
			return r
		}
		return -1
	}, text)
	text = strings.TrimSpace(strings.Join(strings.Fields(text), " "))
	if text == "" || strings.Trim(text, ".,!?-:; ") == "" {
		return ""
	}

	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += "."
	}

	if rs := []rune(text); len(rs) > MaxSpeechLength {
		text = string(rs[:MaxSpeechLength]) + "..."
	}
	return text
}
