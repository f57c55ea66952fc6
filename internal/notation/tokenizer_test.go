package notation

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		kinds []tokenKind
		texts []string
	}{
		{
			input: "2x+3.5",
			kinds: []tokenKind{kindNumber, kindWord, kindSymbol, kindNumber},
			texts: []string{"2", "x", "+", "3.5"},
		},
		{
			input: "don't well-known",
			kinds: []tokenKind{kindWord, kindSpace, kindWord},
			texts: []string{"don't", " ", "well-known"},
		},
		{
			input: "πr²",
			kinds: []tokenKind{kindSymbol, kindWord, kindSymbol},
			texts: []string{"π", "r", "²"},
		},
		{
			input: "a>=b",
			kinds: []tokenKind{kindWord, kindSymbol, kindWord},
			texts: []string{"a", ">=", "b"},
		},
		{
			input: "5.",
			kinds: []tokenKind{kindNumber, kindSymbol},
			texts: []string{"5", "."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(tt.input)
			var kinds []tokenKind
			var texts []string
			for _, tok := range tokens {
				kinds = append(kinds, tok.kind)
				texts = append(texts, tok.text)
			}
			if !reflect.DeepEqual(kinds, tt.kinds) {
				t.Errorf("kinds = %v, want %v", kinds, tt.kinds)
			}
			if !reflect.DeepEqual(texts, tt.texts) {
				t.Errorf("texts = %q, want %q", texts, tt.texts)
			}
			if got := raw(tokens); got != tt.input {
				t.Errorf("raw round trip = %q, want %q", got, tt.input)
			}
		})
	}
}
