package chunk

import (
	"strings"
	"testing"
)

func TestStripMarkdown(t *testing.T) {
	input := "# Fraction Bars\n\nThe **fraction bar** means *division*.\n\n- first item\n- second item\n\n```\ncode here\n```\n\nSee [the notes](http://example.com) now"
	got := StripMarkdown(input)

	for _, want := range []string{
		"Fraction Bars.",
		"The fraction bar means division.",
		"first item.",
		"second item.",
		"See the notes now.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("StripMarkdown output missing %q\n got: %q", want, got)
		}
	}
	for _, unwanted := range []string{"**", "#", "code here", "http://"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("StripMarkdown output should not contain %q: %q", unwanted, got)
		}
	}
}

func TestStripMarkdownPlainText(t *testing.T) {
	if got := StripMarkdown("Two plus three equals five."); got != "Two plus three equals five." {
		t.Errorf("got %q", got)
	}
}
