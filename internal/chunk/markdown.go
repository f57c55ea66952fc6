package chunk

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// StripMarkdown reduces generated markdown to plain prose. Headings, list
// items and paragraphs end with a period so they read as separate
// sentences; code blocks, HTML and image markup are dropped.
func StripMarkdown(markdown string) string {
	reader := text.NewReader([]byte(markdown))
	doc := md.Parser().Parse(reader)

	var buf strings.Builder
	walk(doc, reader.Source(), &buf)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func walk(node ast.Node, source []byte, buf *strings.Builder) {
	switch n := node.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML:
		return

	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			buf.WriteByte(' ')
		}
		return

	case *ast.String:
		buf.Write(n.Value)
		return

	case *ast.CodeSpan:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return

	case *ast.Image:
		return

	case *ast.Heading, *ast.Paragraph, *ast.ListItem:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c, source, buf)
		}
		endSentence(buf)
		return

	case *ast.ThematicBreak:
		endSentence(buf)
		return
	}

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c, source, buf)
	}
}

// endSentence terminates the text written so far unless it already ends
// in sentence punctuation.
func endSentence(buf *strings.Builder) {
	content := strings.TrimRight(buf.String(), " ")
	if content == "" {
		return
	}
	switch content[len(content)-1] {
	case '.', '!', '?', ':':
		buf.WriteByte(' ')
	default:
		buf.WriteString(". ")
	}
}
