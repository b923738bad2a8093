package parser

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/dhl1626/maogai-quiz/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings and
// every line of a block become paragraphs. Ordered list items keep
// their number so "1. 题干" survives the round trip through the AST.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &document.Document{Title: titleFromFilename(filename)}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		walkMarkdownBlock(doc, n, src, "")
	}
	return doc, nil
}

func walkMarkdownBlock(doc *document.Document, n ast.Node, src []byte, prefix string) {
	switch node := n.(type) {
	case *ast.List:
		i := 0
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := ""
			if node.IsOrdered() {
				marker = strconv.Itoa(node.Start+i) + string(node.Marker) + " "
			}
			walkMarkdownListItem(doc, item, src, marker)
			i++
		}
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			walkMarkdownBlock(doc, c, src, "")
		}
	case *ast.ThematicBreak:
	default:
		addMarkdownLines(doc, extractText(n, src), prefix)
	}
}

// walkMarkdownListItem applies the list marker to the first paragraph
// of the item only; nested blocks follow unprefixed.
func walkMarkdownListItem(doc *document.Document, item ast.Node, src []byte, marker string) {
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if first {
			walkMarkdownBlock(doc, c, src, marker)
			first = false
			continue
		}
		walkMarkdownBlock(doc, c, src, "")
	}
}

func addMarkdownLines(doc *document.Document, t, prefix string) {
	for i, line := range strings.Split(t, "\n") {
		if i == 0 && prefix != "" && strings.TrimSpace(line) != "" {
			line = prefix + line
		}
		doc.Add(line)
	}
}

// extractText gets the text content of a goldmark AST node, with soft
// and hard line breaks kept as newlines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if _, ok := n.(*ast.FencedCodeBlock); ok {
		writeLines(&buf, n, src)
		return strings.TrimSpace(buf.String())
	}
	if _, ok := n.(*ast.CodeBlock); ok {
		writeLines(&buf, n, src)
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else if s, ok := c.(*ast.String); ok {
			buf.Write(s.Value)
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

func writeLines(buf *bytes.Buffer, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
}
