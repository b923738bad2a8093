package document

import "strings"

// Document is a source file flattened into its paragraph stream.
type Document struct {
	Title      string   // Document title (from metadata or filename)
	Paragraphs []string // Raw paragraph text in document order
}

// Add appends a paragraph, skipping blank ones.
func (d *Document) Add(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	d.Paragraphs = append(d.Paragraphs, text)
}

// Len returns the number of paragraphs.
func (d *Document) Len() int {
	return len(d.Paragraphs)
}
