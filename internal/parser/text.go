package parser

import (
	"bufio"
	"io"

	"github.com/dhl1626/maogai-quiz/internal/document"
)

// TextParser handles plain text files, one paragraph per line.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &document.Document{Title: titleFromFilename(filename)}
	for scanner.Scan() {
		doc.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}
