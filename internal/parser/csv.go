package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dhl1626/maogai-quiz/internal/document"
)

// CSVParser handles CSV exports of a bank: each non-empty cell line is
// a paragraph, read row by row and left to right.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &document.Document{Title: titleFromFilename(filename)}
	for _, row := range records {
		for _, cell := range row {
			addTextLines(doc, cell)
		}
	}
	return doc, nil
}
