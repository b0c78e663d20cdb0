package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/cdsgest/internal/document"
)

// CSVParser handles CSV exports. The whole file becomes one table.
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

	doc := &document.Document{Title: titleOf(filename)}
	if len(records) == 0 {
		return doc, nil
	}
	doc.Pages = []document.Page{{
		Number: 1,
		Text:   gridText(records),
		Tables: []document.Table{{Rows: records}},
	}}
	return doc, nil
}
