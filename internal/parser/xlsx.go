package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/cdsgest/internal/document"
	"github.com/xuri/excelize/v2"
)

// XLSXParser handles workbook editions of a report. Each sheet becomes one
// page whose table is the sheet's used range.
type XLSXParser struct{}

func (p *XLSXParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	doc := &document.Document{Title: titleOf(filename)}
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		doc.Pages = append(doc.Pages, document.Page{
			Number: i + 1,
			Text:   gridText(rows),
			Tables: []document.Table{{Rows: rows}},
		})
	}
	return doc, nil
}
