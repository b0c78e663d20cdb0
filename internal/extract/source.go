package extract

import (
	"strings"

	"github.com/dgallion1/cdsgest/internal/document"
	"github.com/dgallion1/cdsgest/internal/normalize"
)

// Source is the normalized view of one report that matchers scan.
type Source struct {
	Lines  []string   // trimmed, non-empty lines
	Joined string     // lines joined by single spaces
	Rows   [][]string // table rows with normalized cells
}

// NewSource normalizes a parsed document for matching.
func NewSource(doc *document.Document) *Source {
	lines := normalize.Lines(normalize.Text(doc.Text()))
	src := &Source{
		Lines:  lines,
		Joined: strings.Join(lines, " "),
	}
	for _, row := range doc.Rows() {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(normalize.Text(c))
		}
		if document.RowText(cells) == "" {
			continue
		}
		src.Rows = append(src.Rows, cells)
	}
	return src
}

// rowTexts renders each table row as one line.
func (s *Source) rowTexts() []string {
	out := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = document.RowText(r)
	}
	return out
}
