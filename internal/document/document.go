package document

import "strings"

// Document is the raw content of one source report.
type Document struct {
	Title string // Source filename without extension
	Pages []Page // In reading order
}

// Page is the text and table grids of a single page (or sheet, for workbooks).
type Page struct {
	Number int
	Text   string
	Tables []Table
}

// Table is a grid of cell strings. Rows may have differing lengths.
type Table struct {
	Rows [][]string
}

// Text joins all page texts with newlines.
func (d *Document) Text() string {
	var sb strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// Tables returns every table grid across all pages, in page order.
func (d *Document) Tables() []Table {
	var out []Table
	for _, p := range d.Pages {
		out = append(out, p.Tables...)
	}
	return out
}

// Rows flattens all table grids into a single row sequence.
func (d *Document) Rows() [][]string {
	var out [][]string
	for _, t := range d.Tables() {
		for _, r := range t.Rows {
			if len(r) == 0 {
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

// RowText joins the non-empty cells of a row with single spaces.
func RowText(row []string) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		c = strings.TrimSpace(c)
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the document carries no text and no tables.
func (d *Document) Empty() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" || len(p.Tables) > 0 {
			return false
		}
	}
	return true
}
