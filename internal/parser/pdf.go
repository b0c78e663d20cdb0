package parser

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/dgallion1/cdsgest/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// BackendPdftotext selects the poppler pdftotext binary instead of the Go reader.
const BackendPdftotext = "pdftotext"

// ErrNoPdftotext is returned when the pdftotext backend is required but missing.
var ErrNoPdftotext = errors.New("pdftotext not found in PATH")

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFParser struct {
	Backend           string
	FallbackPdftotext bool
}

// CheckPdftotext reports whether the pdftotext binary can be found.
func CheckPdftotext() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrNoPdftotext
	}
	return nil
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "cdsgest-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	var pages []document.Page
	if p.Backend == BackendPdftotext {
		pages, err = extractPdftotext(tmpPath)
	} else {
		pages, err = extractPDFPages(tmpPath)
		if (err != nil || pagesEmpty(pages)) && p.FallbackPdftotext {
			if fbPages, fbErr := extractPdftotext(tmpPath); fbErr == nil {
				pages, err = fbPages, nil
			} else if err == nil {
				err = fbErr
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return &document.Document{Title: titleOf(filename), Pages: pages}, nil
}

func extractPDFPages(path string) ([]document.Page, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []document.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pg, err := readPage(page, i)
		if err != nil {
			continue
		}
		pages = append(pages, pg)
	}
	return pages, nil
}

// readPage rebuilds lines from the positioned glyphs of the page content;
// each line also becomes a table row split at wide horizontal gaps.
func readPage(page pdflib.Page, num int) (document.Page, error) {
	rows := contentRows(pageGlyphs(page))
	if len(rows) == 0 {
		text, err := page.GetPlainText(nil)
		if err != nil {
			return document.Page{}, err
		}
		return document.Page{Number: num, Text: text}, nil
	}

	lines := make([]string, 0, len(rows))
	for _, cells := range rows {
		lines = append(lines, strings.Join(cells, " "))
	}
	return document.Page{
		Number: num,
		Text:   strings.Join(lines, "\n"),
		Tables: []document.Table{{Rows: rows}},
	}, nil
}

// pageGlyphs returns the page's glyphs in content order. The content
// interpreter panics on malformed streams.
func pageGlyphs(page pdflib.Page) (texts []pdflib.Text) {
	defer func() {
		if r := recover(); r != nil {
			texts = nil
		}
	}()
	return page.Content().Text
}

const (
	// cellGap is the horizontal gap, in font sizes, that separates two cells.
	cellGap = 1.5
	// wordGap is the gap, in font sizes, above which two glyphs are separate words.
	wordGap = 0.15
	// glyphEm estimates a glyph's advance when the font carries no widths.
	glyphEm = 0.5
)

// span is a run of glyphs on one baseline with no cell-sized gap inside.
type span struct {
	x, y, size float64
	last       float64 // x of the most recent glyph
	end        float64 // x just past the most recent glyph, when widths are known
	run        int     // glyphs stacked at last when widths are unknown
	text       strings.Builder
}

// next is the expected x of the glyph following the span.
func (s *span) next() float64 {
	if s.end > s.last {
		return s.end
	}
	return s.last + glyphEm*s.size*float64(s.run)
}

func (s *span) add(t pdflib.Text) {
	if t.W == 0 && t.X-s.last < 0.01 && s.text.Len() > 0 {
		s.run++
	} else {
		s.run = 1
	}
	s.last = t.X
	s.end = t.X + t.W
	s.text.WriteString(t.S)
}

// contentSpans groups glyphs into spans. Fonts without a widths table report
// zero advance, so every glyph of one show-text operation lands on the same x.
func contentSpans(texts []pdflib.Text) []*span {
	var spans []*span
	var cur *span
	for _, t := range texts {
		if t.S == "" || t.S == "\n" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		if cur != nil && math.Abs(t.Y-cur.y) < 0.3*size && t.X >= cur.last-0.01 {
			if t.W == 0 && t.X-cur.last < 0.01 {
				cur.add(t)
				continue
			}
			dx := t.X - cur.next()
			switch {
			case dx <= wordGap*size:
				cur.add(t)
				continue
			case dx < cellGap*size:
				if !strings.HasSuffix(cur.text.String(), " ") && !strings.HasPrefix(t.S, " ") {
					cur.text.WriteString(" ")
				}
				cur.add(t)
				continue
			}
		}
		cur = &span{x: t.X, y: t.Y, size: size, last: t.X}
		cur.add(t)
		spans = append(spans, cur)
	}
	return spans
}

// contentRows orders spans top to bottom and left to right, and returns
// the cells of each visual line.
func contentRows(texts []pdflib.Text) [][]string {
	spans := contentSpans(texts)
	slices.SortStableFunc(spans, func(a, b *span) int { return cmp.Compare(b.y, a.y) })

	var rows [][]string
	for i := 0; i < len(spans); {
		j := i + 1
		for j < len(spans) && spans[i].y-spans[j].y < 0.5*spans[i].size {
			j++
		}
		line := spans[i:j]
		slices.SortStableFunc(line, func(a, b *span) int { return cmp.Compare(a.x, b.x) })
		if cells := lineCells(line); len(cells) > 0 {
			rows = append(rows, cells)
		}
		i = j
	}
	return rows
}

func lineCells(line []*span) []string {
	var cells []string
	var cur strings.Builder
	for i, s := range line {
		if i > 0 {
			gap := s.x - line[i-1].next()
			switch {
			case gap >= cellGap*s.size:
				cells = append(cells, layoutCells(cur.String())...)
				cur.Reset()
			case gap > wordGap*s.size:
				cur.WriteString(" ")
			}
		}
		cur.WriteString(s.text.String())
	}
	return append(cells, layoutCells(cur.String())...)
}

func appendCell(cells []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return cells
	}
	return append(cells, s)
}

func extractPdftotext(path string) ([]document.Page, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	var pages []document.Page
	for i, text := range splitPages(string(out)) {
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, layoutPage(i+1, text))
	}
	return pages, nil
}

func splitPages(text string) []string {
	return strings.Split(text, "\f")
}

func pagesEmpty(pages []document.Page) bool {
	d := document.Document{Pages: pages}
	return d.Empty()
}
