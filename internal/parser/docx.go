package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/cdsgest/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx reports: body paragraphs become text lines and
// body tables become grids.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "cdsgest-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	var tables []document.Table
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			if t := docxParagraphText(it); t != "" {
				lines = append(lines, t)
			}
		case *docx.Table:
			rows := docxTableRows(it)
			if len(rows) > 0 {
				tables = append(tables, document.Table{Rows: rows})
				lines = append(lines, gridText(rows))
			}
		}
	}

	out := &document.Document{Title: titleOf(filename)}
	if len(lines) > 0 {
		out.Pages = []document.Page{{Number: 1, Text: strings.Join(lines, "\n"), Tables: tables}}
	}
	return out, nil
}

func docxTableRows(t *docx.Table) [][]string {
	var rows [][]string
	for _, tr := range t.TableRows {
		var cells []string
		for _, tc := range tr.TableCells {
			var parts []string
			for _, para := range tc.Paragraphs {
				if s := docxParagraphText(para); s != "" {
					parts = append(parts, s)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
