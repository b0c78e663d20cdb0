package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/cdsgest/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown renditions using goldmark. GFM pipe tables
// become grids; other blocks become text lines.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	var lines []string
	var tables []document.Table

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *east.Table:
			rows := markdownTableRows(node, src)
			if len(rows) > 0 {
				tables = append(tables, document.Table{Rows: rows})
				lines = append(lines, gridText(rows))
			}
		default:
			if t := extractText(n, src); t != "" {
				lines = append(lines, t)
			}
		}
	}

	doc := &document.Document{Title: titleOf(filename)}
	if len(lines) > 0 {
		doc.Pages = []document.Page{{Number: 1, Text: strings.Join(lines, "\n"), Tables: tables}}
	}
	return doc, nil
}

func markdownTableRows(table *east.Table, src []byte) [][]string {
	var rows [][]string
	for r := table.FirstChild(); r != nil; r = r.NextSibling() {
		switch r.(type) {
		case *east.TableHeader, *east.TableRow:
		default:
			continue
		}
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			if _, ok := c.(*east.TableCell); ok {
				cells = append(cells, strings.TrimSpace(inlineText(c, src)))
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

// extractText gets the text content of a goldmark block node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		if lines.Len() > 0 && n.FirstChild() == nil {
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if c.Type() == ast.TypeBlock {
			if s := extractText(c, src); s != "" {
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(s)
			}
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
