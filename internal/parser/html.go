package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/cdsgest/internal/document"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML renditions of a report. Each <table> becomes a
// grid; block elements outside tables become text lines.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	var tables []document.Table

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "table":
				rows := tableRows(n)
				if len(rows) > 0 {
					tables = append(tables, document.Table{Rows: rows})
					if t := gridText(rows); t != "" {
						lines = append(lines, t)
					}
				}
				return
			case "p", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "caption", "dt", "dd":
				if t := textContent(n); t != "" {
					lines = append(lines, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	doc := &document.Document{Title: titleOf(filename)}
	if len(lines) > 0 || len(tables) > 0 {
		doc.Pages = []document.Page{{Number: 1, Text: strings.Join(lines, "\n"), Tables: tables}}
	}
	return doc, nil
}

// tableRows collects <tr> rows of a table, skipping rows of nested tables.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "table":
				continue
			case "tr":
				var cells []string
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type == html.ElementNode && (td.Data == "td" || td.Data == "th") {
						cells = append(cells, textContent(td))
					}
				}
				if len(cells) > 0 {
					rows = append(rows, cells)
				}
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
