package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/cdsgest/internal/document"
)

// TextParser handles plain text exports. Form feeds separate pages.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pages []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		for {
			idx := strings.IndexByte(line, '\f')
			if idx < 0 {
				break
			}
			current.WriteString(line[:idx])
			pages = append(pages, current.String())
			current.Reset()
			line = line[idx+1:]
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current.Len() > 0 {
		pages = append(pages, current.String())
	}

	doc := &document.Document{Title: titleOf(filename)}
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		doc.Pages = append(doc.Pages, layoutPage(i+1, text))
	}
	return doc, nil
}
