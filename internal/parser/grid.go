package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/cdsgest/internal/document"
)

var (
	cellSplitRe = regexp.MustCompile(`\s{2,}|\t`)
	spaceRunRe  = regexp.MustCompile(`[ \t]+`)
)

// layoutPage turns column-aligned plain text into a page whose text has
// single-spaced lines and whose table has one row per non-blank line.
func layoutPage(num int, text string) document.Page {
	var lines []string
	var grid [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " ")))
		grid = append(grid, layoutCells(line))
	}
	pg := document.Page{Number: num, Text: strings.Join(lines, "\n")}
	if len(grid) > 0 {
		pg.Tables = []document.Table{{Rows: grid}}
	}
	return pg
}

// layoutCells splits a line on runs of two or more spaces or on tabs.
func layoutCells(line string) []string {
	var cells []string
	for _, c := range cellSplitRe.Split(line, -1) {
		cells = appendCell(cells, c)
	}
	return cells
}

// gridText renders a table as single-spaced lines, one per row.
func gridText(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if t := document.RowText(r); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
