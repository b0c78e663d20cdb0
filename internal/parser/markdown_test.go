package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_PipeTableBecomesGrid(t *testing.T) {
	input := `# B2 Enrollment by Racial/Ethnic Category

| Category | Degree-seeking | Total |
|---|---|---|
| Nonresident aliens | 1,120 | 1,300 |
| Hispanic/Latino | 2,010 | 2,200 |

B3 Degrees conferred
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "cds.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "cds" {
		t.Errorf("expected title %q, got %q", "cds", doc.Title)
	}
	rows := doc.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (header + 2), got %d: %q", len(rows), rows)
	}
	if rows[1][0] != "Nonresident aliens" || rows[1][1] != "1,120" {
		t.Errorf("unexpected row: %q", rows[1])
	}

	lines := strings.Split(doc.Text(), "\n")
	if lines[0] != "B2 Enrollment by Racial/Ethnic Category" {
		t.Errorf("expected heading line first, got %q", lines[0])
	}
	if lines[len(lines)-1] != "B3 Degrees conferred" {
		t.Errorf("expected trailing paragraph last, got %q", lines[len(lines)-1])
	}
	if !strings.Contains(doc.Text(), "Hispanic/Latino 2,010 2,200") {
		t.Errorf("expected table row rendered into text, got %q", doc.Text())
	}
}

func TestMarkdownParser_ParagraphsOnly(t *testing.T) {
	input := "Tuition: $66,014\n\nRequired Fees: $1,032\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "g1.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Text(); got != "Tuition: $66,014\nRequired Fees: $1,032" {
		t.Errorf("unexpected text %q", got)
	}
	if len(doc.Rows()) != 0 {
		t.Errorf("expected no table rows, got %d", len(doc.Rows()))
	}
}

func TestMarkdownParser_Empty(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 0 {
		t.Errorf("expected no pages, got %d", len(doc.Pages))
	}
}
