package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_TablesAndText(t *testing.T) {
	input := `<html><head><title>CDS</title><style>td{}</style></head><body>
<h2>C1 First-time, first-year admission</h2>
<p>Report applicants as of the fall term.</p>
<table>
  <thead><tr><th>Item</th><th>Men</th><th>Women</th></tr></thead>
  <tbody>
    <tr><td>Total first-time, first-year students who applied in Fall 2023</td><td>33,674.0</td><td>34,172.0</td></tr>
  </tbody>
</table>
<script>var x = 1;</script>
</body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "cds.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := doc.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][2] != "34,172.0" {
		t.Errorf("expected cell %q, got %q", "34,172.0", rows[1][2])
	}
	text := doc.Text()
	if !strings.HasPrefix(text, "C1 First-time, first-year admission\nReport applicants") {
		t.Errorf("unexpected text start: %q", text)
	}
	if strings.Contains(text, "var x") {
		t.Error("script content leaked into text")
	}
}

func TestHTMLParser_NestedTableRowsNotDuplicated(t *testing.T) {
	input := `<table><tr><td>outer</td><td><table><tr><td>inner</td></tr></table></td></tr></table>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "n.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := doc.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 outer row, got %d: %q", len(rows), rows)
	}
}
