// Package pdftest builds small single-page PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Run is a string drawn with its origin at (X, Y) in page space.
type Run struct {
	X, Y float64
	S    string
}

// Lines stacks one run per line starting at (x, y), moving down by leading.
func Lines(x, y, leading float64, lines ...string) []Run {
	runs := make([]Run, 0, len(lines))
	for i, l := range lines {
		runs = append(runs, Run{X: x, Y: y - float64(i)*leading, S: l})
	}
	return runs
}

// Build returns a one-page PDF that draws runs in 10pt Helvetica. Each run
// is placed with a relative Td move from the previous one, and Helvetica is
// referenced without a widths table, the way many generated reports do it.
func Build(runs ...Run) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F1 10 Tf\n")
	var x, y float64
	for _, r := range runs {
		fmt.Fprintf(&content, "%g %g Td\n(%s) Tj\n", r.X-x, r.Y-y, escape(r.S))
		x, y = r.X, r.Y
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
