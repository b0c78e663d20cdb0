package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dgallion1/cdsgest/internal/record"
)

var summaryHeaders = []string{"Year", "Applied", "Admitted", "Enrolled", "Accept", "Yield", "SAT p50", "ACT p50", "Total COA", "Missing"}

// WriteSummary prints a years-by-figures table for one institution.
// Unresolved figures print as "-".
func WriteSummary(w io.Writer, rec *record.Institution) error {
	rows := [][]string{summaryHeaders}
	for _, label := range rec.YearLabels() {
		rows = append(rows, summaryRow(label, rec.Years[label]))
	}

	widths := make([]int, len(summaryHeaders))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", rec.Name, rec.Slug)
	for r, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == 0 {
				sb.WriteString(runewidth.FillRight(cell, widths[i]))
			} else {
				sb.WriteString(runewidth.FillLeft(cell, widths[i]))
			}
		}
		sb.WriteString("\n")
		if r == 0 {
			for i, wd := range widths {
				if i > 0 {
					sb.WriteString("  ")
				}
				sb.WriteString(strings.Repeat("-", wd))
			}
			sb.WriteString("\n")
		}
	}
	if len(rows) == 1 {
		sb.WriteString("(no years extracted)\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func summaryRow(label string, y record.Year) []string {
	var sat, act int
	if y.TestScores.SAT != nil {
		sat = y.TestScores.SAT.Composite.P50
	}
	if y.TestScores.ACT != nil {
		act = y.TestScores.ACT.Composite.P50
	}
	return []string{
		label,
		count(y.Admissions.Applied),
		count(y.Admissions.Admitted),
		count(y.Admissions.Enrolled),
		pct(y.Admissions.AcceptanceRate),
		pct(y.Admissions.Yield),
		count(sat),
		count(act),
		dollars(y.Costs.TotalCOA),
		strconv.Itoa(len(y.Missing)),
	}
}

func count(n int) string {
	if n == 0 {
		return "-"
	}
	return group(n)
}

func dollars(n int) string {
	if n == 0 {
		return "-"
	}
	return "$" + group(n)
}

func pct(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v*100, 'f', 2, 64) + "%"
}

// group formats n with comma thousands separators.
func group(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
