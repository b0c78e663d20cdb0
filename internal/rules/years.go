package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// Year label styles.
const (
	YearSpan      = "span"
	YearShortSpan = "short_span"
	YearSingle    = "single"
)

// UnknownYear labels files whose name carries no year.
const UnknownYear = "unknown"

var yearStyles = map[string]*regexp.Regexp{
	YearSpan:      regexp.MustCompile(`(\d{4})[-_](\d{4})`),
	YearShortSpan: regexp.MustCompile(`(\d{4})[-_](\d{2})\b`),
	YearSingle:    regexp.MustCompile(`(\d{4})`),
}

// YearRules maps report files to academic-year labels.
type YearRules struct {
	Files    map[string]string `yaml:"files"`
	Patterns []string          `yaml:"patterns"`
	Skip     []string          `yaml:"skip"`
}

// Explicit reports whether files are listed by name rather than discovered.
func (y *YearRules) Explicit() bool {
	return len(y.Files) > 0
}

// Skipped reports whether a file is excluded from extraction.
func (y *YearRules) Skipped(filename string) bool {
	base := filepath.Base(filename)
	for _, s := range y.Skip {
		if s == base {
			return true
		}
	}
	return false
}

// Label returns the academic-year label for a report file.
func (y *YearRules) Label(filename string) string {
	base := filepath.Base(filename)
	if label, ok := y.Files[base]; ok {
		return label
	}
	styles := y.Patterns
	if len(styles) == 0 {
		styles = []string{YearSpan, YearSingle}
	}
	for _, style := range styles {
		re := yearStyles[style]
		if re == nil {
			continue
		}
		m := re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		switch style {
		case YearSpan:
			return m[1] + "-" + m[2]
		case YearShortSpan:
			return m[1] + "-" + m[1][:2] + m[2]
		case YearSingle:
			n, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%d-%d", n, n+1)
		}
	}
	return UnknownYear
}
