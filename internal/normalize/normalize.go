// Package normalize repairs layout artifacts in extracted report text so that
// numeric tokens are contiguous before pattern matching.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceBeforeComma = regexp.MustCompile(`(\d)\s+,`)

	// A 1-2 digit token split from a comma-grouped remainder. The leading
	// boundary is checked by hand because RE2 has no lookbehind.
	splitLeading = regexp.MustCompile(`(\d+) (\d,\d{3})`)
	leadingInt   = regexp.MustCompile(`\d+`)
	decimalRe    = regexp.MustCompile(`\d+(?:\.\d+)?`)

	dashes = strings.NewReplacer("–", "-", "—", "-", "−", "-")
)

// Text folds compatibility characters and rejoins numbers broken by stray
// whitespace: "35 ,672" becomes "35,672" and "7 1,164" becomes "71,164".
// A leading token of three or more digits is left alone so "Fall 2023 33,674"
// keeps the year separate.
func Text(s string) string {
	s = norm.NFKC.String(s)
	s = dashes.Replace(s)
	s = spaceBeforeComma.ReplaceAllString(s, "$1,")
	return mergeSplitLeading(s)
}

func mergeSplitLeading(s string) string {
	locs := splitLeading.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		headStart, headEnd := loc[2], loc[3]
		if headEnd-headStart > 2 {
			continue
		}
		// "2,400.0 2,700" must not become "2,400.02,700"
		if headStart > 0 && (isDigit(s[headStart-1]) || s[headStart-1] == '.' || s[headStart-1] == ',') {
			continue
		}
		sb.WriteString(s[last:headEnd])
		// drop the single space between head and tail
		last = headEnd + 1
	}
	sb.WriteString(s[last:])
	return sb.String()
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Number parses a numeric token such as "71,164", "33,674.0", "$66,014.00"
// or "35 ,672". It reports false when the token carries no digits.
func Number(tok string) (int, bool) {
	s := strings.NewReplacer(",", "", " ", "", "\t", "").Replace(tok)
	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}
	m := leadingInt.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Percent parses a percentage token. Values above 1 are taken as whole
// percentages and scaled to a fraction.
func Percent(tok string) (float64, bool) {
	m := decimalRe.FindString(strings.ReplaceAll(tok, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if v > 1 {
		v /= 100
	}
	return v, true
}

// Lines splits text into trimmed, non-empty lines.
func Lines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Joined collapses newlines so patterns can span wrapped lines.
func Joined(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
