package extract

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/cdsgest/internal/normalize"
	"github.com/dgallion1/cdsgest/internal/rules"
)

// Candidate is a plausible value produced by one matcher. Pair and span
// picks carry two values; the others carry one.
type Candidate struct {
	Values  []float64
	Source  string // matcher kind, or a count route
	Matcher int    // index within its matcher list
}

// Value returns the first value.
func (c Candidate) Value() float64 {
	if len(c.Values) == 0 {
		return 0
	}
	return c.Values[0]
}

// Sum adds all values; split and pair candidates are summed sub-populations.
func (c Candidate) Sum() float64 {
	var s float64
	for _, v := range c.Values {
		s += v
	}
	return s
}

// firstMatch tries matchers in order and returns the first candidate.
func (s *Source) firstMatch(ms []rules.Matcher, fallback *rules.Range) (Candidate, bool) {
	for i := range ms {
		if c, ok := s.match(&ms[i], fallback); ok {
			c.Matcher = i
			return c, true
		}
	}
	return Candidate{}, false
}

// match runs one matcher. Lines and rows are scanned top to bottom and the
// first hit with surviving tokens wins.
func (s *Source) match(m *rules.Matcher, fallback *rules.Range) (Candidate, bool) {
	rng := m.Range.Or(fallback)
	var vals []float64
	var ok bool
	switch m.Kind {
	case rules.KindLine:
		vals, ok = s.matchLines(m, rng)
	case rules.KindPattern:
		vals, ok = s.matchPattern(m, rng)
	case rules.KindTable:
		vals, ok = s.matchRows(m, rng)
	}
	if !ok {
		return Candidate{}, false
	}
	return Candidate{Values: vals, Source: m.Kind}, true
}

func (s *Source) matchLines(m *rules.Matcher, rng *rules.Range) ([]float64, bool) {
	for i, line := range s.Lines {
		if !triggered(m, line) {
			continue
		}
		region := line
		if m.Window > 0 {
			end := min(i+1+m.Window, len(s.Lines))
			region = strings.Join(s.Lines[i:end], " ")
		}
		toks := rules.ShapeRegexp(m.Shape()).FindAllString(region, -1)
		if vals, ok := pick(m.Picker(), survivors(m.Shape(), toks, rng)); ok {
			return vals, true
		}
	}
	return nil, false
}

// matchPattern searches the joined text once. Capture groups become tokens;
// without groups the whole match is tokenized by shape.
func (s *Source) matchPattern(m *rules.Matcher, rng *rules.Range) ([]float64, bool) {
	re := m.Regexp()
	if re == nil {
		return nil, false
	}
	sm := re.FindStringSubmatch(s.Joined)
	if sm == nil {
		return nil, false
	}
	var toks []string
	if len(sm) > 1 {
		for _, g := range sm[1:] {
			if g != "" {
				toks = append(toks, g)
			}
		}
	} else {
		toks = rules.ShapeRegexp(m.Shape()).FindAllString(sm[0], -1)
	}
	return pick(m.Picker(), survivors(m.Shape(), toks, rng))
}

// matchRows scans table rows; triggers see the whole row, tokens come from
// value cells only.
func (s *Source) matchRows(m *rules.Matcher, rng *rules.Range) ([]float64, bool) {
	shape := rules.ShapeRegexp(m.Shape())
	for _, row := range s.Rows {
		if !triggered(m, strings.Join(row, " ")) {
			continue
		}
		toks := cellTokens(shape, row)
		if vals, ok := pick(m.Picker(), survivors(m.Shape(), toks, rng)); ok {
			return vals, true
		}
	}
	return nil, false
}

// cellTokens returns the first token of each value cell. Cells containing
// letters are labels such as "admitted in Fall 2023" and contribute nothing.
func cellTokens(shape *regexp.Regexp, row []string) []string {
	var toks []string
	for _, cell := range row {
		if strings.IndexFunc(cell, unicode.IsLetter) >= 0 {
			continue
		}
		if t := shape.FindString(cell); t != "" {
			toks = append(toks, t)
		}
	}
	return toks
}

// triggered applies the case-insensitive trigger sets to one line.
func triggered(m *rules.Matcher, text string) bool {
	l := strings.ToLower(strings.TrimSpace(text))
	if m.StartsWith != "" && !strings.HasPrefix(l, strings.ToLower(m.StartsWith)) {
		return false
	}
	for _, a := range m.All {
		if !strings.Contains(l, strings.ToLower(a)) {
			return false
		}
	}
	if len(m.Any) > 0 {
		hit := false
		for _, a := range m.Any {
			if strings.Contains(l, strings.ToLower(a)) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, n := range m.None {
		if strings.Contains(l, strings.ToLower(n)) {
			return false
		}
	}
	return true
}

// survivors parses tokens and keeps those inside the range, in order.
func survivors(shape string, toks []string, rng *rules.Range) []float64 {
	var out []float64
	for _, t := range toks {
		v, ok := parseToken(shape, t)
		if ok && rng.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

func parseToken(shape, tok string) (float64, bool) {
	if rules.IsPercentShape(shape) {
		p, ok := normalize.Percent(tok)
		return round4(p), ok
	}
	n, ok := normalize.Number(tok)
	return float64(n), ok
}

func pick(mode string, vals []float64) ([]float64, bool) {
	if len(vals) == 0 {
		return nil, false
	}
	switch mode {
	case rules.PickLast:
		return vals[len(vals)-1:], true
	case rules.PickMax:
		m := vals[0]
		for _, v := range vals[1:] {
			m = math.Max(m, v)
		}
		return []float64{m}, true
	case rules.PickPair:
		if len(vals) < 2 {
			return nil, false
		}
		return vals[:2], true
	case rules.PickSpan:
		if len(vals) < 2 {
			return nil, false
		}
		lo, hi := vals[0], vals[0]
		for _, v := range vals[1:] {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		return []float64{lo, hi}, true
	default:
		return vals[:1], true
	}
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
