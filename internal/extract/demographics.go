package extract

import (
	"math"
	"strings"

	"github.com/dgallion1/cdsgest/internal/record"
	"github.com/dgallion1/cdsgest/internal/rules"
)

func (b *builder) demographics(r *rules.Demographics) record.Demographics {
	var d record.Demographics
	d.Enrollment.Undergraduate = b.intField("demographics.enrollment.undergraduate", &r.Undergraduate)
	d.Enrollment.Graduate = b.intField("demographics.enrollment.graduate", &r.Graduate)

	race, resolved := b.src.race(&r.Race, d.Enrollment.Undergraduate)
	d.ByRace = race
	for _, cat := range record.RaceCategories {
		if !resolved[cat] {
			b.miss("demographics.byRace." + cat)
		}
	}

	pct, pctOK := b.resolve("demographics.outOfStatePercent", &r.OutOfStatePercent)
	res, ok := residency(d.Enrollment.Undergraduate, d.ByRace.International, pct, pctOK)
	if !ok {
		b.miss(
			"demographics.byResidency.inState",
			"demographics.byResidency.outOfState",
			"demographics.byResidency.international",
		)
	} else if !resolved["international"] {
		b.miss("demographics.byResidency.international")
	}
	d.ByResidency = res
	return d
}

// bounds locates a section within texts and returns the half-open index
// range of the lines strictly after the start line and before the end line.
// A section with no start markers spans the whole input.
func bounds(texts []string, sec *rules.Section) (lo, hi int, ok bool) {
	if len(sec.Start) == 0 && len(sec.StartAny) == 0 {
		return 0, len(texts), true
	}
	start := -1
	for i, t := range texts {
		if isSectionStart(t, sec) {
			start = i
			break
		}
	}
	if start < 0 {
		if sec.FallbackWhole {
			return 0, len(texts), true
		}
		return 0, 0, false
	}
	hi = len(texts)
	for j := start + 1; j < len(texts); j++ {
		if containsAny(texts[j], sec.End) {
			hi = j
			break
		}
	}
	return start + 1, hi, true
}

func isSectionStart(t string, sec *rules.Section) bool {
	for _, m := range sec.Start {
		if !strings.Contains(t, m) {
			return false
		}
	}
	if len(sec.StartAny) == 0 {
		return true
	}
	l := strings.ToLower(t)
	for _, m := range sec.StartAny {
		if strings.Contains(l, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func containsAny(t string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}

// race scans the bounded section. Each line is claimed by the first category
// keyword it contains; a category keeps its first surviving value.
func (s *Source) race(r *rules.RaceRule, undergraduate int) (record.ByRace, map[string]bool) {
	var out record.ByRace
	resolved := make(map[string]bool, len(record.RaceCategories))
	if len(r.Categories) == 0 {
		return out, resolved
	}

	texts := s.Lines
	var rows [][]string
	if r.Source == rules.SourceTable {
		texts = s.rowTexts()
		rows = s.Rows
	}
	lo, hi, ok := bounds(texts, &r.Section)
	if !ok {
		return out, resolved
	}

	shapeName := r.Number
	if shapeName == "" {
		shapeName = rules.ShapeGrouped
	}
	shape := rules.ShapeRegexp(shapeName)

	for i := lo; i < hi; i++ {
		l := strings.ToLower(texts[i])
		for _, cat := range r.Categories {
			if !strings.Contains(l, strings.ToLower(cat.Keyword)) {
				continue
			}
			if resolved[cat.Field] {
				break
			}
			var toks []string
			if rows != nil {
				toks = cellTokens(shape, rows[i])
			} else {
				toks = shape.FindAllString(texts[i], -1)
			}
			vals := survivors(shapeName, toks, r.Range)
			if r.MaxShare > 0 {
				vals = underShare(vals, float64(undergraduate)*r.MaxShare)
			}
			mode := rules.PickFirst
			if r.Pick == rules.PickMax {
				mode = rules.PickMax
			}
			if v, ok := pick(mode, vals); ok {
				*out.Field(cat.Field) = int(math.Round(v[0]))
				resolved[cat.Field] = true
			}
			break
		}
	}
	return out, resolved
}

func underShare(vals []float64, limit float64) []float64 {
	var out []float64
	for _, v := range vals {
		if v < limit {
			out = append(out, v)
		}
	}
	return out
}
