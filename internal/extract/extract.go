// Package extract resolves CDS fields from a normalized report using an
// institution's rule table.
package extract

import (
	"log/slog"
	"math"
	"sort"

	"github.com/dgallion1/cdsgest/internal/document"
	"github.com/dgallion1/cdsgest/internal/record"
	"github.com/dgallion1/cdsgest/internal/rules"
)

// Extractor turns parsed reports into year records for one institution.
type Extractor struct {
	rules  *rules.Institution
	logger *slog.Logger
}

func New(in *rules.Institution, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{rules: in, logger: logger}
}

// Extract populates a year record in a fixed order: admissions, test scores,
// demographics, costs, financial aid, then derived values.
func (e *Extractor) Extract(doc *document.Document) record.Year {
	b := &builder{src: NewSource(doc), logger: e.logger}

	var y record.Year
	y.Admissions = b.admissions(&e.rules.Admissions)
	y.TestScores = b.testScores(&e.rules.TestScores)
	y.Demographics = b.demographics(&e.rules.Demographics)
	y.Costs = b.costs(&e.rules.Costs)
	y.FinancialAid = b.financialAid(&e.rules.FinancialAid)
	Derive(&y)

	sort.Strings(b.missing)
	y.Missing = b.missing
	if y.Missing == nil {
		y.Missing = []string{}
	}

	for _, w := range Inconsistencies(y) {
		e.logger.Warn("inconsistent figures", "check", w)
	}
	return y
}

// builder accumulates the unresolved paths of one year.
type builder struct {
	src     *Source
	logger  *slog.Logger
	missing []string
}

func (b *builder) miss(paths ...string) {
	b.missing = append(b.missing, paths...)
}

// resolve tries a field's matchers and falls back to its default. It does
// not record misses.
func (b *builder) resolve(path string, f *rules.Field) (float64, bool) {
	var r Resolved[float64]
	if c, ok := b.src.firstMatch(f.Matchers, f.Range); ok {
		r.Set(c.Value())
		b.logger.Debug("field resolved", "field", path, "source", c.Source, "matcher", c.Matcher, "value", c.Value())
	} else if f.Default != nil {
		r.Set(*f.Default)
		b.logger.Debug("field defaulted", "field", path, "value", *f.Default)
	}
	return r.Get()
}

func (b *builder) intField(path string, f *rules.Field) int {
	v, ok := b.resolve(path, f)
	if !ok {
		b.miss(path)
		return 0
	}
	return int(math.Round(v))
}

func (b *builder) floatField(path string, f *rules.Field) float64 {
	v, ok := b.resolve(path, f)
	if !ok {
		b.miss(path)
		return 0
	}
	return v
}

// span resolves a p25/p75 band. The median is filled in by Derive.
func (b *builder) span(path string, f *rules.Field) (record.Percentiles, bool) {
	c, ok := b.src.firstMatch(f.Matchers, f.Range)
	if !ok || len(c.Values) < 2 {
		return record.Percentiles{}, false
	}
	b.logger.Debug("band resolved", "field", path, "source", c.Source, "matcher", c.Matcher, "p25", c.Values[0], "p75", c.Values[1])
	return record.Percentiles{P25: int(c.Values[0]), P75: int(c.Values[1])}, true
}

func (b *builder) countField(path string, rule *rules.CountRule) int {
	c, ok := b.src.count(rule)
	if !ok {
		b.miss(path)
		return 0
	}
	b.logger.Debug("count resolved", "field", path, "route", c.Source, "matcher", c.Matcher, "value", c.Sum())
	return int(math.Round(c.Sum()))
}
