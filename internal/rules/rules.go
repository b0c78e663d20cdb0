// Package rules holds the declarative per-institution rule tables that drive
// field extraction: trigger phrases, numeric token shapes, plausibility
// ranges and fallback order.
package rules

import "regexp"

// Matcher kinds.
const (
	KindLine    = "line"
	KindPattern = "pattern"
	KindTable   = "table"
)

// Picks choose among the tokens that survive the range filter.
const (
	PickFirst = "first"
	PickLast  = "last"
	PickMax   = "max"
	PickPair  = "pair"
	PickSpan  = "span"
)

// Count routes.
const (
	RouteTotal = "total"
	RouteSplit = "split"
	RouteTable = "table"
)

// Demographic section sources.
const (
	SourceLines = "lines"
	SourceTable = "table"
)

// Institution is the complete rule table for one school.
type Institution struct {
	Name         string       `yaml:"name"`
	Slug         string       `yaml:"slug"`
	Dir          string       `yaml:"dir"`
	Years        YearRules    `yaml:"years"`
	Admissions   Admissions   `yaml:"admissions"`
	TestScores   TestScores   `yaml:"test_scores"`
	Demographics Demographics `yaml:"demographics"`
	Costs        Costs        `yaml:"costs"`
	FinancialAid FinancialAid `yaml:"financial_aid"`
}

// InputDir returns the directory name holding this school's reports,
// relative to the input root.
func (in *Institution) InputDir() string {
	if in.Dir != "" {
		return in.Dir
	}
	return in.Slug
}

type Admissions struct {
	Applied       CountRule     `yaml:"applied"`
	Admitted      CountRule     `yaml:"admitted"`
	Enrolled      CountRule     `yaml:"enrolled"`
	EarlyDecision EarlyDecision `yaml:"early_decision"`
}

type EarlyDecision struct {
	Applied  Field `yaml:"applied"`
	Admitted Field `yaml:"admitted"`
}

// CountRule resolves an admissions count that a report may state as one
// total, as two sub-population figures, or inside a table grid.
type CountRule struct {
	Range             *Range    `yaml:"range"`
	Total             []Matcher `yaml:"total"`
	Split             SplitRule `yaml:"split"`
	Table             []Matcher `yaml:"table"`
	Precedence        []string  `yaml:"precedence"`
	PreferLargerTable bool      `yaml:"prefer_larger_table"`
}

// Routes returns the precedence order, defaulting to total, split, table.
func (c *CountRule) Routes() []string {
	if len(c.Precedence) > 0 {
		return c.Precedence
	}
	return []string{RouteTotal, RouteSplit, RouteTable}
}

// SplitRule sums two sub-populations. Pair matchers yield both figures from
// one hit; First and Second resolve them independently.
type SplitRule struct {
	Range  *Range    `yaml:"range"`
	Pair   []Matcher `yaml:"pair"`
	First  []Matcher `yaml:"first"`
	Second []Matcher `yaml:"second"`
}

// Empty reports whether no split matchers are configured.
func (s *SplitRule) Empty() bool {
	return len(s.Pair) == 0 && len(s.First) == 0 && len(s.Second) == 0
}

type TestScores struct {
	SATComposite      Field `yaml:"sat_composite"`
	SATReadingWriting Field `yaml:"sat_reading_writing"`
	SATMath           Field `yaml:"sat_math"`
	SATSubmissionRate Field `yaml:"sat_submission_rate"`
	ACTComposite      Field `yaml:"act_composite"`
	ACTSubmissionRate Field `yaml:"act_submission_rate"`
}

type Demographics struct {
	Undergraduate     Field    `yaml:"undergraduate"`
	Graduate          Field    `yaml:"graduate"`
	Race              RaceRule `yaml:"race"`
	OutOfStatePercent Field    `yaml:"out_of_state_percent"`
}

// RaceRule scans a bounded section for per-category counts.
type RaceRule struct {
	Section    Section    `yaml:"section"`
	Source     string     `yaml:"source"`
	Number     string     `yaml:"number"`
	Range      *Range     `yaml:"range"`
	Pick       string     `yaml:"pick"`
	MaxShare   float64    `yaml:"max_share"`
	Categories []Category `yaml:"categories"`
}

// Section bounds a region of lines. The start line must contain every Start
// marker (case-sensitive) and one StartAny marker (case-insensitive); the
// region ends before the first later line containing any End marker.
type Section struct {
	Start         []string `yaml:"start"`
	StartAny      []string `yaml:"start_any"`
	End           []string `yaml:"end"`
	FallbackWhole bool     `yaml:"fallback_whole"`
}

// Category maps a trigger keyword to a byRace output key.
type Category struct {
	Keyword string `yaml:"keyword"`
	Field   string `yaml:"field"`
}

type Costs struct {
	Tuition      Field `yaml:"tuition"`
	Fees         Field `yaml:"fees"`
	RoomAndBoard Field `yaml:"room_and_board"`
}

type FinancialAid struct {
	PercentReceivingAid   Field `yaml:"percent_receiving_aid"`
	AverageAidPackage     Field `yaml:"average_aid_package"`
	AverageNeedBasedGrant Field `yaml:"average_need_based_grant"`
	PercentNeedFullyMet   Field `yaml:"percent_need_fully_met"`
}

// Field is an ordered list of matchers with a shared range and an optional
// default applied when nothing resolves.
type Field struct {
	Range    *Range    `yaml:"range"`
	Matchers []Matcher `yaml:"matchers"`
	Default  *float64  `yaml:"default"`
}

// Configured reports whether the field has anything to resolve from.
func (f *Field) Configured() bool {
	return len(f.Matchers) > 0 || f.Default != nil
}

// Matcher finds candidate numbers for a field.
type Matcher struct {
	Kind       string   `yaml:"kind"`
	All        []string `yaml:"all"`
	Any        []string `yaml:"any"`
	None       []string `yaml:"none"`
	StartsWith string   `yaml:"starts_with"`
	Regex      string   `yaml:"regex"`
	Number     string   `yaml:"number"`
	Window     int      `yaml:"window"`
	Range      *Range   `yaml:"range"`
	Pick       string   `yaml:"pick"`

	re *regexp.Regexp
}

// Regexp returns the compiled, case-insensitive pattern, or nil when the
// matcher has none or it does not compile.
func (m *Matcher) Regexp() *regexp.Regexp {
	if m.re == nil && m.Regex != "" {
		m.re, _ = regexp.Compile("(?i)" + m.Regex)
	}
	return m.re
}

// Shape returns the token shape name, defaulting to grouped.
func (m *Matcher) Shape() string {
	if m.Number == "" {
		return ShapeGrouped
	}
	return m.Number
}

// Picker returns the pick mode, defaulting to first.
func (m *Matcher) Picker() string {
	if m.Pick == "" {
		return PickFirst
	}
	return m.Pick
}

// Range is a plausibility window. Bounds are exclusive unless Inclusive is
// set; a zero Max leaves the upper end open.
type Range struct {
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Inclusive bool    `yaml:"inclusive"`
}

// Contains reports whether v lies in the range. A nil range admits every
// value.
func (r *Range) Contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Inclusive {
		return v >= r.Min && (r.Max == 0 || v <= r.Max)
	}
	return v > r.Min && (r.Max == 0 || v < r.Max)
}

// Or returns r, or fallback when r is nil.
func (r *Range) Or(fallback *Range) *Range {
	if r != nil {
		return r
	}
	return fallback
}
