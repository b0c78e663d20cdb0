package rules

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/dgallion1/cdsgest/internal/record"
)

// Rule validation errors.
var (
	ErrNoSlug          = errors.New("slug is required")
	ErrNoName          = errors.New("name is required")
	ErrBadSlug         = errors.New("slug must be lowercase letters, digits or hyphens")
	ErrUnknownKind     = errors.New("unknown matcher kind")
	ErrUnknownPick     = errors.New("unknown pick")
	ErrUnknownShape    = errors.New("unknown number shape")
	ErrUnknownRoute    = errors.New("unknown precedence route")
	ErrUnknownSource   = errors.New("unknown section source")
	ErrUnknownCategory = errors.New("unknown race category")
	ErrUnknownYearRule = errors.New("unknown year pattern style")
	ErrMissingRegex    = errors.New("pattern matcher requires regex")
	ErrBadRegex        = errors.New("invalid regex")
	ErrInvertedRange   = errors.New("range min exceeds max")
	ErrNegativeWindow  = errors.New("window must be non-negative")
	ErrNoTrigger       = errors.New("matcher requires a trigger")
	ErrPickNeedsPair   = errors.New("pick must be pair")
	ErrOrphanRange     = errors.New("range set on a field with no matchers or default")
)

var slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Validate checks the rule table and compiles every matcher regex.
func (in *Institution) Validate() error {
	if in.Slug == "" {
		return ErrNoSlug
	}
	if !slugRe.MatchString(in.Slug) {
		return fmt.Errorf("%w: %q", ErrBadSlug, in.Slug)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: %s", ErrNoName, in.Slug)
	}
	for _, style := range in.Years.Patterns {
		if _, ok := yearStyles[style]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownYearRule, style)
		}
	}

	if err := in.Admissions.Applied.validate("admissions.applied"); err != nil {
		return err
	}
	if err := in.Admissions.Admitted.validate("admissions.admitted"); err != nil {
		return err
	}
	if err := in.Admissions.Enrolled.validate("admissions.enrolled"); err != nil {
		return err
	}

	fields := in.fields()
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := fields[p].validate(p); err != nil {
			return err
		}
	}
	return in.Demographics.Race.validate("demographics.race")
}

// fields returns every single-value field keyed by its rule path.
func (in *Institution) fields() map[string]*Field {
	return map[string]*Field{
		"admissions.early_decision.applied":      &in.Admissions.EarlyDecision.Applied,
		"admissions.early_decision.admitted":     &in.Admissions.EarlyDecision.Admitted,
		"test_scores.sat_composite":              &in.TestScores.SATComposite,
		"test_scores.sat_reading_writing":        &in.TestScores.SATReadingWriting,
		"test_scores.sat_math":                   &in.TestScores.SATMath,
		"test_scores.sat_submission_rate":        &in.TestScores.SATSubmissionRate,
		"test_scores.act_composite":              &in.TestScores.ACTComposite,
		"test_scores.act_submission_rate":        &in.TestScores.ACTSubmissionRate,
		"demographics.undergraduate":             &in.Demographics.Undergraduate,
		"demographics.graduate":                  &in.Demographics.Graduate,
		"demographics.out_of_state_percent":      &in.Demographics.OutOfStatePercent,
		"costs.tuition":                          &in.Costs.Tuition,
		"costs.fees":                             &in.Costs.Fees,
		"costs.room_and_board":                   &in.Costs.RoomAndBoard,
		"financial_aid.percent_receiving_aid":    &in.FinancialAid.PercentReceivingAid,
		"financial_aid.average_aid_package":      &in.FinancialAid.AverageAidPackage,
		"financial_aid.average_need_based_grant": &in.FinancialAid.AverageNeedBasedGrant,
		"financial_aid.percent_need_fully_met":   &in.FinancialAid.PercentNeedFullyMet,
	}
}

func (c *CountRule) validate(path string) error {
	if err := c.Range.validate(path); err != nil {
		return err
	}
	for _, r := range c.Precedence {
		if r != RouteTotal && r != RouteSplit && r != RouteTable {
			return fmt.Errorf("%w: %s: %q", ErrUnknownRoute, path, r)
		}
	}
	if err := validateMatchers(path+".total", c.Total); err != nil {
		return err
	}
	if err := validateMatchers(path+".table", c.Table); err != nil {
		return err
	}
	if err := c.Split.Range.validate(path + ".split"); err != nil {
		return err
	}
	for i := range c.Split.Pair {
		if c.Split.Pair[i].Picker() != PickPair {
			return fmt.Errorf("%w: %s.split.pair[%d]", ErrPickNeedsPair, path, i)
		}
	}
	if err := validateMatchers(path+".split.pair", c.Split.Pair); err != nil {
		return err
	}
	if err := validateMatchers(path+".split.first", c.Split.First); err != nil {
		return err
	}
	return validateMatchers(path+".split.second", c.Split.Second)
}

func (f *Field) validate(path string) error {
	if f.Range != nil && !f.Configured() {
		return fmt.Errorf("%w: %s", ErrOrphanRange, path)
	}
	if err := f.Range.validate(path); err != nil {
		return err
	}
	return validateMatchers(path, f.Matchers)
}

func (r *RaceRule) validate(path string) error {
	switch r.Source {
	case "", SourceLines, SourceTable:
	default:
		return fmt.Errorf("%w: %s: %q", ErrUnknownSource, path, r.Source)
	}
	switch r.Pick {
	case "", PickFirst, PickMax:
	default:
		return fmt.Errorf("%w: %s: %q", ErrUnknownPick, path, r.Pick)
	}
	if r.Number != "" && ShapeRegexp(r.Number) == nil {
		return fmt.Errorf("%w: %s: %q", ErrUnknownShape, path, r.Number)
	}
	if err := r.Range.validate(path); err != nil {
		return err
	}
	var byRace record.ByRace
	for i, c := range r.Categories {
		if byRace.Field(c.Field) == nil {
			return fmt.Errorf("%w: %s.categories[%d]: %q", ErrUnknownCategory, path, i, c.Field)
		}
		if c.Keyword == "" {
			return fmt.Errorf("%w: %s.categories[%d]", ErrNoTrigger, path, i)
		}
	}
	return nil
}

func (r *Range) validate(path string) error {
	if r != nil && r.Max != 0 && r.Min > r.Max {
		return fmt.Errorf("%w: %s (%v > %v)", ErrInvertedRange, path, r.Min, r.Max)
	}
	return nil
}

func validateMatchers(path string, ms []Matcher) error {
	for i := range ms {
		m := &ms[i]
		where := fmt.Sprintf("%s[%d]", path, i)
		switch m.Kind {
		case KindLine, KindTable:
			if len(m.All) == 0 && len(m.Any) == 0 && m.StartsWith == "" {
				return fmt.Errorf("%w: %s", ErrNoTrigger, where)
			}
		case KindPattern:
			if m.Regex == "" {
				return fmt.Errorf("%w: %s", ErrMissingRegex, where)
			}
		default:
			return fmt.Errorf("%w: %s: %q", ErrUnknownKind, where, m.Kind)
		}
		if m.Regex != "" {
			re, err := regexp.Compile("(?i)" + m.Regex)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrBadRegex, where, err)
			}
			m.re = re
		}
		switch m.Picker() {
		case PickFirst, PickLast, PickMax, PickPair, PickSpan:
		default:
			return fmt.Errorf("%w: %s: %q", ErrUnknownPick, where, m.Pick)
		}
		if ShapeRegexp(m.Shape()) == nil {
			return fmt.Errorf("%w: %s: %q", ErrUnknownShape, where, m.Number)
		}
		if m.Window < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeWindow, where)
		}
		if err := m.Range.validate(where); err != nil {
			return err
		}
	}
	return nil
}
