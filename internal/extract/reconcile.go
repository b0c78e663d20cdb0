package extract

import "github.com/dgallion1/cdsgest/internal/rules"

// count resolves an admissions count by walking the rule's text routes in
// precedence order. When the rule prefers larger table values, the table
// route is held back and wins only if it resolves something strictly larger.
func (s *Source) count(rule *rules.CountRule) (Candidate, bool) {
	var text Resolved[Candidate]
	for _, route := range rule.Routes() {
		if route == rules.RouteTable && rule.PreferLargerTable {
			continue
		}
		if c, ok := s.route(rule, route); ok {
			text.Set(c)
			break
		}
	}
	if !rule.PreferLargerTable {
		return text.Get()
	}

	table, ok := s.route(rule, rules.RouteTable)
	if !ok {
		return text.Get()
	}
	if cur, has := text.Get(); has && table.Sum() <= cur.Sum() {
		return cur, true
	}
	return table, true
}

func (s *Source) route(rule *rules.CountRule, route string) (Candidate, bool) {
	var c Candidate
	var ok bool
	switch route {
	case rules.RouteTotal:
		c, ok = s.firstMatch(rule.Total, rule.Range)
	case rules.RouteSplit:
		c, ok = s.split(&rule.Split)
	case rules.RouteTable:
		c, ok = s.firstMatch(rule.Table, rule.Range)
	}
	if ok {
		c.Source = route
	}
	return c, ok
}

// split sums two sub-populations, either from a single pair hit or from
// independent first and second lookups that must both resolve.
func (s *Source) split(sp *rules.SplitRule) (Candidate, bool) {
	if sp.Empty() {
		return Candidate{}, false
	}
	if c, ok := s.firstMatch(sp.Pair, sp.Range); ok {
		return c, true
	}
	a, okA := s.firstMatch(sp.First, sp.Range)
	b, okB := s.firstMatch(sp.Second, sp.Range)
	if !okA || !okB {
		return Candidate{}, false
	}
	return Candidate{Values: []float64{a.Value(), b.Value()}}, true
}
