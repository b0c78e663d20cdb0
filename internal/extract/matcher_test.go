package extract

import (
	"testing"

	"github.com/dgallion1/cdsgest/internal/rules"
)

func srcOf(lines ...string) *Source {
	return NewSource(docOf(lines...))
}

func TestResolved_SetOnce(t *testing.T) {
	var r Resolved[int]
	if r.OK() {
		t.Fatal("zero value should be unresolved")
	}
	if got := r.Or(7); got != 7 {
		t.Errorf("Or() = %d, want 7", got)
	}
	if !r.Set(1) {
		t.Fatal("first Set should succeed")
	}
	if r.Set(2) {
		t.Error("second Set should be ignored")
	}
	if v, ok := r.Get(); !ok || v != 1 {
		t.Errorf("Get() = %d,%v, want 1,true", v, ok)
	}
}

func TestMatch_LineTriggers(t *testing.T) {
	src := srcOf(
		"Total part-time students who enrolled 400",
		"Total first-time students who enrolled 3,344",
	)
	tests := []struct {
		name   string
		m      rules.Matcher
		want   float64
		wantOK bool
	}{
		{"all", rules.Matcher{Kind: rules.KindLine, All: []string{"who enrolled"}}, 400, true},
		{"none skips line", rules.Matcher{Kind: rules.KindLine, All: []string{"who enrolled"}, None: []string{"part-time"}}, 3344, true},
		{"any", rules.Matcher{Kind: rules.KindLine, Any: []string{"nothing", "FIRST-TIME"}}, 3344, true},
		{"starts with", rules.Matcher{Kind: rules.KindLine, StartsWith: "total part"}, 400, true},
		{"no trigger", rules.Matcher{Kind: rules.KindLine, All: []string{"transfer"}}, 0, false},
		{"range skips line", rules.Matcher{Kind: rules.KindLine, All: []string{"enrolled"}, Range: &rules.Range{Min: 2000, Max: 6000}}, 3344, true},
		{"range rejects all", rules.Matcher{Kind: rules.KindLine, All: []string{"enrolled"}, Range: &rules.Range{Min: 5000}}, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := src.match(&tc.m, nil)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && c.Value() != tc.want {
				t.Errorf("value = %v, want %v", c.Value(), tc.want)
			}
		})
	}
}

func TestMatch_Picks(t *testing.T) {
	src := srcOf("SAT Math 700 790 (200 - 800)")
	rng := &rules.Range{Min: 600, Max: 800, Inclusive: true}
	tests := []struct {
		pick string
		want []float64
	}{
		{rules.PickFirst, []float64{700}},
		{rules.PickLast, []float64{800}},
		{rules.PickMax, []float64{800}},
		{rules.PickPair, []float64{700, 790}},
		{rules.PickSpan, []float64{700, 800}},
	}
	for _, tc := range tests {
		t.Run(tc.pick, func(t *testing.T) {
			m := rules.Matcher{Kind: rules.KindLine, All: []string{"sat math"}, Number: rules.ShapeThree, Pick: tc.pick}
			c, ok := src.match(&m, rng)
			if !ok {
				t.Fatal("expected a candidate")
			}
			if len(c.Values) != len(tc.want) {
				t.Fatalf("values = %v, want %v", c.Values, tc.want)
			}
			for i := range tc.want {
				if c.Values[i] != tc.want[i] {
					t.Errorf("values = %v, want %v", c.Values, tc.want)
				}
			}
		})
	}
}

func TestMatch_SpanNeedsTwoSurvivors(t *testing.T) {
	src := srcOf("ACT Composite 33 (1-36)")
	m := rules.Matcher{Kind: rules.KindLine, All: []string{"act composite"}, Number: rules.ShapeTwo, Pick: rules.PickSpan,
		Range: &rules.Range{Min: 25, Max: 36, Inclusive: true}}
	if _, ok := src.match(&m, nil); ok {
		t.Error("span with one surviving token should not resolve")
	}
}

func TestMatch_Window(t *testing.T) {
	src := srcOf("ROOM AND BOARD:", "(on-campus) $15,756")
	m := rules.Matcher{Kind: rules.KindLine, All: []string{"room and board"}, Window: 1}
	c, ok := src.match(&m, &rules.Range{Min: 10000, Max: 25000})
	if !ok || c.Value() != 15756 {
		t.Fatalf("got %v,%v want 15756", c.Value(), ok)
	}

	m.Window = 0
	if _, ok := src.match(&m, &rules.Range{Min: 10000, Max: 25000}); ok {
		t.Error("without a window the amount on the next line should not be seen")
	}
}

func TestMatch_PatternFirstMatchOnly(t *testing.T) {
	src := srcOf("Tuition: $1,200 for summer", "Tuition: $66,014")
	m := rules.Matcher{Kind: rules.KindPattern, Regex: `tuition:\s*\$?([\d,]+)`}
	if _, ok := src.match(&m, &rules.Range{Min: 40000, Max: 80000}); ok {
		t.Error("pattern matchers should consider only the first regex match")
	}
	c, ok := src.match(&m, nil)
	if !ok || c.Value() != 1200 {
		t.Errorf("got %v,%v want 1200", c.Value(), ok)
	}
}

func TestMatch_PatternPercent(t *testing.T) {
	src := srcOf("Percent of students from out of state 96%")
	m := rules.Matcher{Kind: rules.KindPattern, Regex: `out of state.*?(\d+(?:\.\d+)?)\s*%`, Number: rules.ShapePercent}
	c, ok := src.match(&m, &rules.Range{Max: 1, Inclusive: true})
	if !ok || c.Value() != 0.96 {
		t.Errorf("got %v,%v want 0.96", c.Value(), ok)
	}
}

func TestMatch_TableSkipsLabelCells(t *testing.T) {
	src := NewSource(tableDoc(
		[]string{"Total first-time students admitted in Fall 2023", "1,900.0", "2,100.0"},
	))
	m := rules.Matcher{Kind: rules.KindTable, All: []string{"students admitted"}, Pick: rules.PickPair}
	c, ok := src.match(&m, &rules.Range{Min: 300, Max: 5000})
	if !ok || c.Sum() != 4000 {
		t.Fatalf("got %v,%v want sum 4000", c.Values, ok)
	}

	m.Pick = rules.PickLast
	c, _ = src.match(&m, nil)
	if c.Value() != 2100 {
		t.Errorf("last = %v, want 2100", c.Value())
	}
}

func TestFirstMatch_FallbackOrder(t *testing.T) {
	src := srcOf("SAT Critical Reading 650 740")
	ms := []rules.Matcher{
		{Kind: rules.KindLine, All: []string{"evidence-based"}, Number: rules.ShapeThree, Pick: rules.PickSpan},
		{Kind: rules.KindLine, All: []string{"critical reading"}, Number: rules.ShapeThree, Pick: rules.PickSpan},
	}
	c, ok := src.firstMatch(ms, &rules.Range{Min: 600, Max: 800, Inclusive: true})
	if !ok || c.Matcher != 1 {
		t.Fatalf("expected second matcher to resolve, got %+v %v", c, ok)
	}
}
