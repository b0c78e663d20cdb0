package extract

import (
	"testing"

	"github.com/dgallion1/cdsgest/internal/document"
	"github.com/dgallion1/cdsgest/internal/rules"
)

func tableDoc(rows ...[]string) *document.Document {
	return &document.Document{Pages: []document.Page{{Number: 1, Tables: []document.Table{{Rows: rows}}}}}
}

func appliedRule() rules.CountRule {
	return rules.CountRule{
		Range: &rules.Range{Min: 10000, Max: 100000},
		Total: []rules.Matcher{{Kind: rules.KindLine, All: []string{"total applicants"}}},
		Split: rules.SplitRule{
			Range:  &rules.Range{Min: 5000},
			First:  []rules.Matcher{{Kind: rules.KindLine, All: []string{"men who applied"}, None: []string{"women"}}},
			Second: []rules.Matcher{{Kind: rules.KindLine, All: []string{"women who applied"}}},
		},
		Table: []rules.Matcher{{Kind: rules.KindTable, All: []string{"who applied"}, Pick: rules.PickLast}},
	}
}

func TestCount_TotalBeforeSplit(t *testing.T) {
	rule := appliedRule()
	src := srcOf("Total applicants 28,336", "men who applied 13,000", "women who applied 15,000")
	c, ok := src.count(&rule)
	if !ok || c.Sum() != 28336 || c.Source != rules.RouteTotal {
		t.Fatalf("got %+v %v", c, ok)
	}

	rule.Precedence = []string{rules.RouteSplit, rules.RouteTotal}
	c, _ = src.count(&rule)
	if c.Sum() != 28000 || c.Source != rules.RouteSplit {
		t.Errorf("split precedence: got %+v", c)
	}
}

func TestCount_SplitNeedsBothSubgroups(t *testing.T) {
	rule := appliedRule()
	src := srcOf("men who applied 13,000")
	if _, ok := src.count(&rule); ok {
		t.Error("a single plausible subgroup should not resolve the count")
	}

	src = srcOf("men who applied 13,000", "women who applied 900")
	if _, ok := src.count(&rule); ok {
		t.Error("an implausible subgroup should not resolve the count")
	}
}

func TestCount_TableFallback(t *testing.T) {
	rule := appliedRule()
	doc := tableDoc([]string{"Total first-time who applied", "", "31,200"})
	c, ok := NewSource(doc).count(&rule)
	if !ok || c.Sum() != 31200 || c.Source != rules.RouteTable {
		t.Fatalf("got %+v %v", c, ok)
	}
}

func TestCount_PreferLargerTable(t *testing.T) {
	rule := appliedRule()
	rule.PreferLargerTable = true

	doc := docOf("Total applicants 12,500")
	doc.Pages[0].Tables = []document.Table{{Rows: [][]string{{"Total first-time who applied", "28,336"}}}}
	c, ok := NewSource(doc).count(&rule)
	if !ok || c.Sum() != 28336 || c.Source != rules.RouteTable {
		t.Fatalf("larger table value should win, got %+v", c)
	}

	doc.Pages[0].Tables = []document.Table{{Rows: [][]string{{"Total first-time who applied", "11,000"}}}}
	c, _ = NewSource(doc).count(&rule)
	if c.Sum() != 12500 || c.Source != rules.RouteTotal {
		t.Errorf("smaller table value should lose, got %+v", c)
	}

	doc.Pages[0].Tables = []document.Table{{Rows: [][]string{{"Total first-time who applied", "12,500"}}}}
	c, _ = NewSource(doc).count(&rule)
	if c.Source != rules.RouteTotal {
		t.Errorf("equal table value should not replace text value, got %+v", c)
	}
}
