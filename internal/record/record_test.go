package record

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestByRaceField(t *testing.T) {
	var b ByRace
	for i, name := range RaceCategories {
		p := b.Field(name)
		if p == nil {
			t.Fatalf("Field(%q) returned nil", name)
		}
		*p = i + 1
	}
	if b.International != 1 || b.Unknown != len(RaceCategories) {
		t.Errorf("unexpected assignment: %+v", b)
	}
	if b.Field("martian") != nil {
		t.Error("expected nil for unknown category")
	}
}

func TestYearJSONShape(t *testing.T) {
	y := Year{Missing: []string{}}
	data, err := json.Marshal(y)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"admissions"`, `"testScores":{}`, `"byRace"`, `"byResidency"`, `"totalCOA"`, `"missing":[]`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
	if strings.Contains(s, "earlyDecision") {
		t.Error("earlyDecision should be omitted when nil")
	}
}

func TestYearLabelsSorted(t *testing.T) {
	in := New("Example University", "example")
	in.Years["2021-2022"] = Year{}
	in.Years["2019-2020"] = Year{}
	in.Years["2020-2021"] = Year{}
	got := in.YearLabels()
	want := []string{"2019-2020", "2020-2021", "2021-2022"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("YearLabels() = %v, want %v", got, want)
		}
	}
}
