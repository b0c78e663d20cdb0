package extract

import (
	"fmt"

	"github.com/dgallion1/cdsgest/internal/record"
)

// Inconsistencies lists cross-field checks a year fails. The year itself is
// never altered; callers only log the result.
func Inconsistencies(y record.Year) []string {
	var out []string
	a := y.Admissions
	if a.Applied > 0 && a.Admitted > a.Applied {
		out = append(out, fmt.Sprintf("admitted %d exceeds applied %d", a.Admitted, a.Applied))
	}
	if a.Admitted > 0 && a.Enrolled > a.Admitted {
		out = append(out, fmt.Sprintf("enrolled %d exceeds admitted %d", a.Enrolled, a.Admitted))
	}
	if a.AcceptanceRate < 0 || a.AcceptanceRate > 1 {
		out = append(out, fmt.Sprintf("acceptance rate %.4f outside [0,1]", a.AcceptanceRate))
	}
	if ed := a.EarlyDecision; ed != nil && ed.Admitted > ed.Applied {
		out = append(out, fmt.Sprintf("early decision admitted %d exceeds applied %d", ed.Admitted, ed.Applied))
	}
	if sat := y.TestScores.SAT; sat != nil && sat.Composite.P25 > sat.Composite.P75 {
		out = append(out, fmt.Sprintf("sat composite p25 %d exceeds p75 %d", sat.Composite.P25, sat.Composite.P75))
	}
	e := y.Demographics.Enrollment
	if e.Undergraduate > 0 && a.Enrolled > e.Undergraduate {
		out = append(out, fmt.Sprintf("first-year enrolled %d exceeds undergraduates %d", a.Enrolled, e.Undergraduate))
	}
	return out
}
