package extract

import "github.com/dgallion1/cdsgest/internal/record"

// Derive fills the computed fields of a year from its resolved base fields.
// It never reads source text.
func Derive(y *record.Year) {
	a := &y.Admissions
	a.AcceptanceRate = ratio(a.Admitted, a.Applied)
	a.Yield = ratio(a.Enrolled, a.Admitted)

	c := &y.Costs
	c.TotalCOA = c.Tuition + c.Fees + c.RoomAndBoard

	e := &y.Demographics.Enrollment
	e.Total = e.Undergraduate + e.Graduate

	if sat := y.TestScores.SAT; sat != nil {
		if sat.Composite.P25 == 0 && sat.Composite.P75 == 0 {
			sat.Composite.P25 = sat.ReadingWriting.P25 + sat.Math.P25
			sat.Composite.P75 = sat.ReadingWriting.P75 + sat.Math.P75
		}
		median(&sat.Composite)
		median(&sat.ReadingWriting)
		median(&sat.Math)
	}
	if act := y.TestScores.ACT; act != nil {
		median(&act.Composite)
	}
}

// ratio returns num/den rounded to four places, or 0 unless both are positive.
func ratio(num, den int) float64 {
	if num <= 0 || den <= 0 {
		return 0
	}
	return round4(float64(num) / float64(den))
}

func median(p *record.Percentiles) {
	if p.P25 == 0 && p.P75 == 0 {
		p.P50 = 0
		return
	}
	p.P50 = (p.P25 + p.P75) / 2
}
