package extract

import (
	"github.com/dgallion1/cdsgest/internal/record"
	"github.com/dgallion1/cdsgest/internal/rules"
)

// testScores emits an SAT block only when a composite band resolves directly
// or both section bands resolve so Derive can sum them. ACT needs its
// composite.
func (b *builder) testScores(r *rules.TestScores) record.TestScores {
	var ts record.TestScores

	comp, okComp := b.span("testScores.sat.composite", &r.SATComposite)
	rw, okRW := b.span("testScores.sat.readingWriting", &r.SATReadingWriting)
	satMath, okMath := b.span("testScores.sat.math", &r.SATMath)
	if okComp || (okRW && okMath) {
		sat := &record.SAT{Composite: comp, ReadingWriting: rw, Math: satMath}
		if !okRW {
			b.miss("testScores.sat.readingWriting")
		}
		if !okMath {
			b.miss("testScores.sat.math")
		}
		sat.SubmissionRate = b.floatField("testScores.sat.submissionRate", &r.SATSubmissionRate)
		ts.SAT = sat
	} else {
		b.miss("testScores.sat")
	}

	if act, ok := b.span("testScores.act.composite", &r.ACTComposite); ok {
		ts.ACT = &record.ACT{
			Composite:      act,
			SubmissionRate: b.floatField("testScores.act.submissionRate", &r.ACTSubmissionRate),
		}
	} else {
		b.miss("testScores.act")
	}
	return ts
}
