package extract

import (
	"github.com/dgallion1/cdsgest/internal/record"
	"github.com/dgallion1/cdsgest/internal/rules"
)

func (b *builder) admissions(r *rules.Admissions) record.Admissions {
	a := record.Admissions{
		Applied:  b.countField("admissions.applied", &r.Applied),
		Admitted: b.countField("admissions.admitted", &r.Admitted),
		Enrolled: b.countField("admissions.enrolled", &r.Enrolled),
	}

	edApplied, okApplied := b.resolve("admissions.earlyDecision.applied", &r.EarlyDecision.Applied)
	edAdmitted, okAdmitted := b.resolve("admissions.earlyDecision.admitted", &r.EarlyDecision.Admitted)
	if okApplied && okAdmitted {
		a.EarlyDecision = &record.EarlyDecision{
			Applied:  int(edApplied),
			Admitted: int(edAdmitted),
		}
	} else {
		b.miss("admissions.earlyDecision")
	}
	return a
}
