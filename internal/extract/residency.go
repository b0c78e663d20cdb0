package extract

import (
	"math"

	"github.com/dgallion1/cdsgest/internal/record"
)

// residency splits domestic undergraduates by a stated out-of-state share.
// It needs a resolved undergraduate count and percentage.
func residency(undergraduate, international int, outOfStatePct float64, pctOK bool) (record.ByResidency, bool) {
	if undergraduate <= 0 || !pctOK {
		return record.ByResidency{}, false
	}
	domestic := undergraduate - international
	out := int(math.Round(float64(domestic) * outOfStatePct))
	return record.ByResidency{
		InState:       domestic - out,
		OutOfState:    out,
		International: international,
	}, true
}
