package extract

import (
	"github.com/dgallion1/cdsgest/internal/record"
	"github.com/dgallion1/cdsgest/internal/rules"
)

func (b *builder) costs(r *rules.Costs) record.Costs {
	return record.Costs{
		Tuition:      b.intField("costs.tuition", &r.Tuition),
		Fees:         b.intField("costs.fees", &r.Fees),
		RoomAndBoard: b.intField("costs.roomAndBoard", &r.RoomAndBoard),
	}
}

func (b *builder) financialAid(r *rules.FinancialAid) record.FinancialAid {
	return record.FinancialAid{
		PercentReceivingAid:   b.floatField("financialAid.percentReceivingAid", &r.PercentReceivingAid),
		AverageAidPackage:     b.intField("financialAid.averageAidPackage", &r.AverageAidPackage),
		AverageNeedBasedGrant: b.intField("financialAid.averageNeedBasedGrant", &r.AverageNeedBasedGrant),
		PercentNeedFullyMet:   b.floatField("financialAid.percentNeedFullyMet", &r.PercentNeedFullyMet),
	}
}
