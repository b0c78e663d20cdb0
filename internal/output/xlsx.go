package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/cdsgest/internal/record"
)

const yearsSheet = "Years"

// xlsxColumns are the workbook headers, one column per exported figure.
var xlsxColumns = []string{
	"Year",
	"Applied",
	"Admitted",
	"Enrolled",
	"Acceptance Rate",
	"Yield",
	"ED Applied",
	"ED Admitted",
	"SAT 25th",
	"SAT 50th",
	"SAT 75th",
	"ACT 25th",
	"ACT 50th",
	"ACT 75th",
	"Undergraduate",
	"Graduate",
	"Total Enrollment",
	"International",
	"In State",
	"Out of State",
	"Tuition",
	"Fees",
	"Room and Board",
	"Total COA",
	"% Receiving Aid",
	"Avg Aid Package",
	"Avg Need-Based Grant",
	"% Need Fully Met",
	"Missing",
}

func xlsxRow(label string, y record.Year) []any {
	a := y.Admissions
	var edApplied, edAdmitted int
	if a.EarlyDecision != nil {
		edApplied, edAdmitted = a.EarlyDecision.Applied, a.EarlyDecision.Admitted
	}
	var sat, act record.Percentiles
	if y.TestScores.SAT != nil {
		sat = y.TestScores.SAT.Composite
	}
	if y.TestScores.ACT != nil {
		act = y.TestScores.ACT.Composite
	}
	d := y.Demographics
	c := y.Costs
	fa := y.FinancialAid
	return []any{
		label,
		a.Applied, a.Admitted, a.Enrolled, a.AcceptanceRate, a.Yield,
		edApplied, edAdmitted,
		sat.P25, sat.P50, sat.P75,
		act.P25, act.P50, act.P75,
		d.Enrollment.Undergraduate, d.Enrollment.Graduate, d.Enrollment.Total,
		d.ByResidency.International, d.ByResidency.InState, d.ByResidency.OutOfState,
		c.Tuition, c.Fees, c.RoomAndBoard, c.TotalCOA,
		fa.PercentReceivingAid, fa.AverageAidPackage, fa.AverageNeedBasedGrant, fa.PercentNeedFullyMet,
		strings.Join(y.Missing, ", "),
	}
}

// BuildXLSX renders a record as a workbook with one row per year, oldest first.
func BuildXLSX(rec *record.Institution) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", yearsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range xlsxColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(yearsSheet, cell, h)
	}
	for r, label := range rec.YearLabels() {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		row := xlsxRow(label, rec.Years[label])
		if err := f.SetSheetRow(yearsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %s: %w", label, err)
		}
	}

	last, _ := excelize.ColumnNumberToName(len(xlsxColumns))
	_ = f.SetColWidth(yearsSheet, "A", "A", 12)
	_ = f.SetColWidth(yearsSheet, "B", last, 14)
	_ = f.SetPanes(yearsSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
	_ = f.SetDocProps(&excelize.DocProperties{Title: rec.Name, Subject: "Common Data Set"})
	return f, nil
}

// WriteXLSX writes <dir>/<slug>.xlsx.
func WriteXLSX(dir string, rec *record.Institution) (string, error) {
	f, err := BuildXLSX(rec)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("xlsx write: %w", err)
	}
	path := filepath.Join(dir, rec.Slug+".xlsx")
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}
