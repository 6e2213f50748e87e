package output

import "github.com/rpgo/finplan/internal/domain"

// Highlights condenses a report into the handful of ratios shown under the tables.
type Highlights struct {
	InflationErosionPct float64 // share of nominal value lost to inflation
	TotalFees           float64
	TotalTaxes          float64
	GrowthMultiple      float64 // nominal / total contributions
	InterestToFinanced  float64 // loan interest as a share of the financed amount, in percent
}

// Analyze extracts highlights from a report. Missing sections leave their fields zero.
func Analyze(report *domain.PlanReport) Highlights {
	var h Highlights
	if inv := report.Investment; inv != nil && !inv.IsEmpty() {
		for _, r := range inv.Rows {
			h.TotalFees += r.Fees
			h.TotalTaxes += r.Taxes
		}
		if inv.Nominal > 0 {
			h.InflationErosionPct = (1 - inv.RealValue/inv.Nominal) * 100
		}
		if inv.TotalContrib > 0 {
			h.GrowthMultiple = inv.Nominal / inv.TotalContrib
		}
	}
	if report.Debt != nil && report.DebtInputs != nil {
		if financed := report.DebtInputs.Financed(); financed > 0 {
			h.InterestToFinanced = report.Debt.Summary.TotalInterest / financed * 100
		}
	}
	return h
}
