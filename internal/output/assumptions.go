package output

import (
	"fmt"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
)

// DefaultAssumptions lists modeling rules that hold for every plan.
var DefaultAssumptions = []string{
	"Annual rates are converted to step rates geometrically; management fees are pro-rated",
	"VAT on fees is reported as a cost and is not deducted from the invested balance",
	"Real values are deflated by cumulative inflation to year-zero purchasing power",
}

// GenerateAssumptions describes the policy that applied to a report's inputs.
func GenerateAssumptions(report *domain.PlanReport) []string {
	out := append([]string(nil), DefaultAssumptions...)
	if in := report.InvestmentInputs; in != nil {
		policy := calculation.PolicyFor(in.Instrument, in.W8BEN)
		out = append(out,
			fmt.Sprintf("Instrument %s: gains taxed %s at %.2f%%", in.Instrument, policy.GainTax, in.TaxGain),
			fmt.Sprintf("Dividend withholding: %.0f%% (%s policy)", policy.DividendWithholding*100, in.DivPolicy),
			fmt.Sprintf("Contributions %s, deposited at the %s of each step", in.Frequency, in.Timing),
		)
		if policy.WithholdsInterest {
			out = append(out, fmt.Sprintf("Interest withheld at %.2f%% a year, pro-rated to each step", in.TaxGain))
		}
		if in.MonteCarloEnabled() {
			out = append(out, fmt.Sprintf("Monte Carlo: lognormal returns, %.2f%% annual volatility, fees and taxes omitted", in.VolAnnual))
		}
	}
	if d := report.DebtInputs; d != nil {
		out = append(out, fmt.Sprintf("Loan %q: CAT %.2f%% converted to a monthly rate; skip periods in the first year are interest-only", d.Title, d.CATAnnual))
	}
	return out
}

func assumptionsFor(report *domain.PlanReport) []string {
	if len(report.Assumptions) > 0 {
		return report.Assumptions
	}
	return GenerateAssumptions(report)
}
