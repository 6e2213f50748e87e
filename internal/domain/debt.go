package domain

import (
	"fmt"

	"github.com/rpgo/finplan/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// DebtInputs describes a fixed-rate amortizing loan.
//
// Skip and extra months name loan periods 1-12 directly, so they only apply
// during the first year of the schedule.
type DebtInputs struct {
	Title            string            `yaml:"title" json:"title"`
	Cost             float64           `yaml:"cost" json:"cost"`
	DownPayment      float64           `yaml:"down_payment" json:"down_payment"`
	CATAnnual        float64           `yaml:"cat_annual" json:"cat_annual"`
	OpenPct          float64           `yaml:"open_pct" json:"open_pct"`
	InsuranceMonthly float64           `yaml:"insurance_monthly" json:"insurance_monthly"`
	TermMonths       int               `yaml:"term_months" json:"term_months"`
	ExtraMonths      dateutil.MonthSet `yaml:"extra_months" json:"extra_months"`
	ExtraAmount      float64           `yaml:"extra_amount" json:"extra_amount"`
	SkipMonths       dateutil.MonthSet `yaml:"skip_months" json:"skip_months"`
	InflationAnnual  float64           `yaml:"inflation_annual" json:"inflation_annual"`
}

// DefaultDebtInputs returns the baseline loan record.
func DefaultDebtInputs() DebtInputs {
	return DebtInputs{
		Title:           "Loan",
		TermMonths:      12,
		InflationAnnual: 4,
	}
}

// UnmarshalYAML fills omitted fields from DefaultDebtInputs.
func (d *DebtInputs) UnmarshalYAML(value *yaml.Node) error {
	type plain DebtInputs
	aux := plain(DefaultDebtInputs())
	if err := value.Decode(&aux); err != nil {
		return fmt.Errorf("debt inputs: %w", err)
	}
	*d = DebtInputs(aux)
	return nil
}

// Financed is the amount actually borrowed.
func (d DebtInputs) Financed() float64 { return d.Cost - d.DownPayment }

// DebtRow is one amortization period.
type DebtRow struct {
	Month                     int     `json:"month"`
	PaymentTotal              float64 `json:"payment_total"`
	Interest                  float64 `json:"interest"`
	PrincipalPayment          float64 `json:"principal_payment"`
	Fees                      float64 `json:"fees"`
	Balance                   float64 `json:"balance"`
	InterestAccruedCumulative float64 `json:"interest_accrued_cumulative"`
	RealBalance               float64 `json:"real_balance"`
}

// DebtSummary totals a completed schedule. TotalPaid includes fees.
type DebtSummary struct {
	Months           int     `json:"months"`
	Years            float64 `json:"years"`
	ScheduledPayment float64 `json:"scheduled_payment"`
	TotalPaid        float64 `json:"total_paid"`
	TotalInterest    float64 `json:"total_interest"`
	TotalFees        float64 `json:"total_fees"`
	RealCost         float64 `json:"real_cost"`
}

// DebtResult is the amortizer's output.
type DebtResult struct {
	Title   string      `json:"title"`
	Rows    []DebtRow   `json:"rows"`
	Summary DebtSummary `json:"summary"`
}
