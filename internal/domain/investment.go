package domain

import (
	"fmt"

	"github.com/rpgo/finplan/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Instrument identifies the kind of asset being projected; it selects the fiscal policy.
type Instrument string

const (
	InstrumentMXStock  Instrument = "mx_stock"
	InstrumentMXDebt   Instrument = "mx_debt"
	InstrumentUSAStock Instrument = "usa_stock"
	InstrumentFund     Instrument = "fund"
)

// Valid reports whether the instrument is one of the supported kinds.
func (i Instrument) Valid() bool {
	switch i {
	case InstrumentMXStock, InstrumentMXDebt, InstrumentUSAStock, InstrumentFund:
		return true
	}
	return false
}

// Country is the investor's tax residence.
type Country string

const (
	CountryMX  Country = "mx"
	CountryUSA Country = "usa"
)

func (c Country) Valid() bool { return c == CountryMX || c == CountryUSA }

// DividendPolicy controls whether net dividends return to the balance.
type DividendPolicy string

const (
	DividendReinvest DividendPolicy = "reinvest"
	DividendWithdraw DividendPolicy = "withdraw"
)

func (d DividendPolicy) Valid() bool { return d == DividendReinvest || d == DividendWithdraw }

// Frequency is the compounding/contribution cadence.
type Frequency string

const (
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyAnnual   Frequency = "annual"
)

// StepsPerYear returns the number of simulation steps in one year.
func (f Frequency) StepsPerYear() int {
	switch f {
	case FrequencyBiweekly:
		return 24
	case FrequencyAnnual:
		return 1
	default:
		return 12
	}
}

func (f Frequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyBiweekly || f == FrequencyAnnual
}

// Timing selects whether deposits land before or after the step's growth.
type Timing string

const (
	TimingBegin Timing = "begin"
	TimingEnd   Timing = "end"
)

func (t Timing) Valid() bool { return t == TimingBegin || t == TimingEnd }

// InvestmentInputs is the full parameter record for one investment projection.
// Rates are annual percentages (12 means 12%). Amounts are in currency units.
type InvestmentInputs struct {
	Initial       float64 `yaml:"initial" json:"initial"`
	Monthly       float64 `yaml:"monthly" json:"monthly"`
	CustodyFixed  float64 `yaml:"custody_fixed" json:"custody_fixed"`   // per month
	PlatformFixed float64 `yaml:"platform_fixed" json:"platform_fixed"` // per month

	AnnualReturn  float64 `yaml:"annual_return" json:"annual_return"`
	Inflation     float64 `yaml:"inflation" json:"inflation"`
	FeeDeposit    float64 `yaml:"fee_deposit" json:"fee_deposit"`
	BuySell       float64 `yaml:"buy_sell" json:"buy_sell"`
	Mgmt          float64 `yaml:"mgmt" json:"mgmt"`
	VATOnFees     float64 `yaml:"vat_on_fees" json:"vat_on_fees"`
	TaxGain       float64 `yaml:"tax_gain" json:"tax_gain"`
	ContribGrowth float64 `yaml:"contrib_growth" json:"contrib_growth"`
	MarketSpread  float64 `yaml:"market_spread" json:"market_spread"`
	DivYield      float64 `yaml:"div_yield" json:"div_yield"`
	BuyFee        float64 `yaml:"buy_fee" json:"buy_fee"`
	SellFee       float64 `yaml:"sell_fee" json:"sell_fee"`
	EntrySpread   float64 `yaml:"entry_spread" json:"entry_spread"`
	ExitSpread    float64 `yaml:"exit_spread" json:"exit_spread"`
	VolAnnual     float64 `yaml:"vol_annual" json:"vol_annual"`

	Years int `yaml:"years" json:"years"`

	Instrument Instrument     `yaml:"instrument" json:"instrument"`
	Country    Country        `yaml:"country" json:"country"`
	DivPolicy  DividendPolicy `yaml:"div_policy" json:"div_policy"`
	Frequency  Frequency      `yaml:"frequency" json:"frequency"`
	Timing     Timing         `yaml:"timing" json:"timing"`
	W8BEN      bool           `yaml:"w8ben" json:"w8ben"`

	ExtraMonths dateutil.MonthSet `yaml:"extra_months" json:"extra_months"`
	ExtraAmount float64           `yaml:"extra_amount" json:"extra_amount"`
	SkipMonths  dateutil.MonthSet `yaml:"skip_months" json:"skip_months"`

	MCRuns int   `yaml:"mc_runs" json:"mc_runs"`
	Seed   int64 `yaml:"seed,omitempty" json:"seed,omitempty"` // 0 draws a fresh seed
}

// DefaultInvestmentInputs returns the baseline record every partial input is layered on.
func DefaultInvestmentInputs() InvestmentInputs {
	return InvestmentInputs{
		AnnualReturn: 10,
		Inflation:    4,
		VATOnFees:    16,
		TaxGain:      10,
		Years:        1,
		Instrument:   InstrumentMXStock,
		Country:      CountryMX,
		DivPolicy:    DividendReinvest,
		Frequency:    FrequencyMonthly,
		Timing:       TimingBegin,
		W8BEN:        true,
	}
}

// UnmarshalYAML fills omitted fields from DefaultInvestmentInputs.
func (in *InvestmentInputs) UnmarshalYAML(value *yaml.Node) error {
	type plain InvestmentInputs
	aux := plain(DefaultInvestmentInputs())
	if err := value.Decode(&aux); err != nil {
		return fmt.Errorf("investment inputs: %w", err)
	}
	*in = InvestmentInputs(aux)
	return nil
}

// HasFunding reports whether there is anything to project.
func (in InvestmentInputs) HasFunding() bool {
	return in.Initial > 0 || in.Monthly > 0
}

// MonteCarloEnabled reports whether the stochastic overlay should run.
func (in InvestmentInputs) MonteCarloEnabled() bool {
	return in.MCRuns > 0 && in.VolAnnual > 0
}

// YearRow aggregates one completed projection year.
type YearRow struct {
	Year         int     `json:"year"`
	FinalBalance float64 `json:"final_balance"`
	CumContrib   float64 `json:"cum_contrib"`
	Gain         float64 `json:"gain"`
	RealValue    float64 `json:"real_value"`
	Fees         float64 `json:"fees"`
	Taxes        float64 `json:"taxes"`
}

// MonteCarloSummary reports terminal-balance percentiles of the stochastic overlay.
type MonteCarloSummary struct {
	Runs int     `json:"runs"`
	Seed int64   `json:"seed"`
	P5   float64 `json:"p5"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
}

// InvestmentResult is the projector's output: yearly rows plus final totals.
type InvestmentResult struct {
	Rows         []YearRow          `json:"rows"`
	Nominal      float64            `json:"nominal"`
	TotalContrib float64            `json:"total_contrib"`
	TotalGain    float64            `json:"total_gain"`
	RealValue    float64            `json:"real_value"`
	MonteCarlo   *MonteCarloSummary `json:"monte_carlo,omitempty"`
	Notices      []string           `json:"notices,omitempty"`
}

// IsEmpty reports whether the projection produced no rows.
func (r InvestmentResult) IsEmpty() bool { return len(r.Rows) == 0 }
