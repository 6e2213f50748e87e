package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

const (
	maxYears      = 100
	maxTermMonths = 1200
	maxVolatility = 200
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a plan document. Numeric scalars written with a
// decimal comma ("1234,5") are accepted.
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	normalizeDecimalCommas(&root)

	var plan domain.Plan
	if err := root.Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &plan, nil
}

var decimalComma = regexp.MustCompile(`^\s*-?\d+,\d+\s*$`)

// normalizeDecimalCommas rewrites "12,5" scalars to floats in place. Month lists
// (keys ending in _months) keep their comma-separated form.
func normalizeDecimalCommas(n *yaml.Node) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			normalizeDecimalCommas(c)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if strings.HasSuffix(key.Value, "_months") {
				continue
			}
			if val.Kind == yaml.ScalarNode && decimalComma.MatchString(val.Value) {
				val.Value = strings.TrimSpace(strings.Replace(val.Value, ",", ".", 1))
				val.Tag = "!!float"
				val.Style = 0
				continue
			}
			normalizeDecimalCommas(val)
		}
	}
}

// ParseNumber parses a user-entered number, accepting a comma as the decimal separator.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// ValidatePlan validates every section present in the plan
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if plan.Investment == nil && plan.Debt == nil {
		return fmt.Errorf("%w: plan needs an investment or a debt section", domain.ErrInvalidInput)
	}
	if plan.Investment != nil {
		if err := ip.ValidateInvestment(plan.Investment); err != nil {
			return fmt.Errorf("investment validation failed: %w", err)
		}
	}
	if plan.Debt != nil {
		if err := ip.ValidateDebt(plan.Debt); err != nil {
			return fmt.Errorf("debt validation failed: %w", err)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidateInvestment checks ranges and enums of an investment record. A record
// with no funding is valid and simply projects nothing.
func (ip *InputParser) ValidateInvestment(in *domain.InvestmentInputs) error {
	if in.Years < 1 || in.Years > maxYears {
		return invalid("years must be between 1 and %d, got %d", maxYears, in.Years)
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"initial", in.Initial},
		{"monthly", in.Monthly},
		{"custody_fixed", in.CustodyFixed},
		{"platform_fixed", in.PlatformFixed},
		{"extra_amount", in.ExtraAmount},
	}
	for _, a := range amounts {
		if a.value < 0 {
			return invalid("%s cannot be negative", a.name)
		}
	}

	growthRates := []struct {
		name  string
		value float64
	}{
		{"annual_return", in.AnnualReturn},
		{"inflation", in.Inflation},
		{"contrib_growth", in.ContribGrowth},
	}
	for _, r := range growthRates {
		if r.value <= -100 {
			return invalid("%s must be greater than -100%%", r.name)
		}
	}

	if err := ip.validatePercentages(map[string]float64{
		"fee_deposit":   in.FeeDeposit,
		"buy_sell":      in.BuySell,
		"mgmt":          in.Mgmt,
		"vat_on_fees":   in.VATOnFees,
		"tax_gain":      in.TaxGain,
		"market_spread": in.MarketSpread,
		"div_yield":     in.DivYield,
		"buy_fee":       in.BuyFee,
		"sell_fee":      in.SellFee,
		"entry_spread":  in.EntrySpread,
		"exit_spread":   in.ExitSpread,
	}); err != nil {
		return err
	}

	if in.VolAnnual < 0 || in.VolAnnual > maxVolatility {
		return invalid("vol_annual must be between 0 and %d", maxVolatility)
	}
	if in.MCRuns < 0 {
		return invalid("mc_runs cannot be negative")
	}

	switch {
	case !in.Instrument.Valid():
		return invalid("unknown instrument %q", in.Instrument)
	case !in.Country.Valid():
		return invalid("unknown country %q", in.Country)
	case !in.DivPolicy.Valid():
		return invalid("unknown div_policy %q", in.DivPolicy)
	case !in.Frequency.Valid():
		return invalid("unknown frequency %q", in.Frequency)
	case !in.Timing.Valid():
		return invalid("unknown timing %q", in.Timing)
	}
	return nil
}

// validatePercentages requires each value to be in [0, 100]. Keys are checked
// in sorted order so the reported field is stable.
func (ip *InputParser) validatePercentages(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		if v := values[name]; v < 0 || v > 100 {
			return invalid("%s must be between 0 and 100, got %g", name, v)
		}
	}
	return nil
}

// ValidateDebt checks a loan record. A non-positive financed amount is reported
// as domain.ErrInvalidAmount.
func (ip *InputParser) ValidateDebt(in *domain.DebtInputs) error {
	if in.Cost < 0 || in.DownPayment < 0 {
		return invalid("cost and down_payment cannot be negative")
	}
	if in.Financed() <= 0 {
		return fmt.Errorf("%w (cost %.2f, down payment %.2f)", domain.ErrInvalidAmount, in.Cost, in.DownPayment)
	}
	if in.TermMonths < 1 || in.TermMonths > maxTermMonths {
		return invalid("term_months must be between 1 and %d, got %d", maxTermMonths, in.TermMonths)
	}
	if in.CATAnnual < 0 {
		return invalid("cat_annual cannot be negative")
	}
	if in.OpenPct < 0 || in.OpenPct > 100 {
		return invalid("open_pct must be between 0 and 100")
	}
	if in.InsuranceMonthly < 0 || in.ExtraAmount < 0 {
		return invalid("insurance_monthly and extra_amount cannot be negative")
	}
	if in.InflationAnnual <= -100 {
		return invalid("inflation_annual must be greater than -100%%")
	}
	return nil
}

// CreateExamplePlan returns a plan exercising both engines
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	inv := domain.DefaultInvestmentInputs()
	inv.Initial = 50000
	inv.Monthly = 3000
	inv.Years = 20
	inv.AnnualReturn = 9
	inv.Inflation = 4
	inv.FeeDeposit = 0.25
	inv.Mgmt = 0.5
	inv.ContribGrowth = 4
	inv.DivYield = 2
	inv.ExtraMonths = dateutil.NewMonthSet(12)
	inv.ExtraAmount = 10000
	inv.SkipMonths = dateutil.NewMonthSet(8)
	inv.VolAnnual = 16
	inv.MCRuns = 1000

	debt := domain.DefaultDebtInputs()
	debt.Title = "Car loan"
	debt.Cost = 350000
	debt.DownPayment = 70000
	debt.CATAnnual = 14.5
	debt.OpenPct = 1.5
	debt.InsuranceMonthly = 450
	debt.TermMonths = 48
	debt.ExtraMonths = dateutil.NewMonthSet(12)
	debt.ExtraAmount = 15000

	return &domain.Plan{
		Name:       "Example plan",
		Investment: &inv,
		Debt:       &debt,
	}
}

// SavePlan writes a plan as YAML.
func SavePlan(plan *domain.Plan, filename string) error {
	b, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
