package calculation

import (
	"fmt"
	"math"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
)

// invariantTolerance is the largest accepted |cum_contrib + gain - final_balance|.
const invariantTolerance = 0.01

// InvestmentProjector runs the deterministic investment-growth projection.
type InvestmentProjector struct {
	Logger Logger
}

// NewInvestmentProjector creates a projector; a nil logger is replaced by NopLogger.
func NewInvestmentProjector(logger Logger) *InvestmentProjector {
	return &InvestmentProjector{Logger: orNop(logger)}
}

// ProjectInvestment runs a projection without logging.
func ProjectInvestment(in domain.InvestmentInputs) domain.InvestmentResult {
	return NewInvestmentProjector(nil).Project(in)
}

// stepRates holds every annual input already converted to the step length.
type stepRates struct {
	months   float64
	growth   float64
	mgmt     float64
	contrib  float64
	dividend float64
	vat      float64
}

func newStepRates(in domain.InvestmentInputs, cal dateutil.StepCalendar) stepRates {
	m := cal.StepMonths()
	return stepRates{
		months:   m,
		growth:   StepRate(in.AnnualReturn, m),
		mgmt:     ProRate(in.Mgmt, m),
		contrib:  StepRate(in.ContribGrowth, m),
		dividend: StepRate(in.DivYield, m),
		vat:      pct(in.VATOnFees),
	}
}

// projection is the mutable state of one projection run. It never escapes Project.
type projection struct {
	in     domain.InvestmentInputs
	rates  stepRates
	policy FiscalPolicy

	balance    float64
	cumContrib float64
	depCurrent float64

	startOfYear float64
	netInYear   float64
	feesYear    float64
	taxesYear   float64
}

// stepMonth is the calendar month whose skip and extra settings govern a step.
// Steps coarser than a month rotate through the months by step index.
func stepMonth(slot dateutil.StepSlot) int {
	if slot.MonthCount > 1 {
		return (slot.Step-1)%12 + 1
	}
	return slot.FirstMonth
}

// stepContribution returns the gross deposit landing in a step: one base deposit
// per step unless its month is skipped, plus the extra amount on the first step
// of an extra month.
func stepContribution(slot dateutil.StepSlot, base float64, in *domain.InvestmentInputs) float64 {
	month := stepMonth(slot)
	dep := base
	if in.SkipMonths.Contains(month) {
		dep = 0
	}
	if in.ExtraAmount > 0 && slot.FirstOfMonth() && in.ExtraMonths.Contains(month) {
		dep += in.ExtraAmount
	}
	return dep
}

// deposit adds a gross deposit net of the deposit fee. VAT on the fee is
// counted as a cost but not taken from the balance. Entry commissions and
// spreads are carried on the inputs for reporting only.
func (p *projection) deposit(dep float64) {
	if dep <= 0 {
		return
	}
	fee := dep * pct(p.in.FeeDeposit)
	net := dep - fee

	p.balance += net
	p.cumContrib += dep
	p.netInYear += net
	p.feesYear += fee * (1 + p.rates.vat)
}

// charge removes a fee from the balance and books it, with VAT, as a cost.
func (p *projection) charge(fee float64) {
	if fee <= 0 {
		return
	}
	p.balance -= fee
	p.feesYear += fee * (1 + p.rates.vat)
}

func (p *projection) withhold(tax float64) {
	if tax <= 0 {
		return
	}
	p.balance -= tax
	p.taxesYear += tax
}

func (p *projection) step(slot dateutil.StepSlot) {
	dep := stepContribution(slot, p.depCurrent, &p.in)
	if p.in.Timing != domain.TimingEnd {
		p.deposit(dep)
	}

	p.charge(p.balance * p.rates.mgmt)
	p.charge(p.in.CustodyFixed * p.rates.months)
	p.charge(p.in.PlatformFixed * p.rates.months)

	interest := p.balance * p.rates.growth
	p.balance += interest
	if p.policy.WithholdsInterest && interest > 0 {
		p.withhold(interest * ProRate(p.in.TaxGain, p.rates.months))
	}

	if p.rates.dividend > 0 {
		gross := p.balance * p.rates.dividend
		tax := gross * p.policy.DividendWithholding
		p.taxesYear += tax
		if p.in.DivPolicy != domain.DividendWithdraw {
			p.balance += gross - tax
		}
	}

	if p.in.Timing == domain.TimingEnd {
		p.deposit(dep)
	}
	p.depCurrent *= 1 + p.rates.contrib
}

func (p *projection) closeYear(year int) domain.YearRow {
	if p.policy.GainTax == TaxAnnually {
		if gain := p.balance - p.startOfYear - p.netInYear; gain > 0 {
			p.withhold(gain * pct(p.in.TaxGain))
		}
	}
	row := domain.YearRow{
		Year:         year,
		FinalBalance: p.balance,
		CumContrib:   p.cumContrib,
		Gain:         p.balance - p.cumContrib,
		RealValue:    Deflate(p.balance, p.in.Inflation, float64(year)),
		Fees:         p.feesYear,
		Taxes:        p.taxesYear,
	}
	p.startOfYear = p.balance
	p.netInYear, p.feesYear, p.taxesYear = 0, 0, 0
	return row
}

// liquidate applies the one-time exit charges to the last row in place.
func (p *projection) liquidate(last *domain.YearRow) {
	exit := func(ratePct float64, withVAT bool) {
		if ratePct <= 0 || p.balance <= 0 {
			return
		}
		cost := p.balance * pct(ratePct)
		p.balance -= cost
		if withVAT {
			last.Fees += cost * (1 + p.rates.vat)
			return
		}
		last.Fees += cost
	}
	exit(p.in.BuySell, true)
	exit(p.in.SellFee, true)
	exit(p.in.MarketSpread, false)
	exit(p.in.ExitSpread, false)

	if p.policy.GainTax == TaxAtSale {
		if gain := p.balance - p.cumContrib; gain > 0 {
			tax := gain * pct(p.in.TaxGain)
			p.balance -= tax
			last.Taxes += tax
		}
	}

	last.FinalBalance = p.balance
	last.Gain = p.balance - last.CumContrib
	last.RealValue = Deflate(p.balance, p.in.Inflation, float64(last.Year))
}

// Project runs the deterministic step loop and returns yearly rows plus totals.
// Inputs with no funding or no horizon yield an empty result.
func (ip *InvestmentProjector) Project(in domain.InvestmentInputs) domain.InvestmentResult {
	if in.Years <= 0 || !in.HasFunding() {
		return domain.InvestmentResult{Rows: []domain.YearRow{}}
	}

	cal := dateutil.NewStepCalendar(in.Frequency.StepsPerYear())
	p := &projection{
		in:          in,
		rates:       newStepRates(in, cal),
		policy:      PolicyFor(in.Instrument, in.W8BEN),
		balance:     in.Initial,
		cumContrib:  in.Initial,
		startOfYear: in.Initial,
		depCurrent:  in.Monthly,
	}

	rows := make([]domain.YearRow, 0, in.Years)
	steps := in.Years * cal.StepsPerYear()
	for step := 1; step <= steps; step++ {
		slot := cal.Slot(step)
		p.step(slot)
		if slot.LastOfYear {
			rows = append(rows, p.closeYear(slot.Year))
		}
	}
	p.liquidate(&rows[len(rows)-1])

	var notices []string
	if p.policy.GainTax == TaxAtSale && math.Abs(in.TaxGain-mxStockTypicalGainTaxPct) > mxStockGainTaxNoticeEpsilon {
		msg := fmt.Sprintf("%s gains are typically taxed at %.0f%% at sale; using %.2f%%", in.Instrument, mxStockTypicalGainTaxPct, in.TaxGain)
		ip.Logger.Infof("%s", msg)
		notices = append(notices, msg)
	}
	for _, v := range CheckYearRows(rows) {
		ip.Logger.Errorf("accounting invariant violated: %s", v)
	}

	nominal := p.balance
	return domain.InvestmentResult{
		Rows:         rows,
		Nominal:      nominal,
		TotalContrib: p.cumContrib,
		TotalGain:    math.Max(0, nominal-p.cumContrib),
		RealValue:    Deflate(nominal, in.Inflation, float64(in.Years)),
		Notices:      notices,
	}
}

// CheckYearRows returns a description of every row where cum_contrib + gain
// does not reproduce final_balance within tolerance. Non-finite values always fail.
func CheckYearRows(rows []domain.YearRow) []string {
	var out []string
	for _, r := range rows {
		diff := math.Abs(r.CumContrib + r.Gain - r.FinalBalance)
		if !(diff < invariantTolerance) {
			out = append(out, fmt.Sprintf("year %d: cum_contrib %.6f + gain %.6f != final_balance %.6f", r.Year, r.CumContrib, r.Gain, r.FinalBalance))
		}
	}
	return out
}
