package calculation

import (
	"fmt"

	"github.com/rpgo/finplan/internal/domain"
)

const (
	// liquidationSlack bounds the schedule at term + liquidationSlack periods.
	liquidationSlack = 600
	balanceEpsilon   = 1e-6
	// residual balances above this after the loop mean the loan never paid off.
	liquidationTolerance = 1e-4
)

// DebtAmortizer builds fixed-payment amortization schedules.
type DebtAmortizer struct {
	Logger Logger
}

// NewDebtAmortizer creates an amortizer; a nil logger is replaced by NopLogger.
func NewDebtAmortizer(logger Logger) *DebtAmortizer {
	return &DebtAmortizer{Logger: orNop(logger)}
}

// AmortizeDebt runs a schedule without logging.
func AmortizeDebt(in domain.DebtInputs) (domain.DebtResult, error) {
	return NewDebtAmortizer(nil).Amortize(in)
}

// Amortize returns the period-by-period schedule for a loan.
//
// Skip and extra months name absolute periods 1-12, so they only shape the
// first year of the schedule. Skip periods collect interest only; extra periods
// add min(extra, balance) of principal on top of the scheduled payment. It fails with domain.ErrInvalidAmount
// when nothing is financed and with domain.ErrNotLiquidated when the balance is
// still open after term + 600 periods.
func (da *DebtAmortizer) Amortize(in domain.DebtInputs) (domain.DebtResult, error) {
	principal := in.Financed()
	if principal <= 0 {
		return domain.DebtResult{}, fmt.Errorf("%w (cost %.2f, down payment %.2f)", domain.ErrInvalidAmount, in.Cost, in.DownPayment)
	}

	term := in.TermMonths
	if term < 1 {
		term = 1
	}
	rate := MonthlyRateFromCAT(in.CATAnnual)
	payment := AnnuityPayment(principal, rate, term)
	openFee := pct(in.OpenPct) * in.Cost
	if openFee < 0 {
		openFee = 0
	}
	da.Logger.Debugf("amortizing %.2f over %d periods at %.6f per period, payment %.2f", principal, term, rate, payment)

	rows := make([]domain.DebtRow, 0, term)
	balance := principal
	var totalPaid, totalInterest, totalFees float64
	month := 0
	for balance > balanceEpsilon && month < term+liquidationSlack {
		month++
		skip := in.SkipMonths.Contains(month)

		interest := balance * rate
		scheduled := interest
		principalPaid := 0.0
		if !skip {
			scheduled = payment
			principalPaid = payment - interest
			if principalPaid < 0 {
				principalPaid = 0
			}
			if principalPaid > balance {
				principalPaid = balance
				scheduled = interest + principalPaid
			}
		}
		balance -= principalPaid

		extra := 0.0
		if !skip && in.ExtraAmount > 0 && balance > 0 && in.ExtraMonths.Contains(month) {
			extra = in.ExtraAmount
			if extra > balance {
				extra = balance
			}
			balance -= extra
		}

		fees := in.InsuranceMonthly
		if month == 1 {
			fees += openFee
		}

		paid := scheduled + extra
		totalPaid += paid
		totalInterest += interest
		totalFees += fees

		rows = append(rows, domain.DebtRow{
			Month:                     month,
			PaymentTotal:              paid,
			Interest:                  interest,
			PrincipalPayment:          principalPaid + extra,
			Fees:                      fees,
			Balance:                   balance,
			InterestAccruedCumulative: totalInterest,
			RealBalance:               Deflate(balance, in.InflationAnnual, float64(month)/12),
		})
	}

	if balance > liquidationTolerance {
		da.Logger.Warnf("loan %q still owes %.2f after %d periods", in.Title, balance, month)
		return domain.DebtResult{}, fmt.Errorf("%w: %.2f outstanding after %d periods", domain.ErrNotLiquidated, balance, month)
	}

	paidWithFees := totalPaid + totalFees
	return domain.DebtResult{
		Title: in.Title,
		Rows:  rows,
		Summary: domain.DebtSummary{
			Months:           month,
			Years:            float64(month) / 12,
			ScheduledPayment: payment,
			TotalPaid:        paidWithFees,
			TotalInterest:    totalInterest,
			TotalFees:        totalFees,
			RealCost:         Deflate(paidWithFees, in.InflationAnnual, float64(month)/12),
		},
	}, nil
}
