package calculation

import "math"

// pct converts a percentage (12 = 12%) into a fraction.
func pct(x float64) float64 { return x / 100 }

// StepRate converts an annual percentage into the equivalent per-step rate by
// geometric compounding: (1 + annual)^(stepMonths/12) - 1.
func StepRate(annualPct, stepMonths float64) float64 {
	if annualPct == 0 {
		return 0
	}
	return math.Pow(1+pct(annualPct), stepMonths/12) - 1
}

// ProRate spreads an annual percentage linearly over a step (used for management fees).
func ProRate(annualPct, stepMonths float64) float64 {
	return pct(annualPct) * stepMonths / 12
}

// Deflate expresses amount in year-zero purchasing power after the given number
// of (possibly fractional) years. A non-positive inflation base leaves amount unchanged.
func Deflate(amount, inflationPct, years float64) float64 {
	base := 1 + pct(inflationPct)
	if base <= 0 {
		return amount
	}
	return amount / math.Pow(base, years)
}

// AnnuityPayment returns the level payment that retires principal over n periods
// at the given periodic rate. A zero rate falls back to straight-line principal/n.
func AnnuityPayment(principal, rate float64, n int) float64 {
	if n < 1 {
		n = 1
	}
	if rate > 0 {
		return rate * principal / (1 - math.Pow(1+rate, -float64(n)))
	}
	return principal / float64(n)
}

// MonthlyRateFromCAT converts an annual total-cost rate into a monthly rate.
// Non-positive rates yield zero.
func MonthlyRateFromCAT(catAnnualPct float64) float64 {
	if catAnnualPct <= 0 {
		return 0
	}
	return math.Pow(1+pct(catAnnualPct), 1.0/12) - 1
}
