package calculation

import "github.com/rpgo/finplan/internal/domain"

// GainTaxTiming describes when capital gains are taxed.
type GainTaxTiming int

const (
	// TaxAtSale defers all gain tax to liquidation at the end of the horizon.
	TaxAtSale GainTaxTiming = iota
	// TaxAnnually realizes the year's gain at every year end.
	TaxAnnually
)

func (t GainTaxTiming) String() string {
	switch t {
	case TaxAtSale:
		return "at sale"
	case TaxAnnually:
		return "annually"
	}
	return "unknown"
}

// Withholding rates applied to gross dividends.
const (
	mxDividendWithholding       = 0.10
	usaTreatyWithholding        = 0.10
	usaNonTreatyWithholding     = 0.30
	mxStockTypicalGainTaxPct    = 10.0
	mxStockGainTaxNoticeEpsilon = 0.1
)

// FiscalPolicy is the fixed tax treatment derived from the instrument and W-8BEN status.
type FiscalPolicy struct {
	Instrument          domain.Instrument
	GainTax             GainTaxTiming
	DividendWithholding float64 // fraction of gross dividends withheld
	// WithholdsInterest withholds tax_gain, pro-rated to the step, on each
	// step's interest in addition to the year-end gain tax.
	WithholdsInterest bool
}

// PolicyFor resolves the fiscal policy for an instrument. Country is informational:
// the withholding table is keyed by instrument and treaty status only.
func PolicyFor(instrument domain.Instrument, w8ben bool) FiscalPolicy {
	switch instrument {
	case domain.InstrumentMXStock:
		return FiscalPolicy{Instrument: instrument, GainTax: TaxAtSale, DividendWithholding: mxDividendWithholding}
	case domain.InstrumentMXDebt:
		return FiscalPolicy{Instrument: instrument, GainTax: TaxAnnually, WithholdsInterest: true}
	case domain.InstrumentUSAStock:
		w := usaNonTreatyWithholding
		if w8ben {
			w = usaTreatyWithholding
		}
		return FiscalPolicy{Instrument: instrument, GainTax: TaxAnnually, DividendWithholding: w}
	default:
		return FiscalPolicy{Instrument: instrument, GainTax: TaxAnnually}
	}
}
