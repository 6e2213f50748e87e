package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rpgo/finplan/internal/config"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
)

// localeFloat is a float flag that also accepts a decimal comma ("1234,5").
type localeFloat struct{ v *float64 }

func (f localeFloat) String() string {
	if f.v == nil {
		return "0"
	}
	return strconv.FormatFloat(*f.v, 'f', -1, 64)
}

func (f localeFloat) Set(s string) error {
	v, err := config.ParseNumber(s)
	if err != nil {
		return err
	}
	*f.v = v
	return nil
}

func (f localeFloat) Type() string { return "float" }

// monthsFlag parses a month list such as "6,12", silently dropping bad entries.
type monthsFlag struct{ v *dateutil.MonthSet }

func (f monthsFlag) String() string {
	if f.v == nil {
		return ""
	}
	return f.v.String()
}

func (f monthsFlag) Set(s string) error {
	*f.v = dateutil.ParseMonths(s)
	return nil
}

func (f monthsFlag) Type() string { return "months" }

func floatFlag(cmd *cobra.Command, v *float64, name, usage string) {
	cmd.Flags().Var(localeFloat{v}, name, usage)
}

// investmentFlags binds the investment inputs to command flags on top of the defaults.
type investmentFlags struct {
	in domain.InvestmentInputs

	instrument, country, divPolicy, freq, timing string
}

func addInvestmentFlags(cmd *cobra.Command) *investmentFlags {
	f := &investmentFlags{in: domain.DefaultInvestmentInputs()}
	in := &f.in

	floatFlag(cmd, &in.Initial, "initial", "Initial investment")
	floatFlag(cmd, &in.Monthly, "monthly", "Monthly contribution")
	floatFlag(cmd, &in.CustodyFixed, "custody-fixed", "Fixed custody fee per month")
	floatFlag(cmd, &in.PlatformFixed, "platform-fixed", "Fixed platform fee per month")
	floatFlag(cmd, &in.AnnualReturn, "annual-return", "Expected annual return (%)")
	floatFlag(cmd, &in.Inflation, "inflation", "Annual inflation (%)")
	floatFlag(cmd, &in.FeeDeposit, "fee-deposit", "Commission on each deposit (%)")
	floatFlag(cmd, &in.BuySell, "buy-sell", "Commission on the final sale (%)")
	floatFlag(cmd, &in.Mgmt, "mgmt", "Annual management fee (%)")
	floatFlag(cmd, &in.VATOnFees, "vat", "VAT charged on commissions (%)")
	floatFlag(cmd, &in.TaxGain, "tax-gain", "Tax rate on gains (%)")
	floatFlag(cmd, &in.ContribGrowth, "contrib-growth", "Yearly growth of the monthly contribution (%)")
	floatFlag(cmd, &in.MarketSpread, "market-spread", "Market spread paid at liquidation (%)")
	floatFlag(cmd, &in.DivYield, "div-yield", "Annual dividend yield (%)")
	floatFlag(cmd, &in.BuyFee, "buy-fee", "Broker buy commission (%)")
	floatFlag(cmd, &in.SellFee, "sell-fee", "Broker sell commission (%)")
	floatFlag(cmd, &in.EntrySpread, "entry-spread", "Spread paid on each purchase (%)")
	floatFlag(cmd, &in.ExitSpread, "exit-spread", "Spread paid on the final sale (%)")
	floatFlag(cmd, &in.VolAnnual, "vol", "Annual volatility for Monte Carlo (%)")
	floatFlag(cmd, &in.ExtraAmount, "extra-amount", "Extra contribution in each extra month")
	cmd.Flags().IntVar(&in.Years, "years", in.Years, "Projection horizon in years")
	cmd.Flags().IntVar(&in.MCRuns, "mc-runs", in.MCRuns, "Monte Carlo trials (0 disables)")
	cmd.Flags().Int64Var(&in.Seed, "seed", 0, "Monte Carlo seed (0 picks one)")
	cmd.Flags().BoolVar(&in.W8BEN, "w8ben", in.W8BEN, "W-8BEN on file (US treaty withholding)")
	cmd.Flags().Var(monthsFlag{&in.ExtraMonths}, "extra-months", "Months receiving the extra contribution, e.g. 6,12")
	cmd.Flags().Var(monthsFlag{&in.SkipMonths}, "skip-months", "Months without contribution, e.g. 8")
	cmd.Flags().StringVar(&f.instrument, "instrument", string(in.Instrument), "mx_stock, mx_debt, usa_stock or fund")
	cmd.Flags().StringVar(&f.country, "country", string(in.Country), "mx or usa")
	cmd.Flags().StringVar(&f.divPolicy, "div-policy", string(in.DivPolicy), "reinvest or withdraw")
	cmd.Flags().StringVar(&f.freq, "frequency", string(in.Frequency), "monthly, biweekly or annual")
	cmd.Flags().StringVar(&f.timing, "timing", string(in.Timing), "begin or end")
	return f
}

func (f *investmentFlags) inputs() domain.InvestmentInputs {
	in := f.in
	in.Instrument = domain.Instrument(f.instrument)
	in.Country = domain.Country(f.country)
	in.DivPolicy = domain.DividendPolicy(f.divPolicy)
	in.Frequency = domain.Frequency(f.freq)
	in.Timing = domain.Timing(f.timing)
	return in
}

func addDebtFlags(cmd *cobra.Command) *domain.DebtInputs {
	d := domain.DefaultDebtInputs()
	cmd.Flags().StringVar(&d.Title, "title", d.Title, "Loan title")
	floatFlag(cmd, &d.Cost, "cost", "Purchase cost")
	floatFlag(cmd, &d.DownPayment, "down-payment", "Down payment")
	floatFlag(cmd, &d.CATAnnual, "cat", "Total annual cost rate (%)")
	floatFlag(cmd, &d.OpenPct, "open-pct", "Opening fee on the financed amount (%)")
	floatFlag(cmd, &d.InsuranceMonthly, "insurance", "Monthly insurance")
	floatFlag(cmd, &d.ExtraAmount, "extra-amount", "Extra payment in each extra month")
	floatFlag(cmd, &d.InflationAnnual, "inflation", "Annual inflation (%)")
	cmd.Flags().IntVar(&d.TermMonths, "term", d.TermMonths, "Term in months")
	cmd.Flags().Var(monthsFlag{&d.ExtraMonths}, "extra-months", "Months with an extra payment, e.g. 12")
	cmd.Flags().Var(monthsFlag{&d.SkipMonths}, "skip-months", "Interest-only months, e.g. 1")
	return &d
}
