package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/finplan/internal/domain"
)

// ConsoleFormatter renders the year table, the amortization table and the
// Monte Carlo percentiles as plain text.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	title := "FINANCIAL PLAN REPORT"
	if report.Name != "" {
		title += ": " + strings.ToUpper(report.Name)
	}
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range assumptionsFor(report) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	if inv := report.Investment; inv != nil {
		writeInvestment(&buf, inv)
	}
	if report.Debt != nil {
		writeDebt(&buf, report.Debt)
	}
	if report.DebtError != "" {
		fmt.Fprintf(&buf, "LOAN: %s\n\n", report.DebtError)
	}

	h := Analyze(report)
	if h.GrowthMultiple > 0 || h.InterestToFinanced > 0 {
		fmt.Fprintln(&buf, "HIGHLIGHTS")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		if h.GrowthMultiple > 0 {
			fmt.Fprintf(&buf, "Growth multiple:      %.2fx\n", h.GrowthMultiple)
			fmt.Fprintf(&buf, "Inflation erosion:    %s\n", FormatPercentage(h.InflationErosionPct))
			fmt.Fprintf(&buf, "Fees paid:            %s\n", FormatCurrency(h.TotalFees))
			fmt.Fprintf(&buf, "Taxes paid:           %s\n", FormatCurrency(h.TotalTaxes))
		}
		if h.InterestToFinanced > 0 {
			fmt.Fprintf(&buf, "Interest / financed:  %s\n", FormatPercentage(h.InterestToFinanced))
		}
	}
	return buf.Bytes(), nil
}

func writeInvestment(buf *bytes.Buffer, inv *domain.InvestmentResult) {
	fmt.Fprintln(buf, "INVESTMENT PROJECTION")
	fmt.Fprintln(buf, strings.Repeat("-", 80))
	if inv.IsEmpty() {
		fmt.Fprintln(buf, "Nothing to project: initial and monthly amounts are both zero.")
		fmt.Fprintln(buf)
		return
	}
	fmt.Fprintf(buf, "%-5s %18s %18s %16s %18s %12s %12s\n", "Year", "Balance", "Contributed", "Gain", "Real value", "Fees", "Taxes")
	for _, r := range inv.Rows {
		fmt.Fprintf(buf, "%-5d %18s %18s %16s %18s %12s %12s\n",
			r.Year,
			FormatCurrency(r.FinalBalance),
			FormatCurrency(r.CumContrib),
			FormatCurrency(r.Gain),
			FormatCurrency(r.RealValue),
			FormatCurrency(r.Fees),
			FormatCurrency(r.Taxes),
		)
	}
	fmt.Fprintln(buf)
	buf.Write(summaryLines(inv))
	for _, n := range inv.Notices {
		fmt.Fprintf(buf, "Note: %s\n", n)
	}
	if mc := inv.MonteCarlo; mc != nil {
		fmt.Fprintf(buf, "Monte Carlo (%d runs, seed %d): P5 %s | P50 %s | P95 %s\n",
			mc.Runs, mc.Seed, FormatCurrency(mc.P5), FormatCurrency(mc.P50), FormatCurrency(mc.P95))
	}
	fmt.Fprintln(buf)
}

func writeDebt(buf *bytes.Buffer, debt *domain.DebtResult) {
	fmt.Fprintf(buf, "LOAN AMORTIZATION: %s\n", debt.Title)
	fmt.Fprintln(buf, strings.Repeat("-", 80))
	fmt.Fprintf(buf, "%-6s %16s %14s %16s %12s %18s %18s\n", "Month", "Payment", "Interest", "Principal", "Fees", "Balance", "Real balance")
	for _, r := range debt.Rows {
		fmt.Fprintf(buf, "%-6d %16s %14s %16s %12s %18s %18s\n",
			r.Month,
			FormatCurrency(r.PaymentTotal),
			FormatCurrency(r.Interest),
			FormatCurrency(r.PrincipalPayment),
			FormatCurrency(r.Fees),
			FormatCurrency(r.Balance),
			FormatCurrency(r.RealBalance),
		)
	}
	s := debt.Summary
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Scheduled payment: %s\n", FormatCurrency(s.ScheduledPayment))
	fmt.Fprintf(buf, "Months: %d (%.1f years)\n", s.Months, s.Years)
	fmt.Fprintf(buf, "Total paid (incl. fees): %s\n", FormatCurrency(s.TotalPaid))
	fmt.Fprintf(buf, "Total interest: %s\n", FormatCurrency(s.TotalInterest))
	fmt.Fprintf(buf, "Total fees: %s\n", FormatCurrency(s.TotalFees))
	fmt.Fprintf(buf, "Real cost: %s\n", FormatCurrency(s.RealCost))
	fmt.Fprintln(buf)
}
