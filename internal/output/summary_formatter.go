package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/finplan/internal/domain"
)

// SummaryFormatter renders the short clipboard-style summary of the totals.
type SummaryFormatter struct{}

func (s SummaryFormatter) Name() string { return "summary" }

func (s SummaryFormatter) Format(report *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	if inv := report.Investment; inv != nil {
		buf.Write(summaryLines(inv))
	}
	if d := report.Debt; d != nil {
		fmt.Fprintf(&buf, "%s: %d months (%.1f years), total paid %s, real cost %s\n",
			d.Title, d.Summary.Months, d.Summary.Years, FormatCurrency(d.Summary.TotalPaid), FormatCurrency(d.Summary.RealCost))
	}
	return buf.Bytes(), nil
}

func summaryLines(inv *domain.InvestmentResult) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Nominal value: %s\n", FormatCurrency(inv.Nominal))
	fmt.Fprintf(&buf, "Total contributions: %s\n", FormatCurrency(inv.TotalContrib))
	fmt.Fprintf(&buf, "Gain: %s\n", FormatCurrency(inv.TotalGain))
	fmt.Fprintf(&buf, "Real value: %s\n", FormatCurrency(inv.RealValue))
	return buf.Bytes()
}
