package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/finplan/internal/domain"
)

// CSVAmortizationExporter writes the loan schedule, one row per period.
type CSVAmortizationExporter struct{}

func (c CSVAmortizationExporter) Name() string { return "debt-csv" }

func (c CSVAmortizationExporter) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Month", "PaymentTotal", "Interest", "PrincipalPayment", "Fees", "Balance", "InterestAccruedCumulative", "RealBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if report.Debt != nil {
		for _, r := range report.Debt.Rows {
			row := []string{
				intToString(r.Month),
				formatAmount(r.PaymentTotal),
				formatAmount(r.Interest),
				formatAmount(r.PrincipalPayment),
				formatAmount(r.Fees),
				formatAmount(r.Balance),
				formatAmount(r.InterestAccruedCumulative),
				formatAmount(r.RealBalance),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
