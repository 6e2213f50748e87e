package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/finplan/internal/domain"
)

// CSVYearlyExporter writes one row per projection year.
type CSVYearlyExporter struct{}

func (c CSVYearlyExporter) Name() string { return "csv" }

func (c CSVYearlyExporter) Format(report *domain.PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "FinalBalance", "CumContrib", "Gain", "RealValue", "Fees", "Taxes"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if report.Investment != nil {
		for _, r := range report.Investment.Rows {
			row := []string{
				intToString(r.Year),
				formatAmount(r.FinalBalance),
				formatAmount(r.CumContrib),
				formatAmount(r.Gain),
				formatAmount(r.RealValue),
				formatAmount(r.Fees),
				formatAmount(r.Taxes),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
