package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/finplan/internal/domain"
)

func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// Render writes a report to w in the named format.
func Render(w io.Writer, report *domain.PlanReport, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return unsupported(format)
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// GenerateReport writes the report to timestamped files in dir. "all" writes
// the console text plus both CSV exports. It returns the files written.
func GenerateReport(report *domain.PlanReport, format, dir string) ([]string, error) {
	var formatters []Formatter
	if NormalizeFormatName(format) == "all" {
		formatters = []Formatter{ConsoleFormatter{}, CSVYearlyExporter{}, CSVAmortizationExporter{}}
	} else if f := GetFormatterByName(format); f != nil {
		formatters = []Formatter{f}
	} else {
		return nil, unsupported(format)
	}

	var files []string
	for _, f := range formatters {
		name, err := WriteFormatted(f, report, dir, extensionFor(f))
		if err != nil {
			return files, err
		}
		files = append(files, name)
	}
	return files, nil
}
