package output

import (
	"strconv"

	"github.com/rpgo/finplan/pkg/decimal"
)

// FormatCurrency renders an amount as "MX$ 1,234.57".
func FormatCurrency(amount float64) string { return decimal.NewMoney(amount).Format() }

// FormatPercentage renders a percentage value (12.3 -> "12.30%").
func FormatPercentage(value float64) string { return decimal.NewMoney(value).String() + "%" }

// formatAmount renders a raw amount with two decimals for machine-readable outputs.
func formatAmount(amount float64) string { return decimal.NewMoney(amount).String() }

func intToString(i int) string { return strconv.Itoa(i) }
