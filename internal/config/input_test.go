package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	testConfig := "name: \"Retirement pot\"\n" +
		"investment:\n" +
		"  initial: 10000\n" +
		"  monthly: \"1500,50\"\n" +
		"  years: 15\n" +
		"  annual_return: 8,5\n" +
		"  instrument: usa_stock\n" +
		"  w8ben: false\n" +
		"  frequency: biweekly\n" +
		"  extra_months: \"6, 12, x\"\n" +
		"  extra_amount: 2000\n" +
		"  skip_months: 8\n" +
		"debt:\n" +
		"  title: \"Car\"\n" +
		"  cost: 250000\n" +
		"  down_payment: 50000\n" +
		"  cat_annual: 13,9\n" +
		"  term_months: 36\n"

	tempFile := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(tempFile, []byte(testConfig), 0644))

	plan, err := NewInputParser().LoadFromFile(tempFile)
	require.NoError(t, err)
	assert.Equal(t, "Retirement pot", plan.Name)

	require.NotNil(t, plan.Investment)
	in := plan.Investment
	assert.Equal(t, 1500.50, in.Monthly)
	assert.Equal(t, 8.5, in.AnnualReturn)
	assert.Equal(t, domain.InstrumentUSAStock, in.Instrument)
	assert.False(t, in.W8BEN)
	assert.Equal(t, domain.FrequencyBiweekly, in.Frequency)
	assert.Equal(t, dateutil.NewMonthSet(6, 12), in.ExtraMonths)
	assert.Equal(t, dateutil.NewMonthSet(8), in.SkipMonths)
	assert.Equal(t, 16.0, in.VATOnFees, "unset fields keep defaults")

	require.NotNil(t, plan.Debt)
	assert.Equal(t, 13.9, plan.Debt.CATAnnual)
	assert.Equal(t, 200000.0, plan.Debt.Financed())
	assert.Equal(t, 4.0, plan.Debt.InflationAnnual)
}

func TestLoadFromFile_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("investment: [unclosed"), 0644))
	_, err = parser.LoadFromFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")

	_, err = parser.Parse([]byte("name: empty\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12", 12, false},
		{" 1234,5 ", 1234.5, false},
		{"-0,25", -0.25, false},
		{"3.75", 3.75, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.234,5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestValidateInvestment(t *testing.T) {
	parser := NewInputParser()
	tests := []struct {
		name    string
		mod     func(*domain.InvestmentInputs)
		wantErr string
	}{
		{"defaults are valid", func(*domain.InvestmentInputs) {}, ""},
		{"no funding is valid", func(in *domain.InvestmentInputs) { in.Initial, in.Monthly = 0, 0 }, ""},
		{"zero years", func(in *domain.InvestmentInputs) { in.Years = 0 }, "years must be between"},
		{"too many years", func(in *domain.InvestmentInputs) { in.Years = 101 }, "years must be between"},
		{"negative monthly", func(in *domain.InvestmentInputs) { in.Monthly = -1 }, "monthly cannot be negative"},
		{"total loss return", func(in *domain.InvestmentInputs) { in.AnnualReturn = -100 }, "annual_return"},
		{"fee above 100", func(in *domain.InvestmentInputs) { in.Mgmt = 150 }, "mgmt must be between 0 and 100"},
		{"negative vat", func(in *domain.InvestmentInputs) { in.VATOnFees = -1 }, "vat_on_fees"},
		{"volatility", func(in *domain.InvestmentInputs) { in.VolAnnual = 500 }, "vol_annual"},
		{"negative runs", func(in *domain.InvestmentInputs) { in.MCRuns = -5 }, "mc_runs"},
		{"instrument", func(in *domain.InvestmentInputs) { in.Instrument = "crypto" }, "unknown instrument"},
		{"frequency", func(in *domain.InvestmentInputs) { in.Frequency = "weekly" }, "unknown frequency"},
		{"timing", func(in *domain.InvestmentInputs) { in.Timing = "middle" }, "unknown timing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.DefaultInvestmentInputs()
			in.Monthly = 100
			tt.mod(&in)
			err := parser.ValidateInvestment(&in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestValidateDebt(t *testing.T) {
	parser := NewInputParser()
	base := func() domain.DebtInputs {
		d := domain.DefaultDebtInputs()
		d.Cost = 1000
		return d
	}

	d := base()
	assert.NoError(t, parser.ValidateDebt(&d))

	d = base()
	d.DownPayment = 1000
	err := parser.ValidateDebt(&d)
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))

	d = base()
	d.TermMonths = 0
	assert.ErrorContains(t, parser.ValidateDebt(&d), "term_months")

	d = base()
	d.OpenPct = 120
	assert.ErrorContains(t, parser.ValidateDebt(&d), "open_pct")

	d = base()
	d.CATAnnual = -1
	assert.ErrorContains(t, parser.ValidateDebt(&d), "cat_annual")
}

func TestExamplePlanRoundTrip(t *testing.T) {
	parser := NewInputParser()
	example := parser.CreateExamplePlan()
	require.NoError(t, parser.ValidatePlan(example))

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, SavePlan(example, path))

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, *example.Investment, *loaded.Investment)
	assert.Equal(t, *example.Debt, *loaded.Debt)
	assert.Equal(t, example.Name, loaded.Name)
}
